package hours

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	hourLayout = "15:04"
)

var stockholmLoc *time.Location

func init() {
	var err error
	stockholmLoc, err = time.LoadLocation("Europe/Stockholm")
	if err != nil {
		panic(fmt.Sprintf("failed to load Stockholm location: %v", err))
	}
}

// Stockholm returns the civil time zone all Swedish price areas use.
func Stockholm() *time.Location {
	return stockholmLoc
}

func LocationStockholm(t time.Time) time.Time {
	return t.In(stockholmLoc)
}

// ParseDate parses a YYYY-MM-DD string as midnight in Stockholm.
func ParseDate(str string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, str, stockholmLoc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", str, err)
	}
	return t, nil
}

// StartOfDay returns local midnight for the calendar date of t in Stockholm.
func StartOfDay(t time.Time) time.Time {
	t = t.In(stockholmLoc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, stockholmLoc)
}

// NextDay returns local midnight of the following calendar date. The
// calendar arithmetic keeps 23 and 25 hour days intact.
func NextDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1)
}

func Today() time.Time {
	return StartOfDay(time.Now())
}

func FormatDate(t time.Time) string {
	return t.In(stockholmLoc).Format(DateLayout)
}

func FormatHour(t time.Time) string {
	return t.In(stockholmLoc).Format(hourLayout)
}

// IsHourAligned reports whether t sits on a whole hour. Stockholm has
// whole hour UTC offsets so the absolute and local checks agree.
func IsHourAligned(t time.Time) bool {
	return !t.IsZero() && t.Truncate(time.Hour).Equal(t)
}

func TruncateHour(t time.Time) time.Time {
	return t.Truncate(time.Hour).In(stockholmLoc)
}

func FromIso(str string) time.Time {
	t, err := time.Parse(time.RFC3339, str)
	if err != nil {
		return time.Time{}
	}
	return t.In(stockholmLoc)
}

package series

import (
	"fmt"
	"slices"
	"time"

	"github.com/icodeforyou/elpris-go/hours"
	"github.com/icodeforyou/elpris-go/slice"
)

type DuplicateHourError struct {
	Start time.Time
}

func (e *DuplicateHourError) Error() string {
	return fmt.Sprintf("duplicate price for hour %s", e.Start.Format(time.RFC3339))
}

// Series is an ordered collection of hourly prices, unique by start time.
// Gaps between hours are allowed. A Series is not safe for concurrent use.
type Series struct {
	points []PricePoint
}

func New() *Series {
	return &Series{}
}

// FromPoints builds a series from points in any order.
func FromPoints(points ...PricePoint) (*Series, error) {
	s := &Series{points: make([]PricePoint, 0, len(points))}
	for _, p := range points {
		if err := s.Append(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Append inserts p at its chronological position.
func (s *Series) Append(p PricePoint) error {
	i, found := slices.BinarySearchFunc(s.points, p.start, func(e PricePoint, t time.Time) int {
		return e.start.Compare(t)
	})
	if found {
		return &DuplicateHourError{Start: p.start}
	}
	s.points = slices.Insert(s.points, i, p)
	return nil
}

func (s *Series) Len() int {
	return len(s.points)
}

func (s *Series) At(i int) PricePoint {
	return s.points[i]
}

func (s *Series) Points() []PricePoint {
	return slices.Clone(s.points)
}

func (s *Series) SortedByTime() []PricePoint {
	return s.Points()
}

// SortedByPrice is a display view, the series itself stays chronological.
// Equal prices keep their chronological order.
func (s *Series) SortedByPrice(ascending bool) []PricePoint {
	sorted := s.Points()
	slices.SortStableFunc(sorted, func(a, b PricePoint) int {
		switch {
		case a.price < b.price:
			if ascending {
				return -1
			}
			return 1
		case a.price > b.price:
			if ascending {
				return 1
			}
			return -1
		default:
			return 0
		}
	})
	return sorted
}

func (s *Series) Prices() []float64 {
	return slice.Map(s.points, PricePoint.Price)
}

// Dates returns the distinct calendar dates covered, in order.
func (s *Series) Dates() []string {
	var dates []string
	for _, p := range s.points {
		d := hours.FormatDate(p.start)
		if len(dates) == 0 || dates[len(dates)-1] != d {
			dates = append(dates, d)
		}
	}
	return dates
}

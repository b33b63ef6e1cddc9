package hours

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-01-01")
	if err != nil {
		t.Fatalf("ParseDate() unexpected error: %v", err)
	}
	if d.Hour() != 0 || d.Location() != Stockholm() {
		t.Errorf("ParseDate() expected local midnight, got %v", d)
	}

	if _, err := ParseDate("2025-13-01"); err == nil {
		t.Errorf("ParseDate() expected error for invalid month")
	}
	if _, err := ParseDate("01/01/2025"); err == nil {
		t.Errorf("ParseDate() expected error for wrong layout")
	}
}

func TestNextDay(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		length   time.Duration
	}{
		{name: "regular day", input: "2025-01-01", expected: "2025-01-02", length: 24 * time.Hour},
		{name: "spring forward", input: "2025-03-30", expected: "2025-03-31", length: 23 * time.Hour},
		{name: "fall back", input: "2025-10-26", expected: "2025-10-27", length: 25 * time.Hour},
		{name: "new year", input: "2024-12-31", expected: "2025-01-01", length: 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.input)
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			next := NextDay(d)
			if s := FormatDate(next); s != tt.expected {
				t.Errorf("NextDay() expected %q, got %q", tt.expected, s)
			}
			if l := next.Sub(d); l != tt.length {
				t.Errorf("day length expected %v, got %v", tt.length, l)
			}
		})
	}
}

func TestStartOfDay(t *testing.T) {
	// 23:30 UTC on Jan 1 is already Jan 2 in Stockholm.
	tm := time.Date(2025, time.January, 1, 23, 30, 0, 0, time.UTC)
	if s := FormatDate(StartOfDay(tm)); s != "2025-01-02" {
		t.Errorf("StartOfDay() expected 2025-01-02, got %s", s)
	}
}

func TestIsHourAligned(t *testing.T) {
	if !IsHourAligned(time.Date(2025, time.January, 1, 15, 0, 0, 0, Stockholm())) {
		t.Errorf("expected whole hour to be aligned")
	}
	if IsHourAligned(time.Date(2025, time.January, 1, 15, 15, 0, 0, Stockholm())) {
		t.Errorf("expected quarter hour not to be aligned")
	}
	if IsHourAligned(time.Time{}) {
		t.Errorf("expected zero time not to be aligned")
	}
}

func TestFormatHour(t *testing.T) {
	tm := time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC)
	if s := FormatHour(tm); s != "14:00" {
		t.Errorf("FormatHour() expected 14:00, got %s", s)
	}
}

func TestFromIso(t *testing.T) {
	parsed := FromIso("2025-01-01T15:00:00+01:00")
	expected := time.Date(2025, time.January, 1, 14, 0, 0, 0, time.UTC)
	if !parsed.Equal(expected) {
		t.Errorf("FromIso() expected %v, got %v", expected, parsed)
	}

	if !FromIso("not a valid iso date").IsZero() {
		t.Errorf("FromIso() expected zero time for an invalid date string")
	}
}

func TestLocationStockholm(t *testing.T) {
	tmWinter := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
	_, offsetWinter := LocationStockholm(tmWinter).Zone()
	if offsetWinter != 3600 {
		t.Errorf("LocationStockholm() on winter date expected offset 3600 seconds, got %d", offsetWinter)
	}

	tmSummer := time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC)
	_, offsetSummer := LocationStockholm(tmSummer).Zone()
	if offsetSummer != 7200 {
		t.Errorf("LocationStockholm() on summer date expected offset 7200 seconds, got %d", offsetSummer)
	}
}

package utils

import (
	"fmt"
	"log"
	"time"
)

// DateKeyLayout is the storage and wire format of a calendar date.
const DateKeyLayout = time.DateOnly

// LoadLocation resolves an IANA zone name and falls back to UTC when the zone is unknown.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("Failed to load timezone %s, falling back to UTC: %v", name, err)
		return time.UTC
	}
	return loc
}

func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateKeyLayout)
}

// ParseDateKey accepts YYYY-MM-DD and returns local midnight of that date.
func ParseDateKey(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateKeyLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD, got %q", value)
	}
	return t, nil
}

// StartOfWeek returns midnight of the Sunday on or before t.
func StartOfWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// MonthBounds returns the first and last calendar day of the month.
func MonthBounds(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return first, first.AddDate(0, 1, -1)
}

// DaysInclusive counts calendar days from start to end, both included.
func DaysInclusive(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}

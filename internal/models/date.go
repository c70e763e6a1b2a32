package models

import "time"

// DayFormat is the single calendar-day representation used across the API.
// Session dates have no time or timezone component; they are stored in DATE
// columns and exchanged as YYYY-MM-DD strings.
const DayFormat = "2006-01-02"

// ParseDay parses a YYYY-MM-DD string into a UTC-midnight time value.
func ParseDay(raw string) (time.Time, error) {
	return time.ParseInLocation(DayFormat, raw, time.UTC)
}

// FormatDay renders a time value as a YYYY-MM-DD string.
func FormatDay(t time.Time) string {
	return t.Format(DayFormat)
}

// Day truncates a time value to its UTC calendar day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

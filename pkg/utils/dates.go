package utils

import (
	"fmt"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	YearMonthLayout = "2006-01"
)

// ParseDate parses a calendar day. Only the canonical zero-padded
// YYYY-MM-DD form is accepted.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	if t.Format(DateLayout) != value {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return t, nil
}

func ParseYearMonth(value string) (time.Time, error) {
	t, err := time.Parse(YearMonthLayout, value)
	if err != nil || t.Format(YearMonthLayout) != value {
		return time.Time{}, fmt.Errorf("invalid month %q: expected YYYY-MM", value)
	}
	return t, nil
}

// FormatDate renders t as a calendar day in UTC
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// DaySpan counts the calendar days from start to end, both inclusive,
// without materialising them. Zero or less when start is after end.
func DaySpan(start, end time.Time) int {
	const secondsPerDay = 24 * 60 * 60
	return int((end.Unix()-start.Unix())/secondsPerDay) + 1
}

// DaysBetween lists every calendar day from start to end, both inclusive.
// Returns nil when start is after end.
func DaysBetween(start, end time.Time) []string {
	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DateLayout))
	}
	return days
}

// DaysInMonth lists every calendar day of the month starting at first
func DaysInMonth(first time.Time) []string {
	last := first.AddDate(0, 1, -1)
	return DaysBetween(first, last)
}

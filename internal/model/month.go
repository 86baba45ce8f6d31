package model

import (
	"fmt"
	"time"
)

// Month selects a single calendar month, or no month at all: the zero value
// means "no date restriction".
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses a year-month selector in "2006-01" form.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf returns the month containing the given date.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// IsZero reports whether no month is selected.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// Contains reports whether the date falls within the calendar month. A zero
// Month contains every date.
func (m Month) Contains(t time.Time) bool {
	if m.IsZero() {
		return true
	}
	return t.Year() == m.Year && t.Month() == m.Month
}

// Prev returns the preceding calendar month.
func (m Month) Prev() Month {
	t := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return Month{Year: t.Year(), Month: t.Month()}
}

// Next returns the following calendar month.
func (m Month) Next() Month {
	t := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return Month{Year: t.Year(), Month: t.Month()}
}

// String renders the selector in "2006-01" form, or an empty string for the
// zero value.
func (m Month) String() string {
	if m.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

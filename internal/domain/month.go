package domain

import (
	"fmt"
	"time"
)

// Month identifies one snapshot period at month granularity
// Snapshots are recorded once per month; the month's exchange rates are the
// ones effective on its first day
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month for a year and calendar month
func MonthOf(year int, month time.Month) Month {
	return Month{Year: year, Month: month}
}

// MonthFromTime returns the month containing t
func MonthFromTime(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses the "YYYY-MM" form used in URLs and storage
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return MonthFromTime(t), nil
}

// Date returns the first day of the month in UTC
func (m Month) Date() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// String renders the "YYYY-MM" form
func (m Month) String() string {
	return m.Date().Format("2006-01")
}

// Label renders the "Jan 2006" display form
func (m Month) Label() string {
	return m.Date().Format("Jan 2006")
}

// Next returns the following month
func (m Month) Next() Month {
	return MonthFromTime(m.Date().AddDate(0, 1, 0))
}

// Before reports whether m precedes other
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// IsZero reports whether m is the zero value
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

package core

import (
	"fmt"
	"strings"
	"time"
)

// MonthLayout is the YYYY-MM form used by query parameters and grouping keys.
const MonthLayout = "2006-01"

// Month identifies a calendar month in UTC.
type Month struct {
	Year  int
	Month time.Month
}

// CurrentMonth returns the UTC month containing now.
func CurrentMonth(now time.Time) Month {
	y, m, _ := now.UTC().Date()
	return Month{Year: y, Month: m}
}

// ParseMonth reads YYYY-MM. An empty string yields the month of now.
func ParseMonth(s string, now time.Time) (Month, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CurrentMonth(now), nil
	}
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// Start is the first instant of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the last millisecond of the month, the inclusive upper bound of
// the monthly summary window.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, 0).Add(-time.Millisecond)
}

// LastDay is midnight of the month's last calendar day. Used as the
// exclusive upper bound of the category breakdown window, so transactions
// dated on the last day fall outside it.
func (m Month) LastDay() time.Time {
	return CalendarDate(m.End())
}

func (m Month) String() string {
	return m.Start().Format(MonthLayout)
}

package report

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// DefaultStopWindowDays is the trailing window of the stop-reason view.
const DefaultStopWindowDays = 7

// MonthRange returns the first and last calendar day of a month as YYYY-MM-DD.
func MonthRange(year int, month time.Month) (string, string) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(dayLayout), last.Format(dayLayout)
}

// ParseMonth parses a YYYY-MM month selector.
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q (expected YYYY-MM)", s)
	}
	return t.Year(), t.Month(), nil
}

// TrailingRange returns the range from days before now up to now.
func TrailingRange(now time.Time, days int) (string, string) {
	return now.AddDate(0, 0, -days).Format(dayLayout), now.Format(dayLayout)
}

// Today returns now as YYYY-MM-DD.
func Today(now time.Time) string {
	return now.Format(dayLayout)
}

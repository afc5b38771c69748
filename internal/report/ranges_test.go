package report

import (
	"testing"
	"time"
)

func TestMonthRange(t *testing.T) {
	cases := []struct {
		year       int
		month      time.Month
		start, end string
	}{
		{2024, time.February, "2024-02-01", "2024-02-29"},
		{2023, time.February, "2023-02-01", "2023-02-28"},
		{2024, time.December, "2024-12-01", "2024-12-31"},
		{2024, time.April, "2024-04-01", "2024-04-30"},
	}
	for _, tc := range cases {
		start, end := MonthRange(tc.year, tc.month)
		if start != tc.start || end != tc.end {
			t.Fatalf("MonthRange(%d, %s) = %s..%s, want %s..%s", tc.year, tc.month, start, end, tc.start, tc.end)
		}
	}
}

func TestParseMonth(t *testing.T) {
	year, month, err := ParseMonth("2024-03")
	if err != nil || year != 2024 || month != time.March {
		t.Fatalf("unexpected parse: %d %s %v", year, month, err)
	}
	for _, bad := range []string{"", "2024-13", "2024-3", "March 2024", "2024-03-01"} {
		if _, _, err := ParseMonth(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestTrailingRange(t *testing.T) {
	now := time.Date(2024, 3, 2, 15, 0, 0, 0, time.Local)
	start, end := TrailingRange(now, DefaultStopWindowDays)
	if start != "2024-02-24" || end != "2024-03-02" {
		t.Fatalf("unexpected window %s..%s", start, end)
	}
	if Today(now) != "2024-03-02" {
		t.Fatalf("unexpected today %s", Today(now))
	}
}

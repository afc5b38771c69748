// Package report turns production records into filtered sets, rates,
// daily and monthly rollups and stop-reason analyses, and renders them.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// DefaultDateFormat is used by FormatDate when no format is given.
const DefaultDateFormat = "YYYY-MM-DD"

// Placeholder is rendered for values that cannot be formatted.
const Placeholder = "-"

var timestampLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
}

// ParseTimestamp parses the ISO-like timestamps found in production logs.
// Layouts without a zone are interpreted in local time.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate parses value and formats it with the YYYY/MM/DD/HH/mm/ss tokens.
func FormatDate(value, format string) string {
	t, ok := ParseTimestamp(value)
	if !ok {
		return Placeholder
	}
	return FormatTime(t, format)
}

// FormatTime substitutes the first occurrence of each token in format.
func FormatTime(t time.Time, format string) string {
	if t.IsZero() {
		return Placeholder
	}
	if format == "" {
		format = DefaultDateFormat
	}
	out := format
	out = strings.Replace(out, "YYYY", strconv.Itoa(t.Year()), 1)
	out = strings.Replace(out, "MM", pad2(int(t.Month())), 1)
	out = strings.Replace(out, "DD", pad2(t.Day()), 1)
	out = strings.Replace(out, "HH", pad2(t.Hour()), 1)
	out = strings.Replace(out, "mm", pad2(t.Minute()), 1)
	out = strings.Replace(out, "ss", pad2(t.Second()), 1)
	return out
}

func pad2(v int) string {
	return fmt.Sprintf("%02d", v)
}

// MinutesToHHMM renders minutes as HH:MM. Hours are not capped at 24 and
// negative input keeps floor and truncated-remainder semantics
// (-1 renders as "-1:-1").
func MinutesToHHMM(minutes float64) string {
	if minutes == 0 || math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return "00:00"
	}
	h := math.Floor(minutes / 60)
	m := math.Floor(math.Mod(minutes, 60))
	return fmt.Sprintf("%02d:%02d", int64(h), int64(m))
}

// DurationToMinutes converts an "M:S" duration into fractional minutes.
// Anything that is not exactly two colon-separated parts yields 0.
func DurationToMinutes(duration string) float64 {
	if duration == "" {
		return 0
	}
	parts := strings.Split(duration, ":")
	if len(parts) != 2 {
		return 0
	}
	minutes := leadingInt(parts[0])
	seconds := leadingInt(parts[1])
	return float64(minutes) + float64(seconds)/60
}

// leadingInt parses an optional sign and the leading run of digits,
// ignoring leading whitespace and any trailing text. No digits yields 0.
func leadingInt(s string) int64 {
	s = strings.TrimLeft(s, " \t\n\r")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	if neg {
		return -v
	}
	return v
}

// FormatNumber renders num with fixed decimals and thousands separators.
func FormatNumber(num float64, decimals int) string {
	if math.IsNaN(num) || math.IsInf(num, 0) {
		return Placeholder
	}
	if decimals < 0 {
		decimals = 0
	}
	s := strconv.FormatFloat(num, 'f', decimals, 64)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return sign + s
	}
	out := sign + humanize.Comma(n)
	if hasFrac {
		out += "." + frac
	}
	return out
}

// FormatPercent renders value with fixed decimals and a percent sign.
func FormatPercent(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Placeholder
	}
	if decimals < 0 {
		decimals = 0
	}
	return strconv.FormatFloat(value, 'f', decimals, 64) + "%"
}

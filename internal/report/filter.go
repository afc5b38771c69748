package report

import (
	"time"

	"github.com/verte-zerg/boxline/internal/model"
)

// legacyAllShifts is the all-shifts label stored by the original dashboard.
const legacyAllShifts = "全部"

// FilterByDateRange keeps records dated within [startDate, endDate], where
// endDate covers its whole calendar day. An empty bound disables filtering
// and returns records unchanged; an unparsable bound matches nothing.
func FilterByDateRange(records []model.ProductionRecord, startDate, endDate string) []model.ProductionRecord {
	if startDate == "" || endDate == "" {
		return records
	}
	start, okStart := ParseTimestamp(startDate)
	end, okEnd := ParseTimestamp(endDate)
	out := make([]model.ProductionRecord, 0, len(records))
	if !okStart || !okEnd {
		return out
	}
	end = endOfDay(end)
	for _, rec := range records {
		t, ok := ParseTimestamp(rec.Date)
		if !ok {
			continue
		}
		if t.Before(start) || t.After(end) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// FilterByShift keeps records whose shift equals shift exactly.
func FilterByShift(records []model.ProductionRecord, shift string) []model.ProductionRecord {
	if isAllShifts(shift) {
		return records
	}
	out := make([]model.ProductionRecord, 0, len(records))
	for _, rec := range records {
		if rec.Shift == shift {
			out = append(out, rec)
		}
	}
	return out
}

func isAllShifts(shift string) bool {
	return shift == "" || shift == model.AllShifts || shift == legacyAllShifts
}

// FilterRecords applies the date range and then the shift filter.
func FilterRecords(records []model.ProductionRecord, f model.ReportFilter) []model.ProductionRecord {
	return FilterByShift(FilterByDateRange(records, f.StartDate, f.EndDate), f.Shift)
}

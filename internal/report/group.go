package report

import (
	"fmt"
	"sort"

	"github.com/verte-zerg/boxline/internal/model"
)

// RecordGroup is a bucket of records sharing a key.
type RecordGroup struct {
	Key     string
	Records []model.ProductionRecord
}

type grouper struct {
	index  map[string]int
	groups []RecordGroup
}

func newGrouper() *grouper {
	return &grouper{index: map[string]int{}}
}

func (g *grouper) add(key string, rec model.ProductionRecord) {
	idx, ok := g.index[key]
	if !ok {
		idx = len(g.groups)
		g.index[key] = idx
		g.groups = append(g.groups, RecordGroup{Key: key})
	}
	g.groups[idx].Records = append(g.groups[idx].Records, rec)
}

// GroupByDate buckets records by the literal value of their date field.
// Buckets appear in order of first encounter.
func GroupByDate(records []model.ProductionRecord) []RecordGroup {
	g := newGrouper()
	for _, rec := range records {
		g.add(rec.Date, rec)
	}
	return g.groups
}

// GroupByMonth buckets records by YYYY-MM derived from date, or startTime
// when date is empty. Records without a parsable timestamp are dropped.
func GroupByMonth(records []model.ProductionRecord) []RecordGroup {
	g := newGrouper()
	for _, rec := range records {
		value := rec.EffectiveDate()
		if value == "" {
			continue
		}
		t, ok := ParseTimestamp(value)
		if !ok {
			continue
		}
		g.add(fmt.Sprintf("%d-%02d", t.Year(), int(t.Month())), rec)
	}
	return g.groups
}

// GroupStopReasonsByReason flattens every record's stop events into one
// group per reason, with the contributing occurrences kept for drill-down.
// Groups are sorted by descending count; ties keep first-discovery order.
func GroupStopReasonsByReason(records []model.ProductionRecord) []model.StopReasonGroup {
	index := map[string]int{}
	groups := []model.StopReasonGroup{}
	for _, rec := range records {
		for _, stop := range rec.StopReasons {
			reason := stop.Reason
			if reason == "" {
				reason = model.Unclassified
			}
			idx, ok := index[reason]
			if !ok {
				idx = len(groups)
				index[reason] = idx
				groups = append(groups, model.StopReasonGroup{Reason: reason})
			}
			group := &groups[idx]
			if group.Code == "" {
				group.Code = stop.Code
			}
			group.Count++
			group.TotalDuration += DurationToMinutes(stop.Duration)
			group.Records = append(group.Records, model.StopOccurrence{
				OrderID:     rec.ID,
				OrderNo:     rec.OrderNo,
				Customer:    rec.Customer,
				ProductName: rec.DisplayProduct(),
				Time:        stop.Time,
				Duration:    stop.Duration,
				Date:        rec.EffectiveDate(),
			})
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})
	return groups
}

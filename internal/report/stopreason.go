package report

import (
	"sort"

	"github.com/verte-zerg/boxline/internal/model"
)

// SummarizeStopReasons groups stop events by reason and adds grand totals.
func SummarizeStopReasons(records []model.ProductionRecord) model.StopReasonSummary {
	groups := GroupStopReasonsByReason(records)
	summary := model.StopReasonSummary{Groups: groups}
	for _, g := range groups {
		summary.TotalCount += g.Count
		summary.TotalDuration += g.TotalDuration
	}
	return summary
}

// AnalyzeStopReasons returns per-reason counts and minutes along with their
// share of all stop events and stop time, sorted by descending count.
func AnalyzeStopReasons(records []model.ProductionRecord) []model.StopReasonStat {
	summary := SummarizeStopReasons(records)
	stats := make([]model.StopReasonStat, 0, len(summary.Groups))
	for _, g := range summary.Groups {
		stat := model.StopReasonStat{
			Reason:       g.Reason,
			Count:        g.Count,
			TotalMinutes: g.TotalDuration,
			CountPercent: g.Share(summary.TotalCount),
		}
		if summary.TotalDuration > 0 {
			stat.TimePercent = g.TotalDuration / summary.TotalDuration * 100
		}
		if g.Count > 0 {
			stat.AvgMinutes = g.TotalDuration / float64(g.Count)
		}
		stats = append(stats, stat)
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})
	return stats
}

package report

import (
	"sort"

	"github.com/verte-zerg/boxline/internal/model"
)

// CalculateDailySummary aggregates records that have already been filtered
// by date range and shift. Yield and achievement come from the totals, not
// from averaging per-record rates; OEE is a plain per-record mean.
func CalculateDailySummary(records []model.ProductionRecord) model.DailySummary {
	if len(records) == 0 {
		return model.DailySummary{}
	}
	var s model.DailySummary
	var oeeSum float64
	for _, rec := range records {
		s.TotalTarget += rec.TargetQty
		s.TotalGood += rec.GoodQty
		s.TotalDefect += rec.DefectQty
		s.TotalRunTime += rec.RunMinutes()
		s.TotalStopTime += rec.StopMinutes()
		s.TotalStopCount += rec.StopCount
		oeeSum += rec.OEE
	}
	s.TotalOrders = len(records)
	s.AvgYieldRate = YieldRate(s.TotalGood, s.TotalDefect)
	s.AvgAchievementRate = AchievementRate(s.TotalGood, s.TotalTarget)
	s.AvgOEE = oeeSum / float64(len(records))
	s.Utilization = Utilization(s.TotalRunTime, s.TotalStopTime)
	return s
}

// CalculateMonthlySummary builds one row per calendar date, sorted by date,
// plus a totals row. The totals AvgSpeed is the mean of the daily averages,
// not a per-record mean.
func CalculateMonthlySummary(records []model.ProductionRecord) model.MonthlyReport {
	report := model.MonthlyReport{DailyRows: []model.DailyRow{}}
	if len(records) == 0 {
		return report
	}
	for _, group := range GroupByDate(records) {
		report.DailyRows = append(report.DailyRows, dailyRow(group.Key, group.Records))
	}
	sort.SliceStable(report.DailyRows, func(i, j int) bool {
		return report.DailyRows[i].Date < report.DailyRows[j].Date
	})

	t := &report.Totals
	var speedSum float64
	for _, row := range report.DailyRows {
		t.OrderCount += row.OrderCount
		t.TotalQty += row.TotalQty
		t.GoodQty += row.GoodQty
		t.DefectQty += row.DefectQty
		t.RunTime += row.RunTime
		t.StopTime += row.StopTime
		speedSum += row.AvgSpeed
	}
	t.YieldRate = YieldRate(t.GoodQty, t.DefectQty)
	t.UtilizationRate = Utilization(t.RunTime, t.StopTime)
	t.AvgSpeed = speedSum / float64(len(report.DailyRows))
	return report
}

func dailyRow(date string, records []model.ProductionRecord) model.DailyRow {
	row := model.DailyRow{Date: date, OrderCount: len(records)}
	var speedSum float64
	for _, rec := range records {
		row.GoodQty += rec.GoodQty
		row.DefectQty += rec.DefectQty
		row.RunTime += rec.RunMinutes()
		row.StopTime += rec.StopMinutes()
		speedSum += rec.AvgSpeed
	}
	row.TotalQty = row.GoodQty + row.DefectQty
	row.YieldRate = YieldRate(row.GoodQty, row.DefectQty)
	row.UtilizationRate = Utilization(row.RunTime, row.StopTime)
	if len(records) > 0 {
		row.AvgSpeed = speedSum / float64(len(records))
	}
	return row
}

// DetailRows computes the per-record rates shown in the production details table.
func DetailRows(records []model.ProductionRecord) []model.RecordDetail {
	rows := make([]model.RecordDetail, 0, len(records))
	for _, rec := range records {
		rows = append(rows, model.RecordDetail{
			Record:          rec,
			YieldRate:       YieldRate(rec.GoodQty, rec.DefectQty),
			AchievementRate: AchievementRate(rec.GoodQty, rec.TargetQty),
			RunTime:         rec.RunMinutes(),
			StopTime:        rec.StopMinutes(),
		})
	}
	return rows
}

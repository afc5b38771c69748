package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/boxline/internal/model"
	"github.com/verte-zerg/boxline/internal/report"
)

// WriteDetailsCSV writes the production details table as CSV.
func WriteDetailsCSV(w io.Writer, details []model.RecordDetail) error {
	writer := csv.NewWriter(w)
	header := []string{"order_no", "customer", "product", "box_no", "shift", "operator", "target_qty", "good_qty", "defect_qty",
		"yield_rate", "achievement_rate", "run_time", "stop_time", "stop_count", "avg_speed", "oee", "finished_at"}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, d := range details {
		r := d.Record
		row := []string{
			r.OrderNo,
			r.Customer,
			r.DisplayProduct(),
			r.BoxNo,
			r.Shift,
			r.Operator,
			plain(r.TargetQty, 0),
			plain(r.GoodQty, 0),
			plain(r.DefectQty, 0),
			plain(d.YieldRate, 1),
			plain(d.AchievementRate, 1),
			report.MinutesToHHMM(d.RunTime),
			report.MinutesToHHMM(d.StopTime),
			plain(r.StopCount, 0),
			plain(r.AvgSpeed, 0),
			plain(r.OEE, 1),
			report.FormatDate(r.FinishedAt, "YYYY-MM-DD HH:mm:ss"),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteMonthlyCSV writes the monthly report with a trailing totals row.
func WriteMonthlyCSV(w io.Writer, m model.MonthlyReport) error {
	writer := csv.NewWriter(w)
	header := []string{"date", "orders", "total_qty", "good_qty", "defect_qty", "yield_rate", "avg_speed", "run_time", "stop_time", "utilization_rate"}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, r := range m.DailyRows {
		if err := writer.Write(monthlyRow(r.Date, r.OrderCount, r.TotalQty, r.GoodQty, r.DefectQty, r.YieldRate, r.AvgSpeed, r.RunTime, r.StopTime, r.UtilizationRate)); err != nil {
			return err
		}
	}
	if len(m.DailyRows) > 0 {
		t := m.Totals
		if err := writer.Write(monthlyRow("total", t.OrderCount, t.TotalQty, t.GoodQty, t.DefectQty, t.YieldRate, t.AvgSpeed, t.RunTime, t.StopTime, t.UtilizationRate)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func monthlyRow(label string, orders int, total, good, defect, yield, speed, run, stop, util float64) []string {
	return []string{
		label,
		fmt.Sprintf("%d", orders),
		plain(total, 0),
		plain(good, 0),
		plain(defect, 0),
		plain(yield, 1),
		plain(speed, 0),
		report.MinutesToHHMM(run),
		report.MinutesToHHMM(stop),
		plain(util, 1),
	}
}

// WriteStopReasonsCSV writes one row per reason group, or one row per stop
// occurrence when expand is set.
func WriteStopReasonsCSV(w io.Writer, s model.StopReasonSummary, expand bool) error {
	writer := csv.NewWriter(w)
	var header []string
	if expand {
		header = []string{"reason", "code", "date", "time", "order_no", "customer", "product", "duration"}
	} else {
		header = []string{"reason", "code", "count", "share", "total_duration"}
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, g := range s.Groups {
		if !expand {
			row := []string{g.Reason, g.Code, fmt.Sprintf("%d", g.Count), plain(g.Share(s.TotalCount), 1), report.MinutesToHHMM(g.TotalDuration)}
			if err := writer.Write(row); err != nil {
				return err
			}
			continue
		}
		for _, occ := range g.Records {
			row := []string{g.Reason, g.Code, report.FormatDate(occ.Date, report.DefaultDateFormat), occ.Time, occ.OrderNo, occ.Customer, occ.ProductName, occ.Duration}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// plain formats a number without digit grouping so spreadsheets parse it.
func plain(v float64, decimals int) string {
	return strings.ReplaceAll(report.FormatNumber(v, decimals), ",", "")
}

package report

import (
	"fmt"
	"io"

	"github.com/verte-zerg/boxline/internal/model"
)

// RenderDailySummary prints the summary block of the daily report.
func RenderDailySummary(w io.Writer, s model.DailySummary) error {
	rows := [][]string{
		{"Orders", fmt.Sprintf("%d", s.TotalOrders)},
		{"Target Qty", FormatNumber(s.TotalTarget, 0)},
		{"Good Qty", FormatNumber(s.TotalGood, 0)},
		{"Defect Qty", FormatNumber(s.TotalDefect, 0)},
		{"Yield", FormatPercent(s.AvgYieldRate, 1)},
		{"Achievement", FormatPercent(s.AvgAchievementRate, 1)},
		{"Run Time", MinutesToHHMM(s.TotalRunTime)},
		{"Stop Time", MinutesToHHMM(s.TotalStopTime)},
		{"Stops", FormatNumber(s.TotalStopCount, 0)},
		{"Avg OEE", FormatPercent(s.AvgOEE, 1)},
		{"Utilization", FormatPercent(s.Utilization, 1)},
	}
	return writeSection(w, "Daily Summary", formatTable(nil, rows, map[int]bool{1: true}))
}

// RenderDetails prints the production details table.
func RenderDetails(w io.Writer, details []model.RecordDetail) error {
	if len(details) == 0 {
		_, err := fmt.Fprintln(w, "No production records found.")
		return err
	}
	headers := []string{"Order", "Customer", "Product", "Box", "Shift", "Operator", "Target", "Good", "Defect", "Yield", "Achv", "Run", "Stop", "Stops", "Speed", "OEE", "Finished"}
	rows := make([][]string, 0, len(details))
	for _, d := range details {
		r := d.Record
		rows = append(rows, []string{
			r.OrderNo,
			r.Customer,
			r.DisplayProduct(),
			r.BoxNo,
			r.Shift,
			r.Operator,
			FormatNumber(r.TargetQty, 0),
			FormatNumber(r.GoodQty, 0),
			FormatNumber(r.DefectQty, 0),
			FormatPercent(d.YieldRate, 1),
			FormatPercent(d.AchievementRate, 1),
			MinutesToHHMM(d.RunTime),
			MinutesToHHMM(d.StopTime),
			FormatNumber(r.StopCount, 0),
			FormatNumber(r.AvgSpeed, 0),
			FormatPercent(r.OEE, 1),
			FormatDate(r.FinishedAt, "YYYY-MM-DD HH:mm:ss"),
		})
	}
	right := map[int]bool{6: true, 7: true, 8: true, 9: true, 10: true, 11: true, 12: true, 13: true, 14: true, 15: true}
	return writeSection(w, "Production Details", formatTable(headers, rows, right))
}

// RenderMonthly prints the monthly report with its totals row.
func RenderMonthly(w io.Writer, m model.MonthlyReport) error {
	if len(m.DailyRows) == 0 {
		_, err := fmt.Fprintln(w, "No production records found for this month.")
		return err
	}
	headers := []string{"Date", "Orders", "Total", "Good", "Defect", "Yield", "Avg Speed", "Run", "Stop", "Utilization"}
	rows := make([][]string, 0, len(m.DailyRows)+1)
	for _, r := range m.DailyRows {
		rows = append(rows, monthlyCells(r.Date, r.OrderCount, r.TotalQty, r.GoodQty, r.DefectQty, r.YieldRate, r.AvgSpeed, r.RunTime, r.StopTime, r.UtilizationRate))
	}
	t := m.Totals
	rows = append(rows, monthlyCells("Total", t.OrderCount, t.TotalQty, t.GoodQty, t.DefectQty, t.YieldRate, t.AvgSpeed, t.RunTime, t.StopTime, t.UtilizationRate))
	right := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true, 7: true, 8: true, 9: true}
	return writeSection(w, "Monthly Report", formatTable(headers, rows, right))
}

func monthlyCells(label string, orders int, total, good, defect, yield, speed, run, stop, util float64) []string {
	return []string{
		label,
		fmt.Sprintf("%d", orders),
		FormatNumber(total, 0),
		FormatNumber(good, 0),
		FormatNumber(defect, 0),
		FormatPercent(yield, 1),
		FormatNumber(speed, 1),
		MinutesToHHMM(run),
		MinutesToHHMM(stop),
		FormatPercent(util, 1),
	}
}

// RenderStopReasons prints stop-reason groups, optionally with every occurrence.
func RenderStopReasons(w io.Writer, s model.StopReasonSummary, expand bool) error {
	if len(s.Groups) == 0 {
		_, err := fmt.Fprintln(w, "No stop events found.")
		return err
	}
	header := fmt.Sprintf("Stop Reasons (total stops: %d, total time: %s)", s.TotalCount, MinutesToHHMM(s.TotalDuration))
	headers := []string{"Code", "Reason", "Count", "Share", "Duration"}
	rows := make([][]string, 0, len(s.Groups))
	for _, g := range s.Groups {
		rows = append(rows, []string{
			g.Code,
			g.Reason,
			fmt.Sprintf("%d", g.Count),
			FormatPercent(g.Share(s.TotalCount), 1),
			MinutesToHHMM(g.TotalDuration),
		})
	}
	if err := writeSection(w, header, formatTable(headers, rows, map[int]bool{2: true, 3: true, 4: true})); err != nil {
		return err
	}
	if !expand {
		return nil
	}
	for _, g := range s.Groups {
		occ := make([][]string, 0, len(g.Records))
		for _, o := range g.Records {
			occ = append(occ, []string{
				FormatDate(o.Date, DefaultDateFormat),
				o.Time,
				o.OrderNo,
				o.Customer,
				o.ProductName,
				o.Duration,
			})
		}
		lines := formatTable([]string{"Date", "Time", "Order", "Customer", "Product", "Duration"}, occ, map[int]bool{5: true})
		if err := writeSection(w, fmt.Sprintf("%s (%d)", g.Reason, g.Count), lines); err != nil {
			return err
		}
	}
	return nil
}

func writeSection(w io.Writer, title string, lines []string) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

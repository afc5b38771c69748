package importer

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/verte-zerg/boxline/internal/model"
	"github.com/verte-zerg/boxline/internal/report"
)

func exportRecords() []model.ProductionRecord {
	return []model.ProductionRecord{
		{
			ID: "1", Date: "2024-03-01", OrderNo: "PO-1", Customer: "Acme, Inc.", ProductName: "RSC",
			TargetQty: 1000, GoodQty: 1950, DefectQty: 50, RunTime: model.Minutes(90), StopTime: model.Minutes(30),
			FinishedAt: "2024-03-01T10:30:00",
			StopReasons: []model.StopEvent{
				{Code: "001", Reason: "Feed skew", Time: "08:10:00", Duration: "10:00"},
				{Code: "002", Reason: "Ink low", Time: "09:10:00", Duration: "20:00"},
			},
		},
		{
			ID: "2", Date: "2024-03-02", OrderNo: "PO-2", Product: "Tray",
			TargetQty: 2000, GoodQty: 2000, RunTimeMinutes: model.Minutes(120),
			StopReasons: []model.StopEvent{{Code: "001", Reason: "Feed skew", Time: "13:00:00", Duration: "5:00"}},
		},
	}
}

func readCSV(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	rows, err := csv.NewReader(buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	return rows
}

func TestWriteDetailsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDetailsCSV(&buf, report.DetailRows(exportRecords())); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows := readCSV(t, &buf)
	if len(rows) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(rows))
	}
	first := rows[1]
	if first[1] != "Acme, Inc." || first[7] != "1950" || first[9] != "97.5" || first[10] != "195.0" {
		t.Fatalf("unexpected first row: %v", first)
	}
	if first[11] != "01:30" || first[16] != "2024-03-01 10:30:00" {
		t.Fatalf("unexpected time columns: %v", first)
	}
	if rows[2][2] != "Tray" {
		t.Fatalf("expected legacy product alias, got %q", rows[2][2])
	}
}

func TestWriteMonthlyCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMonthlyCSV(&buf, report.CalculateMonthlySummary(exportRecords())); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows := readCSV(t, &buf)
	if len(rows) != 4 {
		t.Fatalf("expected header, 2 days and totals, got %d", len(rows))
	}
	if rows[3][0] != "total" || rows[3][1] != "2" || rows[3][2] != "4000" {
		t.Fatalf("unexpected totals row: %v", rows[3])
	}

	buf.Reset()
	if err := WriteMonthlyCSV(&buf, model.MonthlyReport{}); err != nil {
		t.Fatalf("write empty: %v", err)
	}
	if rows := readCSV(t, &buf); len(rows) != 1 {
		t.Fatalf("expected header only for empty month, got %d rows", len(rows))
	}
}

func TestWriteStopReasonsCSV(t *testing.T) {
	summary := report.SummarizeStopReasons(exportRecords())

	var buf bytes.Buffer
	if err := WriteStopReasonsCSV(&buf, summary, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows := readCSV(t, &buf)
	if len(rows) != 3 {
		t.Fatalf("expected header and 2 groups, got %d", len(rows))
	}
	if rows[1][0] != "Feed skew" || rows[1][2] != "2" || rows[1][3] != "66.7" || rows[1][4] != "00:15" {
		t.Fatalf("unexpected group row: %v", rows[1])
	}

	buf.Reset()
	if err := WriteStopReasonsCSV(&buf, summary, true); err != nil {
		t.Fatalf("write expanded: %v", err)
	}
	rows = readCSV(t, &buf)
	if len(rows) != 4 {
		t.Fatalf("expected header and 3 occurrences, got %d", len(rows))
	}
	if rows[2][2] != "2024-03-02" || rows[2][4] != "PO-2" || rows[2][6] != "Tray" {
		t.Fatalf("unexpected occurrence row: %v", rows[2])
	}
}

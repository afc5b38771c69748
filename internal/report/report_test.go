package report

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/boxline/internal/model"
	"github.com/verte-zerg/boxline/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "boxline.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	records := append(sampleRecords(), model.ProductionRecord{
		ID: "3", Date: "2024-04-01", Shift: "A", TargetQty: 100, GoodQty: 100, RunTime: model.Minutes(60),
		StopReasons: []model.StopEvent{{Reason: "Plate change", Duration: "15:00"}},
	})
	if _, err := st.SaveRecords(ctx, records); err != nil {
		t.Fatalf("save records: %v", err)
	}

	cfg := model.ReportConfig{
		Filter: model.ReportFilter{StartDate: "2024-03-01", EndDate: "2024-03-31", Shift: "A"},
		Month:  "2024-03",
	}
	rep, err := BuildReport(ctx, st, cfg)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(rep.Records) != 1 || rep.Records[0].ID != "1" {
		t.Fatalf("expected only record 1 after filters, got %+v", rep.Records)
	}
	if rep.Daily.TotalOrders != 1 || len(rep.Details) != 1 {
		t.Fatalf("unexpected daily view: %+v", rep.Daily)
	}
	if len(rep.Monthly.DailyRows) != 2 || rep.Monthly.Totals.OrderCount != 2 {
		t.Fatalf("monthly view should ignore the shift filter: %+v", rep.Monthly)
	}
	// Stops fall back to the filter window, which ignores the shift.
	if rep.Stops.TotalCount != 3 {
		t.Fatalf("expected 3 stop events in March, got %d", rep.Stops.TotalCount)
	}

	cfg.StopStart, cfg.StopEnd = "2024-04-01", "2024-04-30"
	rep, err = BuildReport(ctx, st, cfg)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if rep.Stops.TotalCount != 1 || rep.Stops.Groups[0].Reason != "Plate change" {
		t.Fatalf("expected April stop window, got %+v", rep.Stops)
	}
}

func TestBuildReportInvalidMonth(t *testing.T) {
	if _, err := Compute(nil, model.ReportConfig{Month: "2024-13"}); err == nil {
		t.Fatalf("expected error for invalid month")
	}
}

func TestComputeWithoutMonth(t *testing.T) {
	rep, err := Compute(sampleRecords(), model.ReportConfig{})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if rep.Monthly.DailyRows == nil || len(rep.Monthly.DailyRows) != 0 {
		t.Fatalf("expected empty monthly rows, got %+v", rep.Monthly)
	}
	if len(rep.Records) != 2 || rep.Stops.TotalCount != 3 {
		t.Fatalf("expected unfiltered views, got %d records, %d stops", len(rep.Records), rep.Stops.TotalCount)
	}
}

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/boxline/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "boxline.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestSaveAndListRecords(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	records := []model.ProductionRecord{
		{
			ID: "b", Date: "2024-03-02", OrderNo: "PO-2", Customer: "Globex", ProductName: "Tray", Shift: "B",
			TargetQty: 2000, GoodQty: 1900, DefectQty: 100, RunTimeMinutes: model.Minutes(120),
			StopReasons: []model.StopEvent{
				{Code: "001", Reason: "Feed skew", Time: "13:00:00", Duration: "5:00"},
				{Reason: "Ink low", Duration: "1:30"},
			},
		},
		{
			ID: "a", Date: "2024-03-01", OrderNo: "PO-1", RunTime: model.Minutes(0), StopTime: model.Minutes(30),
		},
	}
	n, err := st.SaveRecords(ctx, records)
	if err != nil {
		t.Fatalf("save records: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 records written, got %d", n)
	}

	got, err := st.ListRecords(ctx)
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Fatalf("expected insertion order, got %s, %s", got[0].ID, got[1].ID)
	}

	first := got[0]
	if first.RunTime != nil || first.RunTimeMinutes == nil || *first.RunTimeMinutes != 120 {
		t.Fatalf("optional run fields not preserved: %+v", first)
	}
	if first.RunMinutes() != 120 {
		t.Fatalf("expected 120 run minutes, got %v", first.RunMinutes())
	}
	if len(first.StopReasons) != 2 || first.StopReasons[0].Reason != "Feed skew" || first.StopReasons[1].Duration != "1:30" {
		t.Fatalf("stop events not preserved: %+v", first.StopReasons)
	}

	second := got[1]
	if second.RunTime == nil || *second.RunTime != 0 {
		t.Fatalf("expected explicit zero run time kept, got %+v", second.RunTime)
	}
	if second.StopMinutes() != 30 || len(second.StopReasons) != 0 {
		t.Fatalf("unexpected second record: %+v", second)
	}
}

func TestSaveRecordsReplacesByID(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	first := model.ProductionRecord{ID: "x", GoodQty: 1, StopReasons: []model.StopEvent{{Reason: "A"}, {Reason: "B"}}}
	if _, err := st.SaveRecords(ctx, []model.ProductionRecord{first}); err != nil {
		t.Fatalf("save: %v", err)
	}
	updated := model.ProductionRecord{ID: "x", GoodQty: 5, StopReasons: []model.StopEvent{{Reason: "C"}}}
	if _, err := st.SaveRecords(ctx, []model.ProductionRecord{updated}); err != nil {
		t.Fatalf("save again: %v", err)
	}

	count, err := st.CountRecords(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}
	got, err := st.ListRecords(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got[0].GoodQty != 5 || len(got[0].StopReasons) != 1 || got[0].StopReasons[0].Reason != "C" {
		t.Fatalf("expected replaced record, got %+v", got[0])
	}
}

func TestDeleteRecord(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, err := st.SaveRecords(ctx, []model.ProductionRecord{
		{ID: "keep"},
		{ID: "drop", StopReasons: []model.StopEvent{{Reason: "Jam"}}},
	}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := st.DeleteRecord(ctx, "drop"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := st.ListRecords(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != "keep" {
		t.Fatalf("unexpected records after delete: %+v", got)
	}
}

func TestListRecordsEmpty(t *testing.T) {
	st := openTestStore(t)
	got, err := st.ListRecords(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no records, got %d", len(got))
	}
}

package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestDecodeRecordsArray(t *testing.T) {
	input := `[
		{"id": 7, "date": "2024-03-01", "orderNo": "PO-1", "targetQty": "1000", "goodQty": 950, "defectQty": "x",
		 "runTime": "90", "stopReasons": [{"code": 1, "reason": "Feed skew", "duration": "1:30"}, null]},
		null,
		{"orderNo": "PO-2", "runTimeMinutes": 45}
	]`
	records, err := DecodeRecords(strings.NewReader(input))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	first := records[0]
	if first.ID != "7" || first.TargetQty != 1000 || first.GoodQty != 950 || first.DefectQty != 0 {
		t.Fatalf("unexpected lenient decode: %+v", first)
	}
	if first.RunMinutes() != 90 || len(first.StopReasons) != 1 || first.StopReasons[0].Code != "1" {
		t.Fatalf("unexpected run time or stop events: %+v", first)
	}
	if _, err := uuid.Parse(records[1].ID); err != nil {
		t.Fatalf("expected generated uuid, got %q", records[1].ID)
	}
	if records[1].RunMinutes() != 45 {
		t.Fatalf("expected legacy run minutes, got %v", records[1].RunMinutes())
	}
}

func TestDecodeRecordsWrapped(t *testing.T) {
	input := `{"productionHistory": [{"id": "a", "shift": "B"}], "other": 1}`
	records, err := DecodeRecords(strings.NewReader(input))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 1 || records[0].ID != "a" || records[0].Shift != "B" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestDecodeRecordsErrors(t *testing.T) {
	cases := map[string]string{
		"empty":       "  ",
		"no history":  `{"records": []}`,
		"not array":   `"hello"`,
		"bad element": `[1, 2]`,
		"malformed":   `[{"id": }]`,
	}
	for name, input := range cases {
		if _, err := DecodeRecords(strings.NewReader(input)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte(`[{"id": "x", "goodQty": "12"}]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	records, err := LoadRecords(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 1 || records[0].GoodQty != 12 {
		t.Fatalf("unexpected records: %+v", records)
	}
	if _, err := LoadRecords(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

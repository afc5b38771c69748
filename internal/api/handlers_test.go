package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/boxline/internal/charting"
	"github.com/verte-zerg/boxline/internal/model"
	"github.com/verte-zerg/boxline/internal/store"
)

func newTestServer(t *testing.T) (http.Handler, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "boxline.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	records := []model.ProductionRecord{
		{
			ID: "1", Date: "2024-03-01", OrderNo: "PO-1", Shift: "A", TargetQty: 1000, GoodQty: 950, DefectQty: 50,
			RunTime: model.Minutes(90), StopTime: model.Minutes(30),
			StopReasons: []model.StopEvent{{Code: "001", Reason: "Feed skew", Duration: "10:00"}},
		},
		{
			ID: "2", Date: "2024-03-02", OrderNo: "PO-2", Shift: "B", TargetQty: 2000, GoodQty: 2000,
			RunTimeMinutes: model.Minutes(120),
			StopReasons: []model.StopEvent{{Reason: "Feed skew", Duration: "5:00"}, {Reason: "Ink low", Duration: "1:00"}},
		},
	}
	if _, err := st.SaveRecords(context.Background(), records); err != nil {
		t.Fatalf("save records: %v", err)
	}

	now := func() time.Time { return time.Date(2024, 3, 2, 12, 0, 0, 0, time.Local) }
	h := NewHandler(st, charting.NewGenerator(), Options{Now: now})
	var logs bytes.Buffer
	srv := NewServer(h, ServerConfig{Logger: log.New(&logs, "", 0)})
	return srv.Handler, st
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

func TestHealthCheck(t *testing.T) {
	h, _ := newTestServer(t)
	rec := doRequest(t, h, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Status  string `json:"status"`
		Records int    `json:"records"`
	}
	decodeBody(t, rec, &body)
	if body.Status != "healthy" || body.Records != 2 {
		t.Fatalf("unexpected health body: %+v", body)
	}
}

func TestDailySummary(t *testing.T) {
	h, _ := newTestServer(t)
	rec := doRequest(t, h, http.MethodGet, "/api/reports/daily?start=2024-03-01&end=2024-03-02&shift=A", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Summary model.DailySummary `json:"summary"`
	}
	decodeBody(t, rec, &body)
	if body.Summary.TotalOrders != 1 || body.Summary.TotalGood != 950 || body.Summary.Utilization != 75 {
		t.Fatalf("unexpected summary: %+v", body.Summary)
	}

	rec = doRequest(t, h, http.MethodGet, "/api/reports/daily", "")
	decodeBody(t, rec, &body)
	if body.Summary.TotalOrders != 1 || body.Summary.TotalGood != 2000 {
		t.Fatalf("expected today's record only, got %+v", body.Summary)
	}
}

func TestDailySummaryBadDate(t *testing.T) {
	h, _ := newTestServer(t)
	rec := doRequest(t, h, http.MethodGet, "/api/reports/daily?start=yesterday", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if !strings.Contains(body["error"], "yesterday") {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestDetails(t *testing.T) {
	h, _ := newTestServer(t)
	rec := doRequest(t, h, http.MethodGet, "/api/reports/details?start=2024-03-01&end=2024-03-31", "")
	var body struct {
		Details []model.RecordDetail `json:"details"`
	}
	decodeBody(t, rec, &body)
	if len(body.Details) != 2 || body.Details[1].AchievementRate != 100 {
		t.Fatalf("unexpected details: %+v", body.Details)
	}
}

func TestMonthly(t *testing.T) {
	h, _ := newTestServer(t)
	rec := doRequest(t, h, http.MethodGet, "/api/reports/monthly?month=2024-03", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Month  string              `json:"month"`
		Report model.MonthlyReport `json:"report"`
	}
	decodeBody(t, rec, &body)
	if body.Month != "2024-03" || len(body.Report.DailyRows) != 2 || body.Report.Totals.OrderCount != 2 {
		t.Fatalf("unexpected monthly body: %+v", body)
	}

	rec = doRequest(t, h, http.MethodGet, "/api/reports/monthly?month=2024-3x", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed month, got %d", rec.Code)
	}
}

func TestMonthlyChart(t *testing.T) {
	h, _ := newTestServer(t)
	rec := doRequest(t, h, http.MethodGet, "/api/reports/monthly/chart.png?month=2024-03", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("unexpected content type %q", ct)
	}

	rec = doRequest(t, h, http.MethodGet, "/api/reports/monthly/chart.png?month=2023-01", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for empty month, got %d", rec.Code)
	}
}

func TestStopReasons(t *testing.T) {
	h, _ := newTestServer(t)
	rec := doRequest(t, h, http.MethodGet, "/api/reports/stops", "")
	var body struct {
		StartDate string                  `json:"startDate"`
		Summary   model.StopReasonSummary `json:"summary"`
	}
	decodeBody(t, rec, &body)
	if body.StartDate != "2024-02-24" {
		t.Fatalf("expected trailing 7-day window, got %q", body.StartDate)
	}
	if body.Summary.TotalCount != 3 || body.Summary.Groups[0].Reason != "Feed skew" || body.Summary.Groups[0].Count != 2 {
		t.Fatalf("unexpected stop summary: %+v", body.Summary)
	}

	rec = doRequest(t, h, http.MethodGet, "/api/reports/stops/stats?start=2024-03-02&end=2024-03-02", "")
	var stats struct {
		Stats []model.StopReasonStat `json:"stats"`
	}
	decodeBody(t, rec, &stats)
	if len(stats.Stats) != 2 || stats.Stats[0].Reason != "Feed skew" || stats.Stats[0].CountPercent != 50 {
		t.Fatalf("unexpected stats: %+v", stats.Stats)
	}
}

func TestCreateAndDeleteRecords(t *testing.T) {
	h, st := newTestServer(t)
	rec := doRequest(t, h, http.MethodPost, "/api/records", `[{"orderNo": "PO-3", "goodQty": "10"}]`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Saved int      `json:"saved"`
		IDs   []string `json:"ids"`
	}
	decodeBody(t, rec, &created)
	if created.Saved != 1 || len(created.IDs) != 1 || created.IDs[0] == "" {
		t.Fatalf("unexpected create body: %+v", created)
	}

	rec = doRequest(t, h, http.MethodGet, "/api/records", "")
	var records []model.ProductionRecord
	decodeBody(t, rec, &records)
	if len(records) != 3 || records[2].GoodQty != 10 {
		t.Fatalf("unexpected records: %+v", records)
	}

	rec = doRequest(t, h, http.MethodDelete, "/api/records/"+created.IDs[0], "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if n, err := st.CountRecords(context.Background()); err != nil || n != 2 {
		t.Fatalf("expected 2 records after delete, got %d (%v)", n, err)
	}

	rec = doRequest(t, h, http.MethodPost, "/api/records", `{"oops": true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/reports/daily", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Fatalf("expected CORS header on preflight")
	}
}

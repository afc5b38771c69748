package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/verte-zerg/boxline/internal/charting"
	"github.com/verte-zerg/boxline/internal/importer"
	"github.com/verte-zerg/boxline/internal/model"
	"github.com/verte-zerg/boxline/internal/report"
)

// RecordStore is the persistence the handlers read from and write to.
type RecordStore interface {
	ListRecords(ctx context.Context) ([]model.ProductionRecord, error)
	SaveRecords(ctx context.Context, records []model.ProductionRecord) (int, error)
	CountRecords(ctx context.Context) (int, error)
	DeleteRecord(ctx context.Context, id string) error
}

// Options holds report defaults applied when a query omits them.
type Options struct {
	Shift          string
	StopWindowDays int
	Now            func() time.Time
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	store  RecordStore
	charts *charting.Generator
	opts   Options
}

// NewHandler creates a new handler instance.
func NewHandler(store RecordStore, charts *charting.Generator, opts Options) *Handler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.StopWindowDays <= 0 {
		opts.StopWindowDays = report.DefaultStopWindowDays
	}
	return &Handler{store: store, charts: charts, opts: opts}
}

// HealthCheck reports whether the store is reachable.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.CountRecords(r.Context())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "database health check failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"records": count,
	})
}

// GetDailySummary returns the summary of the filtered records.
func (h *Handler) GetDailySummary(w http.ResponseWriter, r *http.Request) {
	records, filter, ok := h.filtered(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"filter":  filter,
		"summary": report.CalculateDailySummary(records),
	})
}

// GetDetails returns the production details rows of the filtered records.
func (h *Handler) GetDetails(w http.ResponseWriter, r *http.Request) {
	records, filter, ok := h.filtered(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"filter":  filter,
		"details": report.DetailRows(records),
	})
}

// GetMonthly returns the monthly report for ?month=YYYY-MM.
func (h *Handler) GetMonthly(w http.ResponseWriter, r *http.Request) {
	month, monthly, ok := h.monthly(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"month":  month,
		"report": monthly,
	})
}

// GetMonthlyChart renders the monthly trend as a PNG image.
func (h *Handler) GetMonthlyChart(w http.ResponseWriter, r *http.Request) {
	_, monthly, ok := h.monthly(w, r)
	if !ok {
		return
	}
	img, err := h.charts.MonthlyTrend(monthly)
	if errors.Is(err, charting.ErrNotEnoughData) {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("chart rendering failed: %v", err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img); err != nil {
		// Client went away; nothing else to report.
		_ = err
	}
}

// GetStopReasons returns stop-reason groups for the stop window.
func (h *Handler) GetStopReasons(w http.ResponseWriter, r *http.Request) {
	records, start, end, ok := h.stopWindow(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"startDate": start,
		"endDate":   end,
		"summary":   report.SummarizeStopReasons(records),
	})
}

// GetStopReasonStats returns per-reason count and time shares.
func (h *Handler) GetStopReasonStats(w http.ResponseWriter, r *http.Request) {
	records, start, end, ok := h.stopWindow(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"startDate": start,
		"endDate":   end,
		"stats":     report.AnalyzeStopReasons(records),
	})
}

// ListRecords returns the stored production log.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListRecords(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list records: %v", err))
		return
	}
	if records == nil {
		records = []model.ProductionRecord{}
	}
	respondJSON(w, http.StatusOK, records)
}

// CreateRecords stores records posted as a JSON array.
func (h *Handler) CreateRecords(w http.ResponseWriter, r *http.Request) {
	records, err := importer.DecodeRecords(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	n, err := h.store.SaveRecords(r.Context(), records)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to save records: %v", err))
		return
	}
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"saved": n,
		"ids":   ids,
	})
}

// DeleteRecord removes a record by id.
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.store.DeleteRecord(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to delete record: %v", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// filtered applies ?start, ?end and ?shift. Missing dates default to today.
func (h *Handler) filtered(w http.ResponseWriter, r *http.Request) ([]model.ProductionRecord, model.ReportFilter, bool) {
	q := r.URL.Query()
	today := report.Today(h.opts.Now())
	filter := model.ReportFilter{
		StartDate: valueOr(q.Get("start"), today),
		EndDate:   valueOr(q.Get("end"), today),
		Shift:     valueOr(q.Get("shift"), valueOr(h.opts.Shift, model.AllShifts)),
	}
	if !validDates(w, filter.StartDate, filter.EndDate) {
		return nil, filter, false
	}
	all, ok := h.load(w, r)
	if !ok {
		return nil, filter, false
	}
	return report.FilterRecords(all, filter), filter, true
}

func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) (string, model.MonthlyReport, bool) {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = h.opts.Now().Format("2006-01")
	}
	year, m, err := report.ParseMonth(month)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return month, model.MonthlyReport{}, false
	}
	all, ok := h.load(w, r)
	if !ok {
		return month, model.MonthlyReport{}, false
	}
	start, end := report.MonthRange(year, m)
	return month, report.CalculateMonthlySummary(report.FilterByDateRange(all, start, end)), true
}

// stopWindow applies ?start and ?end, defaulting to the trailing window.
func (h *Handler) stopWindow(w http.ResponseWriter, r *http.Request) ([]model.ProductionRecord, string, string, bool) {
	q := r.URL.Query()
	start, end := report.TrailingRange(h.opts.Now(), h.opts.StopWindowDays)
	start = valueOr(q.Get("start"), start)
	end = valueOr(q.Get("end"), end)
	if !validDates(w, start, end) {
		return nil, start, end, false
	}
	all, ok := h.load(w, r)
	if !ok {
		return nil, start, end, false
	}
	return report.FilterByDateRange(all, start, end), start, end, true
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) ([]model.ProductionRecord, bool) {
	all, err := h.store.ListRecords(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load records: %v", err))
		return nil, false
	}
	return all, true
}

func validDates(w http.ResponseWriter, dates ...string) bool {
	for _, d := range dates {
		if _, ok := report.ParseTimestamp(d); !ok {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid date %q", d))
			return false
		}
	}
	return true
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent.
		_ = err
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

package report

import (
	"context"

	"github.com/verte-zerg/boxline/internal/model"
)

// RecordSource supplies the production log a report is computed from.
type RecordSource interface {
	ListRecords(ctx context.Context) ([]model.ProductionRecord, error)
}

// Report contains precomputed data for every report view.
type Report struct {
	Config  model.ReportConfig
	Records []model.ProductionRecord
	Details []model.RecordDetail
	Daily   model.DailySummary
	Monthly model.MonthlyReport
	Stops   model.StopReasonSummary
}

// BuildReport loads the production log and computes every view.
func BuildReport(ctx context.Context, src RecordSource, cfg model.ReportConfig) (Report, error) {
	all, err := src.ListRecords(ctx)
	if err != nil {
		return Report{}, err
	}
	return Compute(all, cfg)
}

// Compute builds a report from an in-memory record collection.
func Compute(all []model.ProductionRecord, cfg model.ReportConfig) (Report, error) {
	filtered := FilterRecords(all, cfg.Filter)

	monthly := model.MonthlyReport{DailyRows: []model.DailyRow{}}
	if cfg.Month != "" {
		year, month, err := ParseMonth(cfg.Month)
		if err != nil {
			return Report{}, err
		}
		start, end := MonthRange(year, month)
		monthly = CalculateMonthlySummary(FilterByDateRange(all, start, end))
	}

	stopStart, stopEnd := cfg.StopStart, cfg.StopEnd
	if stopStart == "" || stopEnd == "" {
		stopStart, stopEnd = cfg.Filter.StartDate, cfg.Filter.EndDate
	}

	return Report{
		Config:  cfg,
		Records: filtered,
		Details: DetailRows(filtered),
		Daily:   CalculateDailySummary(filtered),
		Monthly: monthly,
		Stops:   SummarizeStopReasons(FilterByDateRange(all, stopStart, stopEnd)),
	}, nil
}

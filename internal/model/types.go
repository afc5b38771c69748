// Package model defines shared data structures.
package model

// AllShifts is the shift filter value that disables shift filtering.
const AllShifts = "all"

// Unclassified labels stop events recorded without a reason.
const Unclassified = "unclassified"

// ProductionRecord is one logged production order outcome.
type ProductionRecord struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	OrderNo     string `json:"orderNo"`
	Customer    string `json:"customer"`
	ProductName string `json:"productName"`
	Product     string `json:"product,omitempty"`
	BoxNo       string `json:"boxNo"`
	Shift       string `json:"shift"`
	Operator    string `json:"operator"`

	TargetQty float64 `json:"targetQty"`
	GoodQty   float64 `json:"goodQty"`
	DefectQty float64 `json:"defectQty"`

	// Run and stop times in minutes. Older exports use the *Minutes naming.
	RunTime         *float64 `json:"runTime,omitempty"`
	RunTimeMinutes  *float64 `json:"runTimeMinutes,omitempty"`
	StopTime        *float64 `json:"stopTime,omitempty"`
	StopTimeMinutes *float64 `json:"stopTimeMinutes,omitempty"`

	StopCount float64 `json:"stopCount"`
	AvgSpeed  float64 `json:"avgSpeed"`
	OEE       float64 `json:"oee"`
	PrepTime  float64 `json:"prepTime"`

	FinishedAt  string      `json:"finishedAt"`
	StopReasons []StopEvent `json:"stopReasons"`
}

// RunMinutes returns RunTime when present, otherwise RunTimeMinutes.
func (r ProductionRecord) RunMinutes() float64 {
	return firstPresent(r.RunTime, r.RunTimeMinutes)
}

// StopMinutes returns StopTime when present, otherwise StopTimeMinutes.
func (r ProductionRecord) StopMinutes() float64 {
	return firstPresent(r.StopTime, r.StopTimeMinutes)
}

// DisplayProduct returns the product name, falling back to the legacy field.
func (r ProductionRecord) DisplayProduct() string {
	if r.ProductName != "" {
		return r.ProductName
	}
	return r.Product
}

// EffectiveDate returns Date, or StartTime when Date is empty.
func (r ProductionRecord) EffectiveDate() string {
	if r.Date != "" {
		return r.Date
	}
	return r.StartTime
}

func firstPresent(values ...*float64) float64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}

// StopEvent is a single stoppage logged against a record.
type StopEvent struct {
	Code     string `json:"code"`
	Reason   string `json:"reason"`
	Time     string `json:"time"`
	Duration string `json:"duration"`
}

// Minutes returns a pointer to v, for optional minute fields.
func Minutes(v float64) *float64 {
	return &v
}

// DailySummary aggregates a filtered record set.
type DailySummary struct {
	TotalOrders        int     `json:"totalOrders"`
	TotalTarget        float64 `json:"totalTarget"`
	TotalGood          float64 `json:"totalGood"`
	TotalDefect        float64 `json:"totalDefect"`
	AvgYieldRate       float64 `json:"avgYieldRate"`
	AvgAchievementRate float64 `json:"avgAchievementRate"`
	TotalRunTime       float64 `json:"totalRunTime"`
	TotalStopTime      float64 `json:"totalStopTime"`
	TotalStopCount     float64 `json:"totalStopCount"`
	AvgOEE             float64 `json:"avgOEE"`
	Utilization        float64 `json:"utilization"`
}

// DailyRow is one calendar date in a monthly report.
type DailyRow struct {
	Date            string  `json:"date"`
	OrderCount      int     `json:"orderCount"`
	TotalQty        float64 `json:"totalQty"`
	GoodQty         float64 `json:"goodQty"`
	DefectQty       float64 `json:"defectQty"`
	YieldRate       float64 `json:"yieldRate"`
	AvgSpeed        float64 `json:"avgSpeed"`
	RunTime         float64 `json:"runTime"`
	StopTime        float64 `json:"stopTime"`
	UtilizationRate float64 `json:"utilizationRate"`
}

// MonthlyTotals is the totals row of a monthly report.
type MonthlyTotals struct {
	OrderCount      int     `json:"orderCount"`
	TotalQty        float64 `json:"totalQty"`
	GoodQty         float64 `json:"goodQty"`
	DefectQty       float64 `json:"defectQty"`
	YieldRate       float64 `json:"yieldRate"`
	AvgSpeed        float64 `json:"avgSpeed"`
	RunTime         float64 `json:"runTime"`
	StopTime        float64 `json:"stopTime"`
	UtilizationRate float64 `json:"utilizationRate"`
}

// MonthlyReport holds per-day rows and month totals.
type MonthlyReport struct {
	DailyRows []DailyRow    `json:"dailyRows"`
	Totals    MonthlyTotals `json:"totals"`
}

// StopOccurrence is one stop event with its parent record context.
type StopOccurrence struct {
	OrderID     string `json:"orderId"`
	OrderNo     string `json:"orderNo"`
	Customer    string `json:"customer"`
	ProductName string `json:"productName"`
	Time        string `json:"time"`
	Duration    string `json:"duration"`
	Date        string `json:"date"`
}

// StopReasonGroup aggregates stop events sharing a reason.
type StopReasonGroup struct {
	Reason        string           `json:"reason"`
	Code          string           `json:"code"`
	Count         int              `json:"count"`
	TotalDuration float64          `json:"totalDuration"`
	Records       []StopOccurrence `json:"records"`
}

// Share returns the group's percentage of totalCount stop events.
func (g StopReasonGroup) Share(totalCount int) float64 {
	if totalCount <= 0 {
		return 0
	}
	return float64(g.Count) / float64(totalCount) * 100
}

// StopReasonSummary is the stop-reason view with grand totals.
type StopReasonSummary struct {
	Groups        []StopReasonGroup `json:"groups"`
	TotalCount    int               `json:"totalCount"`
	TotalDuration float64           `json:"totalDuration"`
}

// StopReasonStat is a per-reason statistic with shares of the totals.
type StopReasonStat struct {
	Reason       string  `json:"reason"`
	Count        int     `json:"count"`
	CountPercent float64 `json:"countPercent"`
	TotalMinutes float64 `json:"totalMinutes"`
	TimePercent  float64 `json:"timePercent"`
	AvgMinutes   float64 `json:"avgMinutes"`
}

// RecordDetail is a production-details table row.
type RecordDetail struct {
	Record          ProductionRecord `json:"record"`
	YieldRate       float64          `json:"yieldRate"`
	AchievementRate float64          `json:"achievementRate"`
	RunTime         float64          `json:"runTime"`
	StopTime        float64          `json:"stopTime"`
}

// ReportFilter holds the parameters threaded through every report.
type ReportFilter struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Shift     string `json:"shift"`
}

// ReportConfig selects the data shown by every report view.
type ReportConfig struct {
	Filter ReportFilter
	// Month selects the monthly report as YYYY-MM.
	Month string
	// StopStart and StopEnd bound the stop-reason view; empty falls back to Filter.
	StopStart string
	StopEnd   string
}

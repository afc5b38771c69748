package reportui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/boxline/internal/model"
)

type fakeSource struct {
	records []model.ProductionRecord
	err     error
}

func (f fakeSource) ListRecords(context.Context) ([]model.ProductionRecord, error) {
	return f.records, f.err
}

func testRecords() []model.ProductionRecord {
	return []model.ProductionRecord{
		{
			ID: "1", Date: "2024-03-01", OrderNo: "PO-1", Customer: "Acme", Shift: "A",
			TargetQty: 1000, GoodQty: 950, DefectQty: 50, RunTime: model.Minutes(90), StopTime: model.Minutes(30),
			StopReasons: []model.StopEvent{{Reason: "Feed skew", Duration: "10:00"}},
		},
		{
			ID: "2", Date: "2024-03-02", OrderNo: "PO-2", Customer: "Globex", Shift: "B",
			TargetQty: 2000, GoodQty: 2000, RunTimeMinutes: model.Minutes(120),
			StopReasons: []model.StopEvent{{Reason: "Feed skew", Duration: "5:00"}},
		},
	}
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	m := NewModel(fakeSource{records: testRecords()}, model.ReportConfig{
		Filter: model.ReportFilter{StartDate: "2024-03-01", EndDate: "2024-03-31", Shift: "A"},
		Month:  "2024-03",
	})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func TestRenderFooterFormats(t *testing.T) {
	m := &Model{tabs: []string{"Daily", "Details", "Monthly", "Stop Reasons"}, errMsg: "boom"}
	out := m.renderFooter()
	if !containsAll(out, []string{"Nav: left/right", "Month: [/]", "Filters: /", "boom"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}

	m.activeTab = tabStops
	m.errMsg = ""
	if out := m.renderFooter(); !strings.Contains(out, "Expand: e") {
		t.Fatalf("stops footer missing expand toggle: %s", out)
	}
	m.expandStops = true
	if out := m.renderFooter(); !strings.Contains(out, "Collapse: e") {
		t.Fatalf("stops footer missing collapse toggle: %s", out)
	}
}

func TestRenderFilterSummary(t *testing.T) {
	m := &Model{cfg: model.ReportConfig{
		Filter: model.ReportFilter{StartDate: "2024-03-01", EndDate: "2024-03-07"},
		Month:  "2024-03",
	}}
	out := m.renderFilterSummary()
	if !containsAll(out, []string{"dates=2024-03-01..2024-03-07", "shift=all", "month=2024-03", "stops=2024-03-01..2024-03-07"}) {
		t.Fatalf("unexpected filter summary: %s", out)
	}
}

func TestNewModelBuildsViews(t *testing.T) {
	m := newTestModel(t)
	if m.errMsg != "" {
		t.Fatalf("unexpected error: %s", m.errMsg)
	}
	if m.report.Daily.TotalOrders != 1 {
		t.Fatalf("expected shift filter applied, got %d orders", m.report.Daily.TotalOrders)
	}
	if !strings.Contains(m.viewports[tabDaily].View(), "950") {
		t.Fatalf("daily view missing good qty:\n%s", m.viewports[tabDaily].View())
	}
	view := m.View()
	if lines := strings.Count(view, "\n") + 1; lines != 30 {
		t.Fatalf("expected view to fill 30 lines, got %d", lines)
	}
}

func TestUpdateTabsAndExpand(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.activeTab != tabStops {
		t.Fatalf("expected wrap to stops tab, got %d", m.activeTab)
	}
	if strings.Contains(m.viewports[tabStops].View(), "PO-2") {
		t.Fatalf("collapsed stops should not list orders")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if !m.expandStops || !strings.Contains(m.viewports[tabStops].View(), "PO-2") {
		t.Fatalf("expected expanded stop occurrences:\n%s", m.viewports[tabStops].View())
	}
}

func TestShiftMonth(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("[")})
	if m.cfg.Month != "2024-02" {
		t.Fatalf("expected previous month, got %s", m.cfg.Month)
	}
	if len(m.report.Monthly.DailyRows) != 0 {
		t.Fatalf("expected empty February report")
	}
	m.shiftMonth(11)
	if m.cfg.Month != "2025-01" {
		t.Fatalf("expected year rollover, got %s", m.cfg.Month)
	}
}

func TestApplyFilterValidation(t *testing.T) {
	m := newTestModel(t)
	m.startFilter()

	m.filterInputs[inputStart].SetValue("2024-03-01")
	m.filterInputs[inputEnd].SetValue("")
	if err := m.applyFilter(); err == nil {
		t.Fatalf("expected error for half-open range")
	}

	m.filterInputs[inputEnd].SetValue("03/05/2024")
	if err := m.applyFilter(); err == nil {
		t.Fatalf("expected error for bad date")
	}

	m.filterInputs[inputEnd].SetValue("2024-03-05")
	m.filterInputs[inputMonth].SetValue("March")
	if err := m.applyFilter(); err == nil {
		t.Fatalf("expected error for bad month")
	}

	m.filterInputs[inputMonth].SetValue("2024-03")
	m.filterInputs[inputShift].SetValue("")
	if err := m.applyFilter(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.cfg.Filter.EndDate != "2024-03-05" || m.cfg.Filter.Shift != "" {
		t.Fatalf("unexpected config: %+v", m.cfg)
	}
}

func TestRefreshReportError(t *testing.T) {
	m := NewModel(fakeSource{err: errors.New("db locked")}, model.ReportConfig{})
	if m.errMsg != "db locked" {
		t.Fatalf("expected load error, got %q", m.errMsg)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

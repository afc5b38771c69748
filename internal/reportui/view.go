package reportui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/boxline/internal/model"
	"github.com/verte-zerg/boxline/internal/report"
)

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	f := m.cfg.Filter
	dates := "all"
	if f.StartDate != "" && f.EndDate != "" {
		dates = f.StartDate + ".." + f.EndDate
	}
	shift := f.Shift
	if shift == "" {
		shift = model.AllShifts
	}
	month := m.cfg.Month
	if month == "" {
		month = "-"
	}
	stops := dates
	if m.cfg.StopStart != "" && m.cfg.StopEnd != "" {
		stops = m.cfg.StopStart + ".." + m.cfg.StopEnd
	}
	summary := fmt.Sprintf("Filters: dates=%s  shift=%s  month=%s  stops=%s", dates, shift, month, stops)
	summary = truncateLine(summary, m.width)
	return headerStyle.Render(summary)
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Month: [/]  Filters: /  Quit: q"
	if m.activeTab == tabStops {
		toggle := "Expand"
		if m.expandStops {
			toggle = "Collapse"
		}
		help = fmt.Sprintf("Nav: left/right  Scroll: up/down/pgup/pgdn  %s: e  Filters: /  Quit: q", toggle)
	}
	return headerStyle.Render(help)
}

func (m *Model) renderFilterHelp() string {
	return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel  quit: ctrl+c")
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return m.renderFilterHelp()
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Filters (enter to apply, esc to cancel, empty clears)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabDetails {
		if len(m.report.Details) == 0 {
			return fitLines("No production records found.", m.width, height)
		}
		view := tableMutedStyle.Render(m.detailTable.View())
		return fitLines(view, m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func renderDaily(s model.DailySummary, width int) string {
	if s.TotalOrders == 0 {
		return "No production records found."
	}
	cards := []string{
		metricCard("Orders", fmt.Sprintf("%d", s.TotalOrders)),
		metricCard("Target Qty", report.FormatNumber(s.TotalTarget, 0)),
		metricCard("Good Qty", report.FormatNumber(s.TotalGood, 0)),
		metricCard("Defect Qty", report.FormatNumber(s.TotalDefect, 0)),
		metricCard("Yield", report.FormatPercent(s.AvgYieldRate, 1)),
		metricCard("Achievement", report.FormatPercent(s.AvgAchievementRate, 1)),
		metricCard("Run Time", report.MinutesToHHMM(s.TotalRunTime)),
		metricCard("Stop Time", report.MinutesToHHMM(s.TotalStopTime)),
		metricCard("Stops", report.FormatNumber(s.TotalStopCount, 0)),
		metricCard("Avg OEE", report.FormatPercent(s.AvgOEE, 1)),
		metricCard("Utilization", report.FormatPercent(s.Utilization, 1)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	perRow := 4
	rows := make([]string, 0, (len(cards)+perRow-1)/perRow)
	for i := 0; i < len(cards); i += perRow {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:minInt(i+perRow, len(cards))]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderMonthly(monthly model.MonthlyReport, width int) string {
	var buf bytes.Buffer
	if err := report.RenderMonthly(&buf, monthly); err != nil {
		return fmt.Sprintf("Failed to render monthly report: %v", err)
	}
	if len(monthly.DailyRows) > 1 {
		buf.WriteString("\n")
		if err := report.PlotTrend(&buf, "Daily Trend", report.MonthlyTrendSeries(monthly), report.PlotWidthFor(width), plotHeight, true); err != nil {
			return fmt.Sprintf("Failed to render trend: %v", err)
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderStops(summary model.StopReasonSummary, expand bool) string {
	var buf bytes.Buffer
	if err := report.RenderStopReasons(&buf, summary, expand); err != nil {
		return fmt.Sprintf("Failed to render stop reasons: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func detailColumns() []table.Column {
	return []table.Column{
		{Title: "Order", Width: 10},
		{Title: "Customer", Width: 12},
		{Title: "Product", Width: 12},
		{Title: "Shift", Width: 5},
		{Title: "Target", Width: 8},
		{Title: "Good", Width: 8},
		{Title: "Defect", Width: 7},
		{Title: "Yield", Width: 7},
		{Title: "Achv", Width: 7},
		{Title: "Run", Width: 6},
		{Title: "Stop", Width: 6},
		{Title: "OEE", Width: 6},
	}
}

func detailRows(details []model.RecordDetail) []table.Row {
	rows := make([]table.Row, 0, len(details))
	for _, d := range details {
		r := d.Record
		rows = append(rows, table.Row{
			r.OrderNo,
			r.Customer,
			r.DisplayProduct(),
			r.Shift,
			report.FormatNumber(r.TargetQty, 0),
			report.FormatNumber(r.GoodQty, 0),
			report.FormatNumber(r.DefectQty, 0),
			report.FormatPercent(d.YieldRate, 1),
			report.FormatPercent(d.AchievementRate, 1),
			report.MinutesToHHMM(d.RunTime),
			report.MinutesToHHMM(d.StopTime),
			report.FormatPercent(r.OEE, 1),
		})
	}
	return rows
}

func buildDetailTable(details []model.RecordDetail, width, height int) table.Model {
	t := table.New(
		table.WithColumns(detailColumns()),
		table.WithRows(detailRows(details)),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(detailTableStyles())
	return t
}

func (m *Model) applyDetailTable(width, height int) {
	rows := detailRows(m.report.Details)
	m.detailTable.SetRows(rows)
	m.detailTable.GotoTop()
	m.detailLayout.rowCount = len(rows)
	// Force a resize so the height correction sees the new rows.
	m.detailLayout.width = 0
	m.setDetailTableSize(width, height)
}

func (m *Model) setDetailTableSize(width, height int) {
	viewportHeight := maxInt(1, height-1)
	if m.detailLayout.width == width && m.detailLayout.height == viewportHeight {
		return
	}
	m.detailLayout.width = width
	m.detailLayout.height = viewportHeight
	m.detailTable.SetWidth(width)
	m.detailTable.SetHeight(viewportHeight)
	viewportHeight = m.adjustDetailTableHeight(height)
	if m.detailLayout.height != viewportHeight {
		m.detailLayout.height = viewportHeight
		m.detailTable.SetHeight(viewportHeight)
	}
}

func (m *Model) adjustDetailTableHeight(bodyHeight int) int {
	target := maxInt(1, bodyHeight)
	height := m.detailTable.Height()
	viewHeight := lipgloss.Height(m.detailTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	return height
}

func detailTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

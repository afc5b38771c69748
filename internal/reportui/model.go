// Package reportui provides the Bubble Tea production report dashboard.
package reportui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/boxline/internal/model"
	"github.com/verte-zerg/boxline/internal/report"
)

const (
	tabDaily = iota
	tabDetails
	tabMonthly
	tabStops
)

const (
	inputStart = iota
	inputEnd
	inputShift
	inputMonth
	inputStopStart
	inputStopEnd
)

const plotHeight = 8

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#3A8FC8"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea report dashboard.
type Model struct {
	source report.RecordSource
	cfg    model.ReportConfig

	report report.Report
	errMsg string

	tabs         []string
	activeTab    int
	viewports    []viewport.Model
	detailTable  table.Model
	detailLayout tableLayout

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string

	expandStops bool
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
}

// NewModel constructs a dashboard model over the given record source.
func NewModel(src report.RecordSource, cfg model.ReportConfig) *Model {
	m := &Model{
		source: src,
		cfg:    cfg,
		tabs:   []string{"Daily", "Details", "Monthly", "Stop Reasons"},
	}
	m.initInputs()
	m.detailTable = buildDetailTable(nil, 0, 1)
	m.initViewports()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if m.activeTab == tabDetails {
			m.detailTable.Focus()
		} else {
			m.detailTable.Blur()
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "[":
			m.shiftMonth(-1)
			return m, nil
		case "]":
			m.shiftMonth(1)
			return m, nil
		case "e":
			if m.activeTab == tabStops {
				m.expandStops = !m.expandStops
				m.renderTabContents()
			}
			return m, nil
		case "/":
			return m.startFilter()
		case "g", "home":
			if m.activeTab == tabDetails {
				m.detailTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabDetails {
				m.detailTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabDetails {
				var cmd tea.Cmd
				m.detailTable, cmd = m.detailTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Start (YYYY-MM-DD): "),
		newFilterInput("End (YYYY-MM-DD): "),
		newFilterInput("Shift: "),
		newFilterInput("Month (YYYY-MM): "),
		newFilterInput("Stops from (YYYY-MM-DD): "),
		newFilterInput("Stops to (YYYY-MM-DD): "),
	}
	m.filterInputs[inputShift].Placeholder = model.AllShifts
	m.setInputsFromConfig()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	if len(m.filterInputs) == 0 {
		return
	}
	m.filterInputs[inputStart].SetValue(m.cfg.Filter.StartDate)
	m.filterInputs[inputEnd].SetValue(m.cfg.Filter.EndDate)
	m.filterInputs[inputShift].SetValue(m.cfg.Filter.Shift)
	m.filterInputs[inputMonth].SetValue(m.cfg.Month)
	m.filterInputs[inputStopStart].SetValue(m.cfg.StopStart)
	m.filterInputs[inputStopEnd].SetValue(m.cfg.StopEnd)
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.setDetailTableSize(m.width, vpHeight)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabDetails {
		m.detailTable.Focus()
	} else {
		m.detailTable.Blur()
	}
}

// shiftMonth moves the monthly selector by delta months.
func (m *Model) shiftMonth(delta int) {
	year, month, err := report.ParseMonth(m.cfg.Month)
	if err != nil {
		now := time.Now()
		year, month = now.Year(), now.Month()
	}
	next := time.Date(year, month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	m.cfg.Month = next.Format("2006-01")
	m.refreshReport()
}

func (m *Model) refreshReport() {
	rep, err := report.BuildReport(context.Background(), m.source, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load report.")
		}
		return
	}
	m.errMsg = ""
	m.report = rep
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.applyDetailTable(width, bodyHeight)
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.errMsg != "" {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load report.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabDaily].SetContent(renderDaily(m.report.Daily, width))
	m.viewports[tabMonthly].SetContent(renderMonthly(m.report.Monthly, width))
	m.viewports[tabStops].SetContent(renderStops(m.report.Stops, m.expandStops))
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	value := func(i int) string {
		return strings.TrimSpace(m.filterInputs[i].Value())
	}
	start, end := value(inputStart), value(inputEnd)
	if err := validateRange("date", start, end); err != nil {
		return err
	}
	stopStart, stopEnd := value(inputStopStart), value(inputStopEnd)
	if err := validateRange("stop", stopStart, stopEnd); err != nil {
		return err
	}
	month := value(inputMonth)
	if month != "" {
		if _, _, err := report.ParseMonth(month); err != nil {
			return err
		}
	}
	m.cfg = model.ReportConfig{
		Filter: model.ReportFilter{
			StartDate: start,
			EndDate:   end,
			Shift:     value(inputShift),
		},
		Month:     month,
		StopStart: stopStart,
		StopEnd:   stopEnd,
	}
	return nil
}

func validateRange(label, start, end string) error {
	if (start == "") != (end == "") {
		return fmt.Errorf("%s range needs both start and end", label)
	}
	for _, d := range []string{start, end} {
		if d == "" {
			continue
		}
		if _, err := time.ParseInLocation("2006-01-02", d, time.Local); err != nil {
			return fmt.Errorf("invalid %s %q (expected YYYY-MM-DD)", label, d)
		}
	}
	return nil
}

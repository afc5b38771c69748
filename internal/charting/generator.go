// Package charting renders report trends as PNG images.
package charting

import (
	"bytes"
	"errors"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/verte-zerg/boxline/internal/model"
	"github.com/verte-zerg/boxline/internal/report"
)

// ErrNotEnoughData is returned when fewer than two dated rows are available.
var ErrNotEnoughData = errors.New("at least two dated rows are needed for a chart")

// Generator handles chart image creation.
type Generator struct {
	Width  int
	Height int
}

// NewGenerator returns a generator with the default image size.
func NewGenerator() *Generator {
	return &Generator{Width: 800, Height: 400}
}

// MonthlyTrend renders yield and utilization per day of a monthly report.
func (g *Generator) MonthlyTrend(m model.MonthlyReport) ([]byte, error) {
	yield := chart.TimeSeries{
		Name: "Yield",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("27ae60"),
			StrokeWidth: 2,
		},
	}
	utilization := chart.TimeSeries{
		Name: "Utilization",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2980b9"),
			StrokeWidth: 2,
		},
	}

	maxValue := 100.0
	for _, row := range m.DailyRows {
		t, ok := report.ParseTimestamp(row.Date)
		if !ok {
			continue
		}
		yield.XValues = append(yield.XValues, t)
		yield.YValues = append(yield.YValues, row.YieldRate)
		utilization.XValues = append(utilization.XValues, t)
		utilization.YValues = append(utilization.YValues, row.UtilizationRate)
		maxValue = math.Max(maxValue, math.Max(row.YieldRate, row.UtilizationRate))
	}
	if len(yield.XValues) < 2 {
		return nil, ErrNotEnoughData
	}

	graph := chart.Chart{
		Width:  g.Width,
		Height: g.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:  "%",
			Range: &chart.ContinuousRange{Min: 0, Max: math.Ceil(maxValue/10) * 10},
		},
		Series: []chart.Series{yield, utilization},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

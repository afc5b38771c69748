package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/verte-zerg/boxline/internal/model"
)

// Series is a named percentage series, one value per day.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 10
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var axisLabels = [3]string{"100%", "50%", "0%"}

var seriesColors = []string{"\x1b[36m", "\x1b[33m", "\x1b[35m", "\x1b[32m"}

// MonthlyTrendSeries extracts daily yield and utilization from a monthly report.
func MonthlyTrendSeries(m model.MonthlyReport) []Series {
	yield := make([]float64, len(m.DailyRows))
	util := make([]float64, len(m.DailyRows))
	for i, row := range m.DailyRows {
		yield[i] = row.YieldRate
		util[i] = row.UtilizationRate
	}
	return []Series{
		{Name: "Yield", Values: yield},
		{Name: "Utilization", Values: util},
	}
}

// PlotTrend draws series as braille lines on a fixed 0-100% axis. Values
// outside the axis are clipped. A width of 0 fits the terminal.
func PlotTrend(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	points := 0
	for _, s := range series {
		if len(s.Values) > points {
			points = len(s.Values)
		}
	}
	if points == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	grids := make([][][]uint8, len(series))
	for si, s := range series {
		grid := make([][]uint8, height)
		for y := range grid {
			grid[y] = make([]uint8, width)
		}
		prevX, prevY := -1, -1
		for i, v := range s.Values {
			px := pointColumn(i, len(s.Values), width*2)
			py := percentRow(v, height*4)
			if prevX < 0 {
				setDot(grid, px, py)
			} else {
				drawLine(prevX, prevY, px, py, func(x, y int) { setDot(grid, x, y) })
			}
			prevX, prevY = px, py
		}
		grids[si] = grid
	}

	useColor := shouldUseColor(w, forceColor)
	labelWidth := runewidth.StringWidth(axisLabels[0])
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for y := 0; y < height; y++ {
		label := ""
		switch {
		case y == 0:
			label = axisLabels[0]
		case y == height-1:
			label = axisLabels[2]
		case y == height/2:
			label = axisLabels[1]
		}
		var row strings.Builder
		row.WriteString(runewidth.FillLeft(label, labelWidth))
		row.WriteString(axisSeparator)
		for x := 0; x < width; x++ {
			var mask uint8
			owner := -1
			for si := range grids {
				if m := grids[si][y][x]; m != 0 {
					mask |= m
					if owner < 0 {
						owner = si
					}
				}
			}
			ch := rune(0x2800 + int(mask))
			if useColor && owner >= 0 {
				row.WriteString(seriesColors[owner%len(seriesColors)])
				row.WriteRune(ch)
				row.WriteString(colorReset)
			} else {
				row.WriteRune(ch)
			}
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	legend := make([]string, 0, len(series))
	for i, s := range series {
		item := fmt.Sprintf("%c %s", rune(0x2800+0x3f), s.Name)
		if useColor {
			item = seriesColors[i%len(seriesColors)] + item + colorReset
		}
		legend = append(legend, item)
	}
	_, err := fmt.Fprintf(w, "Legend: %s\n\n", strings.Join(legend, "  "))
	return err
}

// PlotWidthFor returns the plot width that fits totalWidth terminal cells.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	width := totalWidth - runewidth.StringWidth(axisLabels[0]) - runewidth.StringWidth(axisSeparator)
	if width < minPlotWidth {
		width = minPlotWidth
	}
	return width
}

func pointColumn(i, n, dots int) int {
	if n <= 1 {
		return 0
	}
	return int(math.Round(float64(i) * float64(dots-1) / float64(n-1)))
}

func percentRow(v float64, dots int) int {
	if math.IsNaN(v) {
		v = 0
	}
	v = math.Max(0, math.Min(100, v))
	return int(math.Round((1 - v/100) * float64(dots-1)))
}

func setDot(grid [][]uint8, x, y int) {
	cy, cx := y/4, x/2
	if y < 0 || x < 0 || cy >= len(grid) || cx >= len(grid[cy]) {
		return
	}
	// Braille dot bits: left column 1,2,3,7 and right column 4,5,6,8.
	left := [4]uint8{0x01, 0x02, 0x04, 0x40}
	right := [4]uint8{0x08, 0x10, 0x20, 0x80}
	if x%2 == 0 {
		grid[cy][cx] |= left[y%4]
	} else {
		grid[cy][cx] |= right[y%4]
	}
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/eigenomarksamy/movie-analytics/internal/summary"
)

// The chart is a 4x2 grid; the last cell stays empty.
const (
	chartRows   = 4
	chartCols   = 2
	panelWidth  = 7.5 * vg.Inch
	panelHeight = 5 * vg.Inch
)

type panel struct {
	title  string
	legend string
	ylabel string
	value  func(summary.MonthStats) float64
}

var panels = []panel{
	{"Total Duration per Month", "Total Duration", "Total Duration (mins)", func(s summary.MonthStats) float64 { return s.TotalDurationMins }},
	{"Average Duration per Month", "Average Duration", "Average Duration (mins)", func(s summary.MonthStats) float64 { return s.AvgDurationMins }},
	{"Total Size per Month", "Total Size", "Total Size (MBs)", func(s summary.MonthStats) float64 { return s.TotalSizeMB }},
	{"Average Size per Month", "Average Size", "Average Size (MBs)", func(s summary.MonthStats) float64 { return s.AvgSizeMB }},
	{"Total Resolution per Month", "Total Resolution", "Total Resolution", func(s summary.MonthStats) float64 { return s.TotalResolution }},
	{"Average Resolution per Month", "Average Resolution", "Average Resolution", func(s summary.MonthStats) float64 { return s.AvgResolution }},
	{"Number of Files per Month", "Number of Files", "Number of Files", func(s summary.MonthStats) float64 { return float64(s.Files) }},
}

// WriteCharts writes one SVG document with a line chart per monthly metric.
func WriteCharts(path string, stats []summary.MonthStats) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chart directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := RenderCharts(w, stats); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("write chart: %w", err)
	}
	return f.Close()
}

// RenderCharts lays the metric panels out on a grid and writes it to w as SVG.
func RenderCharts(w io.Writer, stats []summary.MonthStats) error {
	if len(stats) == 0 {
		return ErrNoData
	}

	grid := make([][]*plot.Plot, chartRows)
	for j := range grid {
		grid[j] = make([]*plot.Plot, chartCols)
	}
	for i, pn := range panels {
		p, err := newPanel(pn, stats)
		if err != nil {
			return err
		}
		grid[i/chartCols][i%chartCols] = p
	}

	img := vgsvg.New(chartCols*panelWidth, chartRows*panelHeight)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      chartRows,
		Cols:      chartCols,
		PadX:      6 * vg.Millimeter,
		PadY:      6 * vg.Millimeter,
		PadTop:    4 * vg.Millimeter,
		PadBottom: 4 * vg.Millimeter,
		PadLeft:   4 * vg.Millimeter,
		PadRight:  4 * vg.Millimeter,
	}
	canvases := plot.Align(grid, tiles, dc)
	for j, row := range grid {
		for i, p := range row {
			if p != nil {
				p.Draw(canvases[j][i])
			}
		}
	}

	if _, err := img.WriteTo(w); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

func newPanel(pn panel, stats []summary.MonthStats) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = pn.title
	p.X.Label.Text = "Month"
	p.Y.Label.Text = pn.ylabel
	p.Add(plotter.NewGrid())

	labels := make([]string, len(stats))
	pts := make(plotter.XYs, len(stats))
	for i, s := range stats {
		labels[i] = strconv.Itoa(s.Label)
		pts[i].X = float64(i)
		pts[i].Y = pn.value(s)
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, fmt.Errorf("chart %q: %w", pn.title, err)
	}
	points.Shape = draw.CircleGlyph{}
	p.Add(line, points)
	p.Legend.Add(pn.legend, line, points)
	p.Legend.Top = true
	p.NominalX(labels...)
	return p, nil
}

package report

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/eigenomarksamy/movie-analytics/internal/project"
	"github.com/eigenomarksamy/movie-analytics/internal/summary"
	"github.com/eigenomarksamy/movie-analytics/internal/units"
)

// ErrNoData reports an empty raw table.
var ErrNoData = errors.New("no cataloged files to report")

// RawReader supplies the raw catalog table.
type RawReader interface {
	ReadRawRows() ([]project.RawRow, error)
}

// Options controls Generate.
type Options struct {
	// ChartPath receives the SVG chart when non-empty.
	ChartPath string
}

// Report is the monthly view of a catalog.
type Report struct {
	Stats                []summary.MonthStats
	Extremes             []summary.Extreme
	AverageFilesPerMonth int
	ChartPath            string
}

// Build computes the monthly report for rows.
func Build(rows []project.RawRow) Report {
	stats := summary.MonthlyStats(summary.GroupByMonth(rows))
	return Report{
		Stats:                stats,
		Extremes:             summary.Extremes(stats),
		AverageFilesPerMonth: summary.AverageFilesPerMonth(stats),
	}
}

// Generate reads the raw table, builds the report and, when configured,
// writes the chart.
func Generate(src RawReader, opts Options) (Report, error) {
	rows, err := src.ReadRawRows()
	if err != nil {
		return Report{}, err
	}
	if len(rows) == 0 {
		return Report{}, ErrNoData
	}
	rep := Build(rows)
	if opts.ChartPath != "" {
		if err := WriteCharts(opts.ChartPath, rep.Stats); err != nil {
			return Report{}, err
		}
		rep.ChartPath = opts.ChartPath
	}
	return rep, nil
}

// Render returns both tables and the per-month file average.
func (r Report) Render() string {
	var b strings.Builder
	b.WriteString(MonthlyTable(r.Stats))
	b.WriteString("\n")
	b.WriteString(ExtremesTable(r.Extremes))
	b.WriteString("\n")
	fmt.Fprintf(&b, "overall average number of files per month: %d\n", r.AverageFilesPerMonth)
	if r.ChartPath != "" {
		fmt.Fprintf(&b, "charts: %s\n", r.ChartPath)
	}
	return b.String()
}

// MonthlyTable renders one row per monthly bucket.
func MonthlyTable(stats []summary.MonthStats) string {
	tw := newTable("Month", "Period", "Files", "Total duration", "Avg duration",
		"Total size", "Avg size", "Total res (h)", "Avg res (h)")
	for _, s := range stats {
		tw.AppendRow(table.Row{
			s.Label,
			s.Period,
			s.Files,
			units.Duration(s.TotalDurationMins * 60),
			units.Duration(s.AvgDurationMins * 60),
			units.SizeMB(s.TotalSizeMB),
			units.SizeMB(s.AvgSizeMB),
			strconv.FormatFloat(s.TotalResolution, 'f', 0, 64),
			strconv.FormatFloat(s.AvgResolution, 'f', 2, 64),
		})
	}
	alignRight(tw, 1, 3, 4, 5, 6, 7, 8, 9)
	return tw.Render()
}

// ExtremesTable renders the per-metric minimum and maximum months.
func ExtremesTable(extremes []summary.Extreme) string {
	tw := newTable("Metric", "Value", "Month")
	for _, e := range extremes {
		tw.AppendRow(table.Row{e.Metric, fmt.Sprintf("%.2f", e.Value), e.Label})
	}
	alignRight(tw, 2, 3)
	return tw.Render()
}

func newTable(headers ...string) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)
	return tw
}

func alignRight(tw table.Writer, columns ...int) {
	configs := make([]table.ColumnConfig, 0, len(columns))
	for _, n := range columns {
		configs = append(configs, table.ColumnConfig{Number: n, Align: text.AlignRight, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)
}

package summary

import (
	"cmp"
	"slices"
	"time"

	"github.com/eigenomarksamy/movie-analytics/internal/project"
)

// MonthlyBucket groups rows created in one calendar month. Label is the
// bucket's chronological position starting at 1, not the month number.
type MonthlyBucket struct {
	Label int
	Year  int
	Month time.Month
	Rows  []project.RawRow
}

// Period renders the bucket's calendar month as YYYY-MM.
func (b MonthlyBucket) Period() string {
	return time.Date(b.Year, b.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// GroupByMonth buckets rows by the year and month of their creation time and
// labels the buckets 1..N in chronological order. Rows keep their input order
// within a bucket.
func GroupByMonth(rows []project.RawRow) []MonthlyBucket {
	type key struct {
		year  int
		month time.Month
	}
	index := map[key]int{}
	var buckets []MonthlyBucket
	for _, row := range rows {
		k := key{row.Created.Year(), row.Created.Month()}
		i, ok := index[k]
		if !ok {
			i = len(buckets)
			index[k] = i
			buckets = append(buckets, MonthlyBucket{Year: k.year, Month: k.month})
		}
		buckets[i].Rows = append(buckets[i].Rows, row)
	}

	slices.SortFunc(buckets, func(a, b MonthlyBucket) int {
		if c := cmp.Compare(a.Year, b.Year); c != 0 {
			return c
		}
		return cmp.Compare(a.Month, b.Month)
	})
	for i := range buckets {
		buckets[i].Label = i + 1
	}
	return buckets
}

// MonthStats are the per-bucket totals and averages used for reporting.
type MonthStats struct {
	Label  int
	Period string
	Files  int

	TotalDurationMins float64
	AvgDurationMins   float64
	TotalSizeMB       float64
	AvgSizeMB         float64
	TotalResolution   float64
	AvgResolution     float64
}

// MonthlyStats computes totals and averages per bucket.
func MonthlyStats(buckets []MonthlyBucket) []MonthStats {
	stats := make([]MonthStats, 0, len(buckets))
	for _, b := range buckets {
		s := MonthStats{Label: b.Label, Period: b.Period(), Files: len(b.Rows)}
		for _, row := range b.Rows {
			s.TotalDurationMins += row.DurationMins
			s.TotalSizeMB += row.SizeMB
			s.TotalResolution += float64(row.ResolutionHeight)
		}
		if s.Files > 0 {
			n := float64(s.Files)
			s.AvgDurationMins = s.TotalDurationMins / n
			s.AvgSizeMB = s.TotalSizeMB / n
			s.AvgResolution = s.TotalResolution / n
		}
		stats = append(stats, s)
	}
	return stats
}

// Extreme is the minimum or maximum of one monthly metric and the label of
// the first month reaching it.
type Extreme struct {
	Metric string
	Value  float64
	Label  int
}

// Metric names one monthly series.
type Metric struct {
	Name  string
	Value func(MonthStats) float64
}

// Metrics lists the monthly series in report order.
var Metrics = []Metric{
	{Name: "number of files", Value: func(s MonthStats) float64 { return float64(s.Files) }},
	{Name: "total duration", Value: func(s MonthStats) float64 { return s.TotalDurationMins }},
	{Name: "average duration", Value: func(s MonthStats) float64 { return s.AvgDurationMins }},
	{Name: "total size", Value: func(s MonthStats) float64 { return s.TotalSizeMB }},
	{Name: "average size", Value: func(s MonthStats) float64 { return s.AvgSizeMB }},
	{Name: "total resolution", Value: func(s MonthStats) float64 { return s.TotalResolution }},
	{Name: "average resolution", Value: func(s MonthStats) float64 { return s.AvgResolution }},
}

// Extremes returns a minimum and a maximum entry per metric, in Metrics order.
func Extremes(stats []MonthStats) []Extreme {
	if len(stats) == 0 {
		return nil
	}
	out := make([]Extreme, 0, 2*len(Metrics))
	for _, m := range Metrics {
		lo, hi := stats[0], stats[0]
		for _, s := range stats[1:] {
			if m.Value(s) < m.Value(lo) {
				lo = s
			}
			if m.Value(s) > m.Value(hi) {
				hi = s
			}
		}
		out = append(out,
			Extreme{Metric: "minimum " + m.Name, Value: m.Value(lo), Label: lo.Label},
			Extreme{Metric: "maximum " + m.Name, Value: m.Value(hi), Label: hi.Label},
		)
	}
	return out
}

// AverageFilesPerMonth is the floored mean file count across buckets.
func AverageFilesPerMonth(stats []MonthStats) int {
	if len(stats) == 0 {
		return 0
	}
	total := 0
	for _, s := range stats {
		total += s.Files
	}
	return total / len(stats)
}

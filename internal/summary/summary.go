package summary

import (
	"fmt"
	"maps"
	"math"
	"math/big"
	"slices"
	"strings"
	"time"

	"github.com/eigenomarksamy/movie-analytics/internal/project"
	"github.com/eigenomarksamy/movie-analytics/internal/units"
)

// sumPrec holds any sum of float64 values exactly.
const sumPrec = 2200

type emptyError struct{}

func (emptyError) Error() string     { return "summary: no records to finalize" }
func (emptyError) ErrorKind() string { return "configuration" }

// ErrEmpty is returned when finalizing an aggregate with no rows.
var ErrEmpty error = emptyError{}

// FileValue pairs a numeric extreme with the file that produced it.
type FileValue struct {
	File  string
	Value float64
}

// FileTime pairs a timestamp extreme with the file that produced it.
type FileTime struct {
	File string
	Time time.Time
}

// Summary is a finalized aggregate.
type Summary struct {
	Count int

	MaxSizeMB       FileValue
	MinSizeMB       FileValue
	MaxDurationMins FileValue
	MinDurationMins FileValue
	Oldest          FileTime
	Newest          FileTime

	TotalSizeMB            float64
	TotalDurationMins      float64
	TotalProcessingSeconds float64

	AvgSizeMB            float64
	AvgDurationMins      float64
	AvgProcessingSeconds float64

	Encodings map[string]int
}

// Running accumulates rows one at a time.
type Running struct {
	count int

	maxSize, minSize FileValue
	maxDur, minDur   FileValue
	oldest, newest   FileTime

	sizeMB, durationMins, processing *big.Float

	encodings map[string]int
}

// NewRunning returns an empty accumulator.
func NewRunning() *Running {
	return &Running{
		maxSize:      FileValue{Value: math.Inf(-1)},
		minSize:      FileValue{Value: math.Inf(1)},
		maxDur:       FileValue{Value: math.Inf(-1)},
		minDur:       FileValue{Value: math.Inf(1)},
		sizeMB:       new(big.Float).SetPrec(sumPrec),
		durationMins: new(big.Float).SetPrec(sumPrec),
		processing:   new(big.Float).SetPrec(sumPrec),
		encodings:    map[string]int{},
	}
}

// Step folds one row into the aggregate.
func (r *Running) Step(row project.RawRow) {
	if row.SizeMB > r.maxSize.Value {
		r.maxSize = FileValue{File: row.File, Value: row.SizeMB}
	}
	if row.SizeMB < r.minSize.Value {
		r.minSize = FileValue{File: row.File, Value: row.SizeMB}
	}
	if row.DurationMins > r.maxDur.Value {
		r.maxDur = FileValue{File: row.File, Value: row.DurationMins}
	}
	if row.DurationMins < r.minDur.Value {
		r.minDur = FileValue{File: row.File, Value: row.DurationMins}
	}
	if r.count == 0 || row.Created.After(r.newest.Time) {
		r.newest = FileTime{File: row.File, Time: row.Created}
	}
	if r.count == 0 || row.Created.Before(r.oldest.Time) {
		r.oldest = FileTime{File: row.File, Time: row.Created}
	}

	addExact(r.sizeMB, row.SizeMB)
	addExact(r.durationMins, row.DurationMins)
	addExact(r.processing, row.ProcessingTime)
	r.encodings[row.Encoding]++
	r.count++
}

// Count returns the number of rows folded so far.
func (r *Running) Count() int { return r.count }

// TotalSizeMB returns the running size total.
func (r *Running) TotalSizeMB() float64 {
	v, _ := r.sizeMB.Float64()
	return v
}

// Finalize computes averages. It fails with ErrEmpty when no rows were seen.
func (r *Running) Finalize() (Summary, error) {
	if r.count == 0 {
		return Summary{}, ErrEmpty
	}
	return Summary{
		Count:                  r.count,
		MaxSizeMB:              r.maxSize,
		MinSizeMB:              r.minSize,
		MaxDurationMins:        r.maxDur,
		MinDurationMins:        r.minDur,
		Oldest:                 r.oldest,
		Newest:                 r.newest,
		TotalSizeMB:            toFloat(r.sizeMB),
		TotalDurationMins:      toFloat(r.durationMins),
		TotalProcessingSeconds: toFloat(r.processing),
		AvgSizeMB:              average(r.sizeMB, r.count),
		AvgDurationMins:        average(r.durationMins, r.count),
		AvgProcessingSeconds:   average(r.processing, r.count),
		Encodings:              maps.Clone(r.encodings),
	}, nil
}

// Full recomputes the aggregate over every row of the raw table.
func Full(rows []project.RawRow) (Summary, error) {
	running := NewRunning()
	for _, row := range rows {
		running.Step(row)
	}
	return running.Finalize()
}

// TotalSizeGB returns the size total in gigabytes.
func (s Summary) TotalSizeGB() float64 { return s.TotalSizeMB / 1024 }

// Span is the time between the oldest and newest file.
func (s Summary) Span() time.Duration { return s.Newest.Time.Sub(s.Oldest.Time) }

// SpeedGBps is the catalog throughput, or 0 when no processing time was spent.
func (s Summary) SpeedGBps() float64 {
	if s.TotalProcessingSeconds <= 0 {
		return 0
	}
	return s.TotalSizeGB() / s.TotalProcessingSeconds
}

// Lines renders the summary as the text block stored in summary files.
func (s Summary) Lines() []string {
	return []string{
		"",
		fmt.Sprintf("total files: %d", s.Count),
		fmt.Sprintf("max size: %s -- %s", units.SizeMB(s.MaxSizeMB.Value), s.MaxSizeMB.File),
		fmt.Sprintf("min size: %s -- %s", units.SizeMB(s.MinSizeMB.Value), s.MinSizeMB.File),
		fmt.Sprintf("max duration: %s -- %s", units.Duration(s.MaxDurationMins.Value*60), s.MaxDurationMins.File),
		fmt.Sprintf("min duration: %s -- %s", units.Duration(s.MinDurationMins.Value*60), s.MinDurationMins.File),
		fmt.Sprintf("oldest date: %s -- %s", s.Oldest.Time.Format(project.TimestampLayout), s.Oldest.File),
		fmt.Sprintf("newest date: %s -- %s", s.Newest.Time.Format(project.TimestampLayout), s.Newest.File),
		fmt.Sprintf("time span of files: %s", formatSpan(s.Span())),
		fmt.Sprintf("avg duration: %s", units.Duration(s.AvgDurationMins*60)),
		fmt.Sprintf("avg size: %s", units.SizeMB(s.AvgSizeMB)),
		fmt.Sprintf("avg processing time (s): %s", formatNumber(s.AvgProcessingSeconds)),
		fmt.Sprintf("avg processing speed (GB/s): %s", formatNumber(s.SpeedGBps())),
		fmt.Sprintf("total processing time: %s", units.Duration(s.TotalProcessingSeconds)),
		fmt.Sprintf("encoding(s): %s", formatEncodings(s.Encodings)),
		"---------------",
	}
}

func addExact(sum *big.Float, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	sum.Add(sum, new(big.Float).SetFloat64(v))
}

func toFloat(sum *big.Float) float64 {
	v, _ := sum.Float64()
	return v
}

func average(sum *big.Float, count int) float64 {
	q := new(big.Float).SetPrec(sumPrec).Quo(sum, new(big.Float).SetInt64(int64(count)))
	v, _ := q.Float64()
	return v
}

// formatSpan renders a duration as "N days, H:MM:SS".
func formatSpan(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	total := int64(d / time.Second)
	days := total / 86400
	rest := total % 86400
	clock := fmt.Sprintf("%d:%02d:%02d", rest/3600, rest%3600/60, rest%60)
	switch days {
	case 0:
		return sign + clock
	case 1:
		return fmt.Sprintf("%s1 day, %s", sign, clock)
	default:
		return fmt.Sprintf("%s%d days, %s", sign, days, clock)
	}
}

func formatNumber(v float64) string {
	return fmt.Sprintf("%.6g", v)
}

func formatEncodings(counts map[string]int) string {
	names := slices.Sorted(maps.Keys(counts))
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, counts[name]))
	}
	return strings.Join(parts, ", ")
}

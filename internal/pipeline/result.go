package pipeline

import (
	"time"

	"github.com/eigenomarksamy/movie-analytics/internal/inventory"
	"github.com/eigenomarksamy/movie-analytics/internal/project"
	"github.com/eigenomarksamy/movie-analytics/internal/runlog"
	"github.com/eigenomarksamy/movie-analytics/internal/summary"
)

// FailedFile is a file skipped because its probe failed.
type FailedFile struct {
	Path string
	Err  error
}

// Timing breaks a run into phases.
type Timing struct {
	Init     time.Duration
	Steps    []time.Duration
	Finalize time.Duration
	Total    time.Duration
}

// StepsTotal sums the per-file probe times.
func (t Timing) StepsTotal() time.Duration {
	var total time.Duration
	for _, d := range t.Steps {
		total += d
	}
	return total
}

// StepAverage is the mean probe time, or zero without steps.
func (t Timing) StepAverage() time.Duration {
	if len(t.Steps) == 0 {
		return 0
	}
	return t.StepsTotal() / time.Duration(len(t.Steps))
}

// PerItem is the total run time divided by the number of probed files, or
// zero without steps.
func (t Timing) PerItem() time.Duration {
	if len(t.Steps) == 0 {
		return 0
	}
	return t.Total / time.Duration(len(t.Steps))
}

// Result describes a finished run.
type Result struct {
	RunID       string
	Project     string
	Destination string
	Layout      project.Layout
	Status      runlog.Status

	Plan      inventory.Plan
	Batch     []inventory.File
	Processed []string
	Failed    []FailedFile

	// Running aggregates this batch; nil when no file was cataloged.
	Running *summary.Summary
	// Full aggregates the whole raw table; nil when it is empty.
	Full *summary.Summary

	ChartPath string
	Timing    Timing
}

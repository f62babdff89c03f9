package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/eigenomarksamy/movie-analytics/internal/inventory"
	"github.com/eigenomarksamy/movie-analytics/internal/pipeline"
	"github.com/eigenomarksamy/movie-analytics/internal/units"
)

// runObserver prints the batch plan and, on a terminal, a byte progress bar.
type runObserver struct {
	out         io.Writer
	interactive bool
	quiet       bool
	perFile     float64

	bar    *progressbar.ProgressBar
	failed int
}

func newRunObserver(out io.Writer, quiet bool, secondsPerFile float64) *runObserver {
	return &runObserver{
		out:         out,
		interactive: isTerminal(out),
		quiet:       quiet,
		perFile:     secondsPerFile,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (o *runObserver) Start(plan inventory.Plan) {
	if o.quiet {
		return
	}
	fmt.Fprintln(o.out, renderPlan(plan, o.perFile))
	if !o.interactive || plan.BatchFiles == 0 {
		return
	}
	o.bar = progressbar.NewOptions64(plan.BatchBytes,
		progressbar.OptionSetWriter(o.out),
		progressbar.OptionSetDescription(fmt.Sprintf("0/%d", plan.BatchFiles)),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
	)
}

func (o *runObserver) FileDone(ev pipeline.FileEvent) {
	if ev.Err != nil {
		o.failed++
	}
	if o.bar == nil {
		return
	}
	o.bar.Describe(fmt.Sprintf("%d/%d %s", ev.Index+1, ev.Total, filepath.Base(ev.Path)))
	_ = o.bar.Add64(ev.Size)
}

func (o *runObserver) Finish() {
	if o.bar != nil {
		_ = o.bar.Finish()
		o.bar = nil
	}
}

// renderPlan estimates times from a fixed per-file cost in seconds.
func renderPlan(plan inventory.Plan, perFile float64) string {
	expected := float64(plan.BatchFiles) * perFile
	remaining := float64(plan.ExpectedRemainingFiles()) * perFile
	pairs := [][2]string{
		{"Files", fmt.Sprintf("%d (%s)", plan.TotalFiles, humanize.IBytes(uint64(plan.TotalBytes)))},
		{"Already processed", fmt.Sprintf("%d (%s, %s)", plan.ProcessedFiles(), humanize.IBytes(uint64(plan.ProcessedBytes())), percent(plan.AlreadyProcessed()))},
		{"Budget", humanize.IBytes(uint64(plan.BudgetBytes))},
		{"This batch", fmt.Sprintf("%d (%s)", plan.BatchFiles, humanize.IBytes(uint64(plan.BatchBytes)))},
		{"Expected time", units.Duration(expected)},
		{"Progress after batch", percent(plan.ExpectedProgress())},
		{"Remaining after batch", fmt.Sprintf("%d (%s)", plan.ExpectedRemainingFiles(), humanize.IBytes(uint64(plan.ExpectedRemainingBytes())))},
		{"Expected remaining time", units.Duration(remaining)},
		{"Expected runs left", fmt.Sprintf("%d", plan.ExpectedRuns())},
	}
	return renderPairs("Plan", "Value", pairs)
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

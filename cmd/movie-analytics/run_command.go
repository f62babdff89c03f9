package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/eigenomarksamy/movie-analytics/internal/deps"
	"github.com/eigenomarksamy/movie-analytics/internal/media/ffprobe"
	"github.com/eigenomarksamy/movie-analytics/internal/pipeline"
	"github.com/eigenomarksamy/movie-analytics/internal/units"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		dest      string
		proj      string
		procSpeed float64
		execTime  float64
		quiet     bool
		verbose   bool
		charts    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Catalog the next batch of a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := *base
			flags := cmd.Flags()
			if flags.Changed("proc-speed") {
				cfg.Batch.ProcessingSpeedGBps = procSpeed
			}
			if flags.Changed("exec-time") {
				cfg.Batch.ExecTimeSeconds = execTime
			}
			if flags.Changed("charts") {
				cfg.Report.Charts = charts
			}
			if err := cfg.Validate(); err != nil {
				return &pipeline.ConfigError{Field: "flags", Err: err}
			}
			if err := deps.Require(deps.CheckBinaries(deps.Requirements(&cfg))); err != nil {
				return err
			}

			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			observer := newRunObserver(out, quiet, cfg.Batch.SecondsPerFileEstimate)
			runner := pipeline.New(&cfg, ffprobe.Decoder{Binary: cfg.Probe.FFprobeBinary}, logger)
			res, err := runner.Run(cmd.Context(), pipeline.Options{
				Destination: dest,
				Project:     proj,
				Verbose:     verbose,
				Charts:      cfg.Report.Charts,
				Observer:    observer,
			})
			if err != nil {
				return err
			}
			if !quiet {
				printRunResult(out, res)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dest, "dest", "", "Directory to catalog")
	cmd.Flags().StringVar(&proj, "proj", "", "Project name (defaults to the directory path with separators replaced)")
	cmd.Flags().Float64Var(&procSpeed, "proc-speed", 0, "Processing speed in GB per second")
	cmd.Flags().Float64Var(&execTime, "exec-time", 0, "Execution allowance in seconds")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress plan, progress and result tables")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every probed file")
	cmd.Flags().BoolVar(&charts, "charts", true, "Render the monthly chart after the run")
	_ = cmd.MarkFlagRequired("dest")
	return cmd
}

func printRunResult(out io.Writer, res pipeline.Result) {
	fmt.Fprintf(out, "Project %s: %s (run %s)\n", res.Project, res.Status, res.RunID)

	if len(res.Failed) > 0 {
		rows := make([][]string, 0, len(res.Failed))
		for _, f := range res.Failed {
			rows = append(rows, []string{filepath.Base(f.Path), pipeline.Kind(f.Err), f.Err.Error()})
		}
		fmt.Fprintln(out, renderTable([]string{"Skipped", "Kind", "Reason"}, rows, nil))
	}

	if res.Running != nil {
		fmt.Fprintln(out, "Batch summary:")
		for _, line := range res.Running.Lines() {
			fmt.Fprintln(out, "  "+line)
		}
	}
	if res.Full != nil {
		fmt.Fprintln(out, "Catalog so far:")
		for _, line := range res.Full.Lines() {
			fmt.Fprintln(out, "  "+line)
		}
	}
	if res.ChartPath != "" {
		fmt.Fprintf(out, "Chart: %s\n", res.ChartPath)
	}

	t := res.Timing
	pairs := [][2]string{
		{"Files probed", fmt.Sprintf("%d (%s)", len(t.Steps), humanize.IBytes(uint64(res.Plan.BatchBytes)))},
		{"Init", units.Duration(t.Init.Seconds())},
		{"Probing", units.Duration(t.StepsTotal().Seconds())},
		{"Average per probe", t.StepAverage().String()},
		{"Finalize", units.Duration(t.Finalize.Seconds())},
		{"Total", units.Duration(t.Total.Seconds())},
		{"Per file overall", t.PerItem().String()},
	}
	fmt.Fprintln(out, renderPairs("Timing", "Value", pairs))
}

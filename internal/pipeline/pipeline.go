package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/eigenomarksamy/movie-analytics/internal/config"
	"github.com/eigenomarksamy/movie-analytics/internal/inventory"
	"github.com/eigenomarksamy/movie-analytics/internal/logging"
	"github.com/eigenomarksamy/movie-analytics/internal/probe"
	"github.com/eigenomarksamy/movie-analytics/internal/project"
	"github.com/eigenomarksamy/movie-analytics/internal/report"
	"github.com/eigenomarksamy/movie-analytics/internal/runlog"
	"github.com/eigenomarksamy/movie-analytics/internal/summary"
)

// Options selects what a run catalogs and which optional work it does.
type Options struct {
	// Destination is the directory to catalog.
	Destination string
	// Project names the cache directory; derived from Destination when empty.
	Project   string
	Overrides project.Overrides
	// Verbose logs every probed file instead of sampled progress.
	Verbose bool
	// Charts renders the monthly chart after persisting.
	Charts   bool
	Observer Observer
}

// Runner executes catalog runs.
type Runner struct {
	cfg     *config.Config
	decoder probe.Decoder
	logger  *slog.Logger
	now     func() time.Time
}

// New builds a runner probing through decoder.
func New(cfg *config.Config, decoder probe.Decoder, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:     cfg,
		decoder: decoder,
		logger:  logging.NewComponentLogger(logger, "pipeline"),
		now:     time.Now,
	}
}

// Run performs one invocation. Every run that gets far enough to open the
// project is recorded in its history database, failed runs included.
func (r *Runner) Run(ctx context.Context, opts Options) (Result, error) {
	start := r.now()
	res := Result{RunID: runlog.NewID(), Destination: opts.Destination, Status: runlog.StatusFailed}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}

	dest := strings.TrimSpace(opts.Destination)
	if dest == "" {
		return res, &ConfigError{Field: "destination", Err: errors.New("a directory to catalog is required")}
	}
	name := strings.TrimSpace(opts.Project)
	if name == "" {
		name = project.NameFromDir(dest)
	}
	layout, err := project.NewLayout(r.cfg.Paths.CacheDir, name, opts.Overrides)
	if err != nil {
		return res, &ConfigError{Field: "project", Err: err}
	}
	res.Project = name
	res.Layout = layout

	store, err := project.Open(layout)
	if err != nil {
		return res, err
	}
	if err := store.Lock(); err != nil {
		return res, err
	}
	defer func() {
		if err := store.Unlock(); err != nil {
			r.logger.Warn("release project lock", logging.Error(err))
		}
	}()

	ctx = logging.WithRunID(logging.WithProject(ctx, name), res.RunID)
	logger := logging.WithContext(ctx, r.logger)

	run := &execution{runner: r, opts: opts, store: store, logger: logger, dest: dest, res: &res}
	err = run.execute(ctx, start)
	res.Timing.Total = r.now().Sub(start)
	if err != nil {
		res.Status = runlog.StatusFailed
		if !errors.Is(err, context.Canceled) {
			logging.ErrorWithContext(logger, "run failed", "run_failed",
				logging.Error(err),
				logging.String("kind", Kind(err)),
			)
		}
	}
	r.record(ctx, logger, res, start, err)
	return res, err
}

type execution struct {
	runner *Runner
	opts   Options
	store  *project.Store
	logger *slog.Logger
	dest   string
	res    *Result
}

func (e *execution) execute(ctx context.Context, start time.Time) error {
	cfg := e.runner.cfg
	store := e.store

	if err := store.WriteDestination(e.dest); err != nil {
		return err
	}
	listed, err := inventory.ListFiles(e.dest, store)
	if err != nil {
		return err
	}
	rows, err := store.ReadRawRowsOrDefault(nil)
	if err != nil {
		return err
	}
	all, err := inventory.Sizes(listed)
	if err != nil {
		return fmt.Errorf("size destination files: %w", err)
	}
	remaining := selectFiles(all, inventory.RemainingFiles(listed, rows, e.dest))

	if len(remaining) == 0 {
		e.res.Plan = inventory.NewPlan(all, nil, nil, 0)
		e.res.Timing.Init = e.runner.now().Sub(start)
		return e.catchUp(rows)
	}

	budget := inventory.BudgetBytes(cfg.BudgetGB())
	batch := inventory.SelectBatch(remaining, budget)
	plan := inventory.NewPlan(all, remaining, batch, budget)
	e.res.Plan = plan
	e.res.Batch = batch

	e.logger.Info("batch selected",
		logging.Int("files_total", plan.TotalFiles),
		logging.Int("files_remaining", plan.RemainingFiles),
		logging.Int("batch_files", plan.BatchFiles),
		logging.String("batch_size", humanize.IBytes(uint64(plan.BatchBytes))),
		logging.String("budget", humanize.IBytes(uint64(budget))),
		logging.Int("expected_runs", plan.ExpectedRuns()),
		logging.Bool("verbose", e.opts.Verbose),
		logging.Bool("charts", e.opts.Charts),
	)
	if len(batch) == 0 {
		logging.WarnWithContext(e.logger, "no remaining file fits the batch budget", "batch_empty",
			logging.String("budget", humanize.IBytes(uint64(budget))),
			logging.String(logging.FieldErrorHint, "raise processing speed or execution time"),
			logging.String(logging.FieldImpact, "nothing is cataloged this run"),
		)
	}

	e.res.Timing.Init = e.runner.now().Sub(start)
	e.opts.Observer.Start(plan)

	running, clean, raw, probeErr := e.probeBatch(ctx, batch)
	e.opts.Observer.Finish()

	finalizeStart := e.runner.now()
	if err := e.persist(running, clean, raw, len(remaining)); err != nil {
		return err
	}
	e.res.Timing.Finalize = e.runner.now().Sub(finalizeStart)

	if probeErr != nil {
		return probeErr
	}
	e.res.Status = runlog.StatusCompleted
	e.logger.Info("run complete",
		logging.Int("processed", len(e.res.Processed)),
		logging.Int("failed", len(e.res.Failed)),
	)
	return nil
}

// catchUp recomputes the full summary when every listed file is cataloged.
func (e *execution) catchUp(rows []project.RawRow) error {
	finalizeStart := e.runner.now()
	defer func() { e.res.Timing.Finalize = e.runner.now().Sub(finalizeStart) }()

	e.res.Status = runlog.StatusCaughtUp
	if len(rows) == 0 {
		e.logger.Info("nothing cataloged", logging.String("destination", e.dest))
		return nil
	}
	full, err := summary.Full(rows)
	if err != nil {
		return err
	}
	if err := e.store.OverwriteFullSummary(full.Lines()); err != nil {
		return err
	}
	e.res.Full = &full
	e.renderCharts()
	e.logger.Info("catalog up to date; full summary recomputed", logging.Int("files", full.Count))
	return nil
}

// probeBatch probes files in order. Cancellation stops before the next file;
// what was already probed is still returned for persistence.
func (e *execution) probeBatch(ctx context.Context, batch []inventory.File) (*summary.Running, []project.CleanRow, []project.RawRow, error) {
	cfg := e.runner.cfg
	extractor := probe.NewExtractor(e.runner.decoder, cfg.Probe.Encodings, cfg.Probe.EncodingSampleBytes)
	sampler := logging.NewProgressSampler(25)
	running := summary.NewRunning()
	batchBytes := inventory.TotalSize(batch)

	var (
		clean     []project.CleanRow
		raw       []project.RawRow
		doneBytes int64
	)
	for i, file := range batch {
		if err := ctx.Err(); err != nil {
			logging.WarnWithContext(e.logger, "run interrupted; saving files cataloged so far", "run_interrupted",
				logging.Int("completed", i),
				logging.Int("batch_files", len(batch)),
				logging.String(logging.FieldImpact, "remaining batch files are retried next run"),
			)
			return running, clean, raw, err
		}

		stepStart := e.runner.now()
		md, err := extractor.Probe(ctx, file.Path)
		elapsed := e.runner.now().Sub(stepStart)
		e.res.Timing.Steps = append(e.res.Timing.Steps, elapsed)

		if err != nil {
			e.res.Failed = append(e.res.Failed, FailedFile{Path: file.Path, Err: err})
			logging.WarnWithContext(e.logger, "probe failed; file skipped", "probe_failed",
				logging.String(logging.FieldFile, file.Path),
				logging.String("kind", Kind(err)),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the file plays and that ffprobe can read it"),
				logging.String(logging.FieldImpact, "file is retried next run"),
			)
		} else {
			name := filepath.Base(file.Path)
			row := md.Raw(name)
			running.Step(row)
			raw = append(raw, row)
			clean = append(clean, md.Clean(name))
			e.res.Processed = append(e.res.Processed, file.Path)
			doneBytes += file.Size
			if e.opts.Verbose {
				e.logger.Info("file cataloged",
					logging.String(logging.FieldFile, file.Path),
					logging.String("size", humanize.IBytes(uint64(md.SizeBytes))),
					logging.Duration("elapsed", elapsed),
				)
			}
		}

		if !e.opts.Verbose && sampler.ShouldLog(i+1, len(batch)) {
			e.logger.Info("probe progress",
				logging.Int("done", i+1),
				logging.Int("total", len(batch)),
				logging.String("cataloged", humanize.IBytes(uint64(doneBytes))),
			)
		}
		e.opts.Observer.FileDone(FileEvent{
			Index:      i,
			Total:      len(batch),
			Path:       file.Path,
			Size:       file.Size,
			Err:        err,
			Elapsed:    elapsed,
			DoneBytes:  doneBytes,
			BatchBytes: batchBytes,
		})
	}
	return running, clean, raw, nil
}

// persist writes the batch in a fixed order and recomputes the partial
// summary from the raw table. Any failure is fatal.
func (e *execution) persist(running *summary.Running, clean []project.CleanRow, raw []project.RawRow, remaining int) error {
	store := e.store

	if err := store.AppendProcessedFiles(e.res.Processed); err != nil {
		return err
	}
	if running.Count() > 0 {
		batchSummary, err := running.Finalize()
		if err != nil {
			return err
		}
		if err := store.AppendRunningSummary(batchSummary.Lines()); err != nil {
			return err
		}
		e.res.Running = &batchSummary
	} else if len(e.res.Batch) > 0 {
		logging.WarnWithContext(e.logger, "no file in the batch could be cataloged", "batch_failed",
			logging.Int("failed", len(e.res.Failed)),
			logging.String(logging.FieldImpact, "running summary not updated"),
		)
	}
	if err := store.AppendCleanRows(clean); err != nil {
		return err
	}
	if err := store.AppendRawRows(raw); err != nil {
		return err
	}

	rows, err := store.ReadRawRowsOrDefault(nil)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	full, err := summary.Full(rows)
	if err != nil {
		return err
	}
	lines := full.Lines()
	if err := store.OverwritePartialSummary(lines); err != nil {
		return err
	}
	if remaining-len(e.res.Processed) == 0 {
		if err := store.OverwriteFullSummary(lines); err != nil {
			return err
		}
	}
	e.res.Full = &full
	e.renderCharts()
	return nil
}

// renderCharts draws the monthly chart when enabled. Chart failures are
// logged, never fatal.
func (e *execution) renderCharts() {
	if !e.opts.Charts {
		return
	}
	chartPath := filepath.Join(e.store.Layout().OutDir, e.runner.cfg.Report.ChartFile)
	if _, err := report.Generate(e.store, report.Options{ChartPath: chartPath}); err != nil {
		logging.WarnWithContext(e.logger, "chart rendering failed", "chart_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "catalog data is saved; charts are stale"),
		)
		return
	}
	e.res.ChartPath = chartPath
}

// record stores the run in the project history. Failures are logged only.
func (r *Runner) record(ctx context.Context, logger *slog.Logger, res Result, start time.Time, runErr error) {
	entry := runlog.Run{
		ID:         res.RunID,
		Project:    res.Project,
		Status:     res.Status,
		StartedAt:  start,
		FinishedAt: start.Add(res.Timing.Total),
		BatchFiles: len(res.Batch),
		BatchBytes: inventory.TotalSize(res.Batch),
		Processed:  len(res.Processed),
		Failed:     len(res.Failed),
		Init:       res.Timing.Init,
		Steps:      res.Timing.StepsTotal(),
		Finalize:   res.Timing.Finalize,
	}
	if runErr != nil {
		entry.Error = runErr.Error()
	}

	history, err := runlog.Open(context.WithoutCancel(ctx), res.Layout.HistoryDB)
	if err != nil {
		logging.WarnWithContext(logger, "open run history", "history_unavailable",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run not recorded in history"),
		)
		return
	}
	defer history.Close()
	if _, err := history.Record(context.WithoutCancel(ctx), entry); err != nil {
		logging.WarnWithContext(logger, "record run history", "history_unavailable",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run not recorded in history"),
		)
	}
}

func selectFiles(all []inventory.File, paths []string) []inventory.File {
	byPath := make(map[string]inventory.File, len(all))
	for _, f := range all {
		byPath[f.Path] = f
	}
	out := make([]inventory.File, 0, len(paths))
	for _, p := range paths {
		if f, ok := byPath[p]; ok {
			out = append(out, f)
		}
	}
	return out
}

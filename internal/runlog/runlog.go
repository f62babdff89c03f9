package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Status is the outcome of one run.
type Status string

const (
	// StatusCompleted marks a run that probed a batch and persisted it.
	StatusCompleted Status = "completed"
	// StatusCaughtUp marks a run that found nothing left and only recomputed
	// the full summary.
	StatusCaughtUp Status = "caught_up"
	// StatusFailed marks a run that stopped on a fatal error.
	StatusFailed Status = "failed"
)

// Run is one recorded invocation.
type Run struct {
	ID         string
	Project    string
	Status     Status
	StartedAt  time.Time
	FinishedAt time.Time
	BatchFiles int
	BatchBytes int64
	Processed  int
	Failed     int
	Init       time.Duration
	Steps      time.Duration
	Finalize   time.Duration
	Error      string
}

// Total is the wall-clock length of the run.
func (r Run) Total() time.Duration { return r.FinishedAt.Sub(r.StartedAt) }

// NewID returns a fresh run identifier.
func NewID() string { return uuid.NewString() }

// Store persists runs.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to the history database at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the database. Closing twice is a no-op.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Record inserts run, assigning an ID when it has none. Recording the same ID
// twice replaces the earlier row.
func (s *Store) Record(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = NewID()
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO runs (
            id, project, status, started_at, finished_at,
            batch_files, batch_bytes, processed, failed,
            init_ms, steps_ms, finalize_ms, error_message
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Project,
		string(run.Status),
		run.StartedAt.UTC().Format(timeLayout),
		run.FinishedAt.UTC().Format(timeLayout),
		run.BatchFiles,
		run.BatchBytes,
		run.Processed,
		run.Failed,
		run.Init.Milliseconds(),
		run.Steps.Milliseconds(),
		run.Finalize.Milliseconds(),
		nullableString(run.Error),
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// List returns up to limit runs, newest first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, project, status, started_at, finished_at,
            batch_files, batch_bytes, processed, failed,
            init_ms, steps_ms, finalize_ms, error_message
        FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		run                       Run
		status, started, finished string
		initMS, stepsMS, finalMS  int64
		errMsg                    sql.NullString
	)
	if err := rows.Scan(&run.ID, &run.Project, &status, &started, &finished,
		&run.BatchFiles, &run.BatchBytes, &run.Processed, &run.Failed,
		&initMS, &stepsMS, &finalMS, &errMsg); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	var err error
	if run.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return Run{}, fmt.Errorf("parse started_at for %s: %w", run.ID, err)
	}
	if run.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
		return Run{}, fmt.Errorf("parse finished_at for %s: %w", run.ID, err)
	}
	run.Status = Status(status)
	run.Init = time.Duration(initMS) * time.Millisecond
	run.Steps = time.Duration(stepsMS) * time.Millisecond
	run.Finalize = time.Duration(finalMS) * time.Millisecond
	run.Error = errMsg.String
	return run, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

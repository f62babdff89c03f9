package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/eigenomarksamy/movie-analytics/internal/config"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig returns a default config whose cache lives in a per-test temp
// directory with charts off.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.Report.Charts = false

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	return builder.cfg
}

// WithBudget sets processing speed and execution time. The reserve is zeroed
// so the budget is exactly speed * exec GB.
func WithBudget(speedGBps, execSeconds float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Batch.ProcessingSpeedGBps = speedGBps
		b.cfg.Batch.ExecTimeSeconds = execSeconds
		b.cfg.Batch.ReserveSeconds = 0
	}
}

// WithStubbedBinaries writes stub executables for names and prepends their
// directory to PATH for the duration of the test. With no names, ffprobe is
// stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffprobe"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			if err := os.WriteFile(filepath.Join(binDir, name), script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// BaseDir returns the temp directory backing cfg.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.CacheDir)
}

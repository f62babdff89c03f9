package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	CacheDir string `toml:"cache_dir"`
}

// Batch contains the inputs for the per-run size budget.
type Batch struct {
	// ProcessingSpeedGBps is the expected probing throughput in GB per second.
	ProcessingSpeedGBps float64 `toml:"processing_speed_gbps"`
	// ExecTimeSeconds is the wall-clock allowance for one invocation.
	ExecTimeSeconds float64 `toml:"exec_time_seconds"`
	// ReserveSeconds is subtracted from the allowance for setup and persistence.
	ReserveSeconds float64 `toml:"reserve_seconds"`
	// SecondsPerFileEstimate drives the "expected time" hints in the plan table.
	SecondsPerFileEstimate float64 `toml:"seconds_per_file_estimate"`
}

// Probe contains metadata extraction settings.
type Probe struct {
	FFprobeBinary       string   `toml:"ffprobe_binary"`
	Encodings           []string `toml:"encodings"`
	EncodingSampleBytes int64    `toml:"encoding_sample_bytes"`
}

// Report contains reporting configuration.
type Report struct {
	Charts    bool   `toml:"charts"`
	ChartFile string `toml:"chart_file"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   bool   `toml:"file"`
}

// Config encapsulates all configuration values for movie-analytics.
//
// Configuration sections by subsystem:
//   - Paths: where project caches live
//   - Batch: processing speed and execution allowance for the size budget
//   - Probe: ffprobe binary and candidate text encodings
//   - Report: monthly chart output
//   - Logging: log format, level, and optional file sink
type Config struct {
	Paths   Paths   `toml:"paths"`
	Batch   Batch   `toml:"batch"`
	Probe   Probe   `toml:"probe"`
	Report  Report  `toml:"report"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/movie-analytics/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("movie-analytics.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the cache root.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.CacheDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.CacheDir, err)
	}
	return nil
}

// BudgetGB returns the size budget for one batch in binary gigabytes:
// processing speed multiplied by the usable execution time. The result is not
// checked for plausibility and may be zero or negative.
func (c *Config) BudgetGB() float64 {
	return c.Batch.ProcessingSpeedGBps * (c.Batch.ExecTimeSeconds - c.Batch.ReserveSeconds)
}

// LogPath returns the optional log file location under the cache root.
func (c *Config) LogPath() string {
	if !c.Logging.File {
		return ""
	}
	return filepath.Join(c.Paths.CacheDir, "movie-analytics.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

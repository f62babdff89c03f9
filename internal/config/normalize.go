package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeBatch()
	c.normalizeProbe()
	c.normalizeReport()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(strings.TrimSpace(c.Paths.CacheDir)); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeBatch() {
	if c.Batch.SecondsPerFileEstimate <= 0 {
		c.Batch.SecondsPerFileEstimate = defaultSecondsPerFileEstimate
	}
}

func (c *Config) normalizeProbe() {
	c.Probe.FFprobeBinary = strings.TrimSpace(c.Probe.FFprobeBinary)
	if c.Probe.FFprobeBinary == "" {
		c.Probe.FFprobeBinary = defaultFFprobeBinary
	}
	encodings := make([]string, 0, len(c.Probe.Encodings))
	seen := make(map[string]struct{}, len(c.Probe.Encodings))
	for _, name := range c.Probe.Encodings {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		encodings = append(encodings, normalized)
	}
	if len(encodings) == 0 {
		encodings = append(encodings, defaultEncodings...)
	}
	c.Probe.Encodings = encodings
	if c.Probe.EncodingSampleBytes < 0 {
		c.Probe.EncodingSampleBytes = 0
	}
}

func (c *Config) normalizeReport() {
	c.Report.ChartFile = strings.TrimSpace(c.Report.ChartFile)
	if c.Report.ChartFile == "" {
		c.Report.ChartFile = defaultChartFile
	}
	c.Report.ChartFile = filepath.Base(c.Report.ChartFile)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

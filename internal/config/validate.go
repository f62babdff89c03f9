package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/eigenomarksamy/movie-analytics/internal/probe"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validateProbe(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateProbe() error {
	if err := probe.ValidateEncodings(c.Probe.Encodings); err != nil {
		return fmt.Errorf("probe.encodings: %w", err)
	}
	return nil
}

func (c *Config) validateBatch() error {
	for name, value := range map[string]float64{
		"batch.processing_speed_gbps": c.Batch.ProcessingSpeedGBps,
		"batch.exec_time_seconds":     c.Batch.ExecTimeSeconds,
		"batch.reserve_seconds":       c.Batch.ReserveSeconds,
	} {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("%s must be a finite number", name)
		}
	}
	if c.Batch.ProcessingSpeedGBps <= 0 {
		return errors.New("batch.processing_speed_gbps must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

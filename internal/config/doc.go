// Package config loads, normalizes, and validates movie-analytics configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes the batch
// budget inputs (processing speed and execution-time allowance), probe
// settings, reporting switches, and logging knobs so the CLI resolves every
// setting in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

package pipeline

import (
	"context"
	"errors"
	"fmt"
)

// ConfigError reports unusable run options.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ErrorKind classifies the error for exit reporting.
func (e *ConfigError) ErrorKind() string { return "configuration" }

// Kind classifies err as storage, encoding, probe, configuration, canceled,
// or internal.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	var kinded interface{ ErrorKind() string }
	if errors.As(err, &kinded) {
		return kinded.ErrorKind()
	}
	return "internal"
}

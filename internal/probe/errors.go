package probe

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound reports a probed path that does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrNoVideo reports a decoder result without usable dimensions.
	ErrNoVideo = errors.New("no video dimensions")
	// ErrBadDuration reports a negative or non-finite duration.
	ErrBadDuration = errors.New("invalid duration")
)

// EncodingError reports that no candidate encoding could decode a file.
type EncodingError struct {
	Path  string
	Tried []string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("no viable encoding for %s (tried %s)", e.Path, strings.Join(e.Tried, ", "))
}

// ErrorKind classifies the error for exit reporting.
func (e *EncodingError) ErrorKind() string { return "encoding" }

// Error reports a failed probe of one file.
type Error struct {
	Path  string
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("probe %s: %s: %v", e.Path, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorKind returns the wrapped error's kind when it has one, else "probe".
func (e *Error) ErrorKind() string {
	var kinded interface{ ErrorKind() string }
	if errors.As(e.Err, &kinded) {
		return kinded.ErrorKind()
	}
	return "probe"
}

package project

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a read of an artifact that does not exist yet.
	ErrNotFound = errors.New("artifact not found")
	// ErrSchemaDrift reports CSV rows whose fields differ from the existing header.
	ErrSchemaDrift = errors.New("csv header mismatch")
	// ErrMalformedRow reports a CSV row that cannot be parsed into its record type.
	ErrMalformedRow = errors.New("malformed csv row")
	// ErrLocked reports that another process holds the project lock.
	ErrLocked = errors.New("project is locked by another process")
)

// StorageError wraps any failure touching a persisted artifact.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ErrorKind classifies the error for exit reporting.
func (e *StorageError) ErrorKind() string { return "storage" }

func storageErr(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Path: path, Err: err}
}

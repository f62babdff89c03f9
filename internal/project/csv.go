package project

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
)

// upsertCSV appends records to path. A new file gets header first; an
// existing file must already carry exactly header.
func upsertCSV(path string, header []string, records [][]string) error {
	if len(records) == 0 {
		return nil
	}

	existing, err := readHeader(path)
	writeHeader := false
	switch {
	case errors.Is(err, ErrNotFound):
		writeHeader = true
	case err != nil:
		return err
	case !slices.Equal(existing, header):
		return storageErr("append csv", path, fmt.Errorf("%w: have %q, writing %q", ErrSchemaDrift, existing, header))
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return storageErr("append csv", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if writeHeader {
		if err := w.Write(header); err != nil {
			return storageErr("append csv", path, err)
		}
	}
	if err := w.WriteAll(records); err != nil {
		return storageErr("append csv", path, err)
	}
	return storageErr("append csv", path, file.Close())
}

func readHeader(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, storageErr("read csv", path, ErrNotFound)
		}
		return nil, storageErr("read csv", path, err)
	}
	defer file.Close()

	header, err := csv.NewReader(file).Read()
	if errors.Is(err, io.EOF) {
		return nil, storageErr("read csv", path, ErrNotFound)
	}
	if err != nil {
		return nil, storageErr("read csv", path, err)
	}
	return header, nil
}

func readCSV[T any](path string, header []string, parse func([]string) (T, error)) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, storageErr("read csv", path, ErrNotFound)
		}
		return nil, storageErr("read csv", path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	got, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []T{}, nil
	}
	if err != nil {
		return nil, storageErr("read csv", path, fmt.Errorf("%w: %v", ErrMalformedRow, err))
	}
	if !slices.Equal(got, header) {
		return nil, storageErr("read csv", path, fmt.Errorf("%w: have %q, want %q", ErrSchemaDrift, got, header))
	}

	var rows []T
	for line := 2; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, storageErr("read csv", path, fmt.Errorf("%w: %v", ErrMalformedRow, err))
		}
		row, err := parse(record)
		if err != nil {
			return nil, storageErr("read csv", path, fmt.Errorf("line %d: %w", line, err))
		}
		rows = append(rows, row)
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

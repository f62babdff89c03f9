package project

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/gofrs/flock"
)

// Store reads and writes the artifacts of one project.
type Store struct {
	layout  Layout
	existed bool
	lock    *flock.Flock
}

// Open creates the project directories when absent and returns a Store.
func Open(layout Layout) (*Store, error) {
	_, err := os.Stat(layout.Root)
	existed := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, storageErr("stat project", layout.Root, err)
	}
	for _, dir := range layout.directories() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, storageErr("create directory", dir, err)
		}
	}
	return &Store{layout: layout, existed: existed, lock: flock.New(layout.LockFile)}, nil
}

// Layout returns the resolved artifact paths.
func (s *Store) Layout() Layout { return s.layout }

// Existed reports whether the project directory was present before Open.
func (s *Store) Existed() bool { return s.existed }

// Lock takes the advisory single-writer lock for the project directory.
func (s *Store) Lock() error {
	ok, err := s.lock.TryLock()
	if err != nil {
		return storageErr("lock", s.layout.LockFile, err)
	}
	if !ok {
		return storageErr("lock", s.layout.LockFile, ErrLocked)
	}
	return nil
}

// Unlock releases the project lock if held.
func (s *Store) Unlock() error {
	if !s.lock.Locked() {
		return nil
	}
	return storageErr("unlock", s.layout.LockFile, s.lock.Unlock())
}

// WriteFullFilesList replaces the full file list, one path per line.
func (s *Store) WriteFullFilesList(files []string) error {
	return writeLines(s.layout.FullFilesList, files, false)
}

// ReadFullFilesList returns the recorded full file list.
func (s *Store) ReadFullFilesList() ([]string, error) {
	return readLines(s.layout.FullFilesList)
}

// AppendProcessedFiles appends to the processed list. Entries are never
// rewritten or deduplicated here.
func (s *Store) AppendProcessedFiles(files []string) error {
	return writeLines(s.layout.ProcessedFiles, files, true)
}

// ReadProcessedFiles returns the processed list.
func (s *Store) ReadProcessedFiles() ([]string, error) {
	return readLines(s.layout.ProcessedFiles)
}

// AppendRunningSummary appends one run's summary block to the running log.
func (s *Store) AppendRunningSummary(lines []string) error {
	return writeLines(s.layout.RunningSummary, lines, true)
}

// ReadRunningSummary returns the running summary log.
func (s *Store) ReadRunningSummary() ([]string, error) {
	return readLines(s.layout.RunningSummary)
}

// OverwriteFullSummary replaces the full summary with the latest recomputation.
func (s *Store) OverwriteFullSummary(lines []string) error {
	return writeLines(s.layout.FullSummary, lines, false)
}

// ReadFullSummary returns the latest full summary.
func (s *Store) ReadFullSummary() ([]string, error) {
	return readLines(s.layout.FullSummary)
}

// OverwritePartialSummary replaces the summary recomputed after a batch while
// files still remain.
func (s *Store) OverwritePartialSummary(lines []string) error {
	return writeLines(s.layout.PartialSummary, lines, false)
}

// ReadPartialSummary returns the latest partial summary.
func (s *Store) ReadPartialSummary() ([]string, error) {
	return readLines(s.layout.PartialSummary)
}

// WriteDestination records the directory the project catalogs.
func (s *Store) WriteDestination(dir string) error {
	return writeLines(s.layout.Destination, []string{dir}, false)
}

// ReadDestination returns the recorded destination directory.
func (s *Store) ReadDestination() (string, error) {
	lines, err := readLines(s.layout.Destination)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", storageErr("read", s.layout.Destination, ErrMalformedRow)
	}
	return lines[0], nil
}

// AppendCleanRows appends rows to files.csv, writing the header first when
// the file is new.
func (s *Store) AppendCleanRows(rows []CleanRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record())
	}
	return upsertCSV(s.layout.CleanCSV, cleanHeader, records)
}

// AppendRawRows appends rows to files_raw.csv, writing the header first when
// the file is new.
func (s *Store) AppendRawRows(rows []RawRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record())
	}
	return upsertCSV(s.layout.RawCSV, rawHeader, records)
}

// ReadCleanRows parses files.csv.
func (s *Store) ReadCleanRows() ([]CleanRow, error) {
	return readCSV(s.layout.CleanCSV, cleanHeader, parseCleanRecord)
}

// ReadRawRows parses files_raw.csv.
func (s *Store) ReadRawRows() ([]RawRow, error) {
	return readCSV(s.layout.RawCSV, rawHeader, parseRawRecord)
}

// ReadRawRowsOrDefault returns def when the raw table does not exist yet.
func (s *Store) ReadRawRowsOrDefault(def []RawRow) ([]RawRow, error) {
	rows, err := s.ReadRawRows()
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	return rows, err
}

// ReadLinesOrDefault reads any line-oriented artifact, returning def when it
// does not exist.
func ReadLinesOrDefault(path string, def []string) ([]string, error) {
	lines, err := readLines(path)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	return lines, err
}

func writeLines(path string, lines []string, appendMode bool) error {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	op := "write"
	if appendMode {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
		op = "append"
	}
	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return storageErr(op, path, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			return storageErr(op, path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return storageErr(op, path, err)
	}
	return storageErr(op, path, file.Close())
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, storageErr("read", path, ErrNotFound)
		}
		return nil, storageErr("read", path, err)
	}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" && len(data) <= 1 {
		return []string{}, nil
	}
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	return slices.Clip(lines), nil
}

package inventory

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/eigenomarksamy/movie-analytics/internal/project"
)

// ErrNoDirectory reports a destination that is missing or not a directory.
var ErrNoDirectory = errors.New("directory does not exist")

// DirectoryError reports an unusable destination directory.
type DirectoryError struct {
	Dir string
	Err error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("inventory %s: %v", e.Dir, e.Err)
}

func (e *DirectoryError) Unwrap() error { return e.Err }

// ErrorKind classifies the error for exit reporting.
func (e *DirectoryError) ErrorKind() string { return "configuration" }

// File is a candidate file with its size in bytes.
type File struct {
	Path string
	Size int64
}

// Recorder persists the full file list.
type Recorder interface {
	WriteFullFilesList(files []string) error
}

// ListFiles returns the immediate non-directory entries of dir as full paths,
// ordered by name, and records them through rec. Every call overwrites the
// recorded list.
func ListFiles(dir string, rec Recorder) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &DirectoryError{Dir: dir, Err: ErrNoDirectory}
		}
		return nil, &DirectoryError{Dir: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &DirectoryError{Dir: dir, Err: ErrNoDirectory}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &DirectoryError{Dir: dir, Err: err}
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}

	if rec != nil {
		if err := rec.WriteFullFilesList(files); err != nil {
			return nil, err
		}
	}
	return files, nil
}

// RemainingFiles returns the entries of all whose path does not match a file
// already recorded in rows. Recorded names are joined onto dir and both sides
// are compared after filepath.Clean; the order of all is preserved.
func RemainingFiles(all []string, rows []project.RawRow, dir string) []string {
	processed := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		processed[filepath.Clean(filepath.Join(dir, row.File))] = struct{}{}
	}
	remaining := make([]string, 0, len(all))
	for _, path := range all {
		if _, done := processed[filepath.Clean(path)]; done {
			continue
		}
		remaining = append(remaining, path)
	}
	return remaining
}

// Sizes stats every path.
func Sizes(paths []string) ([]File, error) {
	files := make([]File, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		files = append(files, File{Path: path, Size: info.Size()})
	}
	return files, nil
}

// TotalSize sums file sizes in bytes.
func TotalSize(files []File) int64 {
	var total int64
	for _, f := range files {
		total += f.Size
	}
	return total
}

// Paths returns the paths of files in order.
func Paths(files []File) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}

package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"
)

const maxLineBytes = 1024 * 1024

// ErrNoLogFile is returned when file logging is disabled or nothing has been
// written yet.
var ErrNoLogFile = errors.New("no log file")

// Last returns up to n trailing lines of path and the offset just past them.
// n <= 0 returns no lines and the end offset.
func Last(path string, n int) ([]string, int64, error) {
	f, err := open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	var ring []string
	next := 0
	if n > 0 {
		ring = make([]string, 0, n)
	}
	sc := newScanner(f)
	for sc.Scan() {
		if n <= 0 {
			continue
		}
		if len(ring) < n {
			ring = append(ring, sc.Text())
			continue
		}
		ring[next] = sc.Text()
		next = (next + 1) % n
	}
	if err := sc.Err(); err != nil {
		return nil, 0, fmt.Errorf("read log %s: %w", path, err)
	}
	end, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, 0, fmt.Errorf("seek log %s: %w", path, err)
	}
	lines := make([]string, 0, len(ring))
	lines = append(lines, ring[next:]...)
	lines = append(lines, ring[:next]...)
	return lines, end, nil
}

// ReadFrom returns the complete lines written after offset and the new
// offset. A partial trailing line is left for the next call. An offset past
// the end, as after truncation, restarts from zero.
func ReadFrom(path string, offset int64) ([]string, int64, error) {
	f, err := open(path)
	if err != nil {
		return nil, offset, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, offset, fmt.Errorf("stat log %s: %w", path, err)
	}
	if offset < 0 || offset > info.Size() {
		offset = 0
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, fmt.Errorf("seek log %s: %w", path, err)
	}

	r := bufio.NewReader(f)
	var lines []string
	for {
		line, err := r.ReadString('\n')
		if err == io.EOF {
			break
		}
		if err != nil {
			return lines, offset, fmt.Errorf("read log %s: %w", path, err)
		}
		offset += int64(len(line))
		lines = append(lines, line[:len(line)-1])
	}
	return lines, offset, nil
}

// Follow polls path every interval and hands each new line to emit until ctx
// is done. It returns nil on cancellation.
func Follow(ctx context.Context, path string, offset int64, interval time.Duration, emit func(string)) error {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		lines, next, err := ReadFrom(path, offset)
		if err != nil && !errors.Is(err, ErrNoLogFile) {
			return err
		}
		offset = next
		for _, line := range lines {
			emit(line)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func open(path string) (*os.File, error) {
	if path == "" {
		return nil, ErrNoLogFile
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrNoLogFile)
	}
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", path, err)
	}
	if info, err := f.Stat(); err == nil && info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("log path %s is a directory", path)
	}
	return f, nil
}

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return sc
}

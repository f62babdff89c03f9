package logs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/eigenomarksamy/movie-analytics/internal/logs"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movie-analytics.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestLast(t *testing.T) {
	path := writeLog(t, "a\nb\nc\nd\n")
	cases := []struct {
		n    int
		want []string
	}{
		{n: 2, want: []string{"c", "d"}},
		{n: 3, want: []string{"b", "c", "d"}},
		{n: 10, want: []string{"a", "b", "c", "d"}},
		{n: 0, want: nil},
	}
	for _, tc := range cases {
		lines, offset, err := logs.Last(path, tc.n)
		if err != nil {
			t.Fatalf("Last(%d): %v", tc.n, err)
		}
		if offset != 8 {
			t.Fatalf("Last(%d) offset = %d, want 8", tc.n, offset)
		}
		if len(lines) != len(tc.want) {
			t.Fatalf("Last(%d) = %#v, want %#v", tc.n, lines, tc.want)
		}
		for i := range lines {
			if lines[i] != tc.want[i] {
				t.Fatalf("Last(%d) = %#v, want %#v", tc.n, lines, tc.want)
			}
		}
	}
}

func TestLastMissingFile(t *testing.T) {
	_, _, err := logs.Last(filepath.Join(t.TempDir(), "absent.log"), 5)
	if !errors.Is(err, logs.ErrNoLogFile) {
		t.Fatalf("expected ErrNoLogFile, got %v", err)
	}
	if _, _, err := logs.Last("", 5); !errors.Is(err, logs.ErrNoLogFile) {
		t.Fatalf("expected ErrNoLogFile for empty path, got %v", err)
	}
}

func TestReadFromKeepsPartialLine(t *testing.T) {
	path := writeLog(t, "one\ntw")
	lines, offset, err := logs.ReadFrom(path, 0)
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if len(lines) != 1 || lines[0] != "one" || offset != 4 {
		t.Fatalf("lines=%#v offset=%d", lines, offset)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	if _, err := f.WriteString("o\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = f.Close()

	lines, offset, err = logs.ReadFrom(path, offset)
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if len(lines) != 1 || lines[0] != "two" || offset != 8 {
		t.Fatalf("lines=%#v offset=%d", lines, offset)
	}

	lines, _, err = logs.ReadFrom(path, 1000)
	if err != nil {
		t.Fatalf("ReadFrom past end: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected restart from zero after truncation, got %#v", lines)
	}
}

func TestFollowEmitsAppendedLines(t *testing.T) {
	path := writeLog(t, "start\n")
	_, offset, err := logs.Last(path, 1)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu  sync.Mutex
		got []string
	)
	done := make(chan error, 1)
	go func() {
		done <- logs.Follow(ctx, path, offset, 20*time.Millisecond, func(line string) {
			mu.Lock()
			got = append(got, line)
			mu.Unlock()
			cancel()
		})
	}()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	if _, err := f.WriteString("later\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = f.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Follow: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Follow did not return")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != "later" {
		t.Fatalf("followed lines = %#v", got)
	}
}

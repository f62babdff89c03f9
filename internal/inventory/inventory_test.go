package inventory_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/eigenomarksamy/movie-analytics/internal/inventory"
	"github.com/eigenomarksamy/movie-analytics/internal/project"
	"github.com/eigenomarksamy/movie-analytics/internal/testsupport"
)

type recorder struct {
	calls [][]string
}

func (r *recorder) WriteFullFilesList(files []string) error {
	r.calls = append(r.calls, slices.Clone(files))
	return nil
}

func TestListFilesReturnsSortedEntriesAndRecords(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "b.mp4"), 10)
	testsupport.WriteFile(t, filepath.Join(dir, "a.mp4"), 20)
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	rec := &recorder{}
	files, err := inventory.ListFiles(dir, rec)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	want := []string{filepath.Join(dir, "a.mp4"), filepath.Join(dir, "b.mp4")}
	if !slices.Equal(files, want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	if len(rec.calls) != 1 || !slices.Equal(rec.calls[0], want) {
		t.Fatalf("recorded %v, want one call with %v", rec.calls, want)
	}
}

func TestListFilesRejectsMissingOrFileDestination(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.mp4")
	testsupport.WriteFile(t, plain, 1)

	for _, target := range []string{filepath.Join(dir, "missing"), plain} {
		_, err := inventory.ListFiles(target, nil)
		if !errors.Is(err, inventory.ErrNoDirectory) {
			t.Fatalf("ListFiles(%s) error = %v, want ErrNoDirectory", target, err)
		}
		var dirErr *inventory.DirectoryError
		if !errors.As(err, &dirErr) || dirErr.ErrorKind() != "configuration" {
			t.Fatalf("expected configuration DirectoryError, got %#v", err)
		}
	}
}

func TestRemainingFilesPreservesOrder(t *testing.T) {
	dir := "/videos"
	all := []string{"/videos/c.mp4", "/videos/a.mp4", "/videos/b.mp4", "/videos/d.mp4"}
	rows := []project.RawRow{{File: "a.mp4"}, {File: "d.mp4"}, {File: "gone.mp4"}}

	got := inventory.RemainingFiles(all, rows, dir)
	want := []string{"/videos/c.mp4", "/videos/b.mp4"}
	if !slices.Equal(got, want) {
		t.Fatalf("remaining = %v, want %v", got, want)
	}
}

func TestRemainingFilesNormalizesTrailingSeparator(t *testing.T) {
	all := []string{"/videos//a.mp4", "/videos/b.mp4"}
	rows := []project.RawRow{{File: "a.mp4"}}

	got := inventory.RemainingFiles(all, rows, "/videos/")
	if !slices.Equal(got, []string{"/videos/b.mp4"}) {
		t.Fatalf("remaining = %v", got)
	}
}

func TestRemainingFilesEmptyWhenAllRecorded(t *testing.T) {
	all := []string{"/v/a", "/v/b"}
	rows := []project.RawRow{{File: "b"}, {File: "a"}}
	if got := inventory.RemainingFiles(all, rows, "/v"); len(got) != 0 {
		t.Fatalf("expected no remaining files, got %v", got)
	}
}

func TestSizesAndTotal(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	testsupport.WriteFile(t, a, 100)
	testsupport.WriteFile(t, b, 23)

	files, err := inventory.Sizes([]string{a, b})
	if err != nil {
		t.Fatalf("Sizes: %v", err)
	}
	if files[0].Size != 100 || files[1].Size != 23 {
		t.Fatalf("unexpected sizes %+v", files)
	}
	if total := inventory.TotalSize(files); total != 123 {
		t.Fatalf("total = %d, want 123", total)
	}
	if _, err := inventory.Sizes([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Fatal("expected error for missing file")
	}
}

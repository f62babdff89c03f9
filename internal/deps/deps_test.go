package deps_test

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/eigenomarksamy/movie-analytics/internal/deps"
	"github.com/eigenomarksamy/movie-analytics/internal/testsupport"
)

func TestCheckBinaries(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub binaries are shell scripts")
	}
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries("ffprobe"))

	results := deps.CheckBinaries(append(deps.Requirements(cfg),
		deps.Requirement{Name: "Missing", Command: "clearly-not-present-binary"},
		deps.Requirement{Name: "Blank", Command: "  ", Optional: true},
	))
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	probe := results[0]
	if !probe.Available || probe.Detail != "" {
		t.Fatalf("expected stubbed ffprobe to resolve, got %#v", probe)
	}
	if want := filepath.Join(testsupport.BaseDir(cfg), "bin", "ffprobe"); probe.Resolved != want {
		t.Fatalf("resolved = %q, want %q", probe.Resolved, want)
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("blank command detail = %q", results[2].Detail)
	}

	err := deps.Require(results)
	if err == nil || !strings.Contains(err.Error(), "Missing") || strings.Contains(err.Error(), "Blank") {
		t.Fatalf("Require error = %v, want only the required missing binary", err)
	}
	if err := deps.Require(results[:1]); err != nil {
		t.Fatalf("Require with ffprobe only: %v", err)
	}
}

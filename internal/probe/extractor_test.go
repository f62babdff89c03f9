package probe_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/eigenomarksamy/movie-analytics/internal/probe"
	"github.com/eigenomarksamy/movie-analytics/internal/testsupport"
)

func newExtractor(dec probe.Decoder) *probe.Extractor {
	return probe.NewExtractor(dec, []string{"utf-8", "latin-1"}, 4096)
}

func TestProbeCollectsMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movie.mp4")
	testsupport.WriteFile(t, path, 3*1024*1024)
	dec := testsupport.NewFakeDecoder(map[string]testsupport.FakeMedia{
		"movie.mp4": {Duration: 5400, Width: 3840, Height: 2160},
	})

	before := time.Now().Add(-time.Minute)
	md, err := newExtractor(dec).Probe(context.Background(), path)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if md.Encoding != "utf-8" || md.SizeBytes != 3*1024*1024 {
		t.Fatalf("unexpected metadata %+v", md)
	}
	if md.DurationSeconds != 5400 || md.Width != 3840 || md.Height != 2160 {
		t.Fatalf("unexpected media fields %+v", md)
	}
	if md.Created.Before(before) {
		t.Fatalf("created %v predates the file", md.Created)
	}
	if md.Elapsed < 0 {
		t.Fatalf("negative elapsed %v", md.Elapsed)
	}
	if dec.Closed() != 1 {
		t.Fatalf("closed sessions = %d, want 1", dec.Closed())
	}

	raw := md.Raw("movie.mp4")
	if raw.SizeMB != 3 || raw.DurationMins != 90 || raw.ResolutionHeight != 2160 {
		t.Fatalf("unexpected raw row %+v", raw)
	}
	clean := md.Clean("movie.mp4")
	if clean.Size != "3.00 MB" || clean.Duration != "01:30:00" || clean.Resolution != "3840x2160" {
		t.Fatalf("unexpected clean row %+v", clean)
	}
	if !raw.Created.Equal(clean.Created) || raw.ProcessingTime != clean.ProcessingTime {
		t.Fatal("raw and clean rows disagree on shared fields")
	}
}

func TestProbeFailures(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"open.mp4", "panic.mp4", "audio.mp4", "negative.mp4"} {
		testsupport.WriteFile(t, filepath.Join(dir, name), 16)
	}
	openErr := errors.New("moov atom not found")
	dec := testsupport.NewFakeDecoder(map[string]testsupport.FakeMedia{
		"open.mp4":     {OpenErr: openErr},
		"panic.mp4":    {Panic: true, Width: 1, Height: 1},
		"audio.mp4":    {Duration: 10},
		"negative.mp4": {Duration: -1, Width: 1, Height: 1},
	})
	extractor := newExtractor(dec)

	tests := []struct {
		name  string
		stage string
		is    error
	}{
		{name: "open.mp4", stage: "decode", is: openErr},
		{name: "panic.mp4", stage: "decode"},
		{name: "audio.mp4", stage: "dimensions", is: probe.ErrNoVideo},
		{name: "negative.mp4", stage: "duration", is: probe.ErrBadDuration},
		{name: "missing.mp4", stage: "stat", is: probe.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractor.Probe(context.Background(), filepath.Join(dir, tt.name))
			var probeErr *probe.Error
			if !errors.As(err, &probeErr) {
				t.Fatalf("expected probe.Error, got %v", err)
			}
			if probeErr.Stage != tt.stage {
				t.Fatalf("stage = %q, want %q", probeErr.Stage, tt.stage)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Fatalf("error %v does not wrap %v", err, tt.is)
			}
			if probeErr.ErrorKind() != "probe" {
				t.Fatalf("kind = %q", probeErr.ErrorKind())
			}
		})
	}

	// Every opened session was released, including the one that panicked.
	if opened, closed := len(dec.Opened()), dec.Closed(); opened != 3 || closed != 3 {
		t.Fatalf("opened %d closed %d, want 3 and 3", opened, closed)
	}
}

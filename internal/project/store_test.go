package project_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/eigenomarksamy/movie-analytics/internal/project"
)

func openStore(t *testing.T) *project.Store {
	t.Helper()
	layout, err := project.NewLayout(t.TempDir(), "movies", project.Overrides{})
	if err != nil {
		t.Fatalf("NewLayout failed: %v", err)
	}
	store, err := project.Open(layout)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return store
}

func TestLayoutDefaultsAndOverrides(t *testing.T) {
	cache := t.TempDir()
	layout, err := project.NewLayout(cache, "movies", project.Overrides{RawCSV: filepath.Join(cache, "elsewhere", "raw.csv")})
	if err != nil {
		t.Fatalf("NewLayout failed: %v", err)
	}
	checks := map[string]string{
		layout.CleanCSV:       filepath.Join(cache, "movies", "out", "files.csv"),
		layout.RunningSummary: filepath.Join(cache, "movies", "out", "summary.txt"),
		layout.FullSummary:    filepath.Join(cache, "movies", "out", "full_summary.txt"),
		layout.PartialSummary: filepath.Join(cache, "movies", "out", "partial_summary.txt"),
		layout.FullFilesList:  filepath.Join(cache, "movies", "working_file_lists", "full_file_list.txt"),
		layout.ProcessedFiles: filepath.Join(cache, "movies", "working_file_lists", "processed_file_list.txt"),
		layout.Destination:    filepath.Join(cache, "movies", "destination.txt"),
		layout.RawCSV:         filepath.Join(cache, "elsewhere", "raw.csv"),
	}
	for got, want := range checks {
		if got != want {
			t.Fatalf("unexpected path: got %q want %q", got, want)
		}
	}

	store, err := project.Open(layout)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if store.Existed() {
		t.Fatal("expected fresh project")
	}
	if info, err := os.Stat(filepath.Join(cache, "elsewhere")); err != nil || !info.IsDir() {
		t.Fatalf("expected override parent directory to be created: %v", err)
	}
	again, err := project.Open(layout)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if !again.Existed() {
		t.Fatal("expected existing project on reopen")
	}
}

func TestNewLayoutRejectsBadNames(t *testing.T) {
	for _, name := range []string{"", "  ", "a/b", "..", "."} {
		if _, err := project.NewLayout(t.TempDir(), name, project.Overrides{}); err == nil {
			t.Fatalf("expected error for name %q", name)
		}
	}
}

func TestNameFromDir(t *testing.T) {
	cases := map[string]string{
		"/data/videos":  "_data_videos",
		"/data/videos/": "_data_videos",
		"videos":        "videos",
	}
	for in, want := range cases {
		if got := project.NameFromDir(in); got != want {
			t.Fatalf("NameFromDir(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestListsOverwriteVersusAppend(t *testing.T) {
	store := openStore(t)

	if err := store.WriteFullFilesList([]string{"/v/a.mp4", "/v/b.mp4"}); err != nil {
		t.Fatalf("WriteFullFilesList failed: %v", err)
	}
	if err := store.WriteFullFilesList([]string{"/v/c.mp4"}); err != nil {
		t.Fatalf("WriteFullFilesList failed: %v", err)
	}
	full, err := store.ReadFullFilesList()
	if err != nil || strings.Join(full, ",") != "/v/c.mp4" {
		t.Fatalf("expected overwrite, got %v (err=%v)", full, err)
	}

	for _, batch := range [][]string{{"/v/a.mp4"}, {"/v/a.mp4", "/v/b.mp4"}} {
		if err := store.AppendProcessedFiles(batch); err != nil {
			t.Fatalf("AppendProcessedFiles failed: %v", err)
		}
	}
	processed, err := store.ReadProcessedFiles()
	if err != nil || strings.Join(processed, ",") != "/v/a.mp4,/v/a.mp4,/v/b.mp4" {
		t.Fatalf("expected append without dedup, got %v (err=%v)", processed, err)
	}
}

func TestSummariesAppendVersusOverwrite(t *testing.T) {
	store := openStore(t)

	for _, block := range [][]string{{"run 1"}, {"run 2"}} {
		if err := store.AppendRunningSummary(block); err != nil {
			t.Fatalf("AppendRunningSummary failed: %v", err)
		}
		if err := store.OverwriteFullSummary(block); err != nil {
			t.Fatalf("OverwriteFullSummary failed: %v", err)
		}
	}
	running, _ := store.ReadRunningSummary()
	full, _ := store.ReadFullSummary()
	if strings.Join(running, "|") != "run 1|run 2" {
		t.Fatalf("unexpected running summary: %v", running)
	}
	if strings.Join(full, "|") != "run 2" {
		t.Fatalf("unexpected full summary: %v", full)
	}
}

func TestReadMissingArtifactIsDistinguishable(t *testing.T) {
	store := openStore(t)

	_, err := store.ReadRawRows()
	if !errors.Is(err, project.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var storageErr *project.StorageError
	if !errors.As(err, &storageErr) || storageErr.ErrorKind() != "storage" {
		t.Fatalf("expected StorageError, got %T", err)
	}
	if _, err := store.ReadDestination(); !errors.Is(err, project.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for destination, got %v", err)
	}

	rows, err := store.ReadRawRowsOrDefault(nil)
	if err != nil || rows != nil {
		t.Fatalf("expected default rows, got %v (err=%v)", rows, err)
	}
	lines, err := project.ReadLinesOrDefault(store.Layout().FullSummary, []string{"none"})
	if err != nil || len(lines) != 1 || lines[0] != "none" {
		t.Fatalf("expected default lines, got %v (err=%v)", lines, err)
	}
}

func TestRawRowRoundTrip(t *testing.T) {
	store := openStore(t)
	created := time.Date(2023, 4, 5, 6, 7, 8, 123456000, time.Local)
	rows := []project.RawRow{
		{File: "trip, part 1.mp4", Encoding: "latin-1", SizeMB: 1234.5678, DurationMins: 42.123456789, Created: created, ResolutionHeight: 1080, ProcessingTime: 0.25},
		{File: "b.mkv", Encoding: "utf-8", SizeMB: 1.0 / 3.0, DurationMins: 0.1, Created: created.Add(time.Hour), ResolutionHeight: 720, ProcessingTime: 1e-7},
	}
	if err := store.AppendRawRows(rows[:1]); err != nil {
		t.Fatalf("AppendRawRows failed: %v", err)
	}
	if err := store.AppendRawRows(rows[1:]); err != nil {
		t.Fatalf("AppendRawRows failed: %v", err)
	}

	got, err := store.ReadRawRows()
	if err != nil {
		t.Fatalf("ReadRawRows failed: %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), len(got))
	}
	for i := range rows {
		want := rows[i]
		if got[i].File != want.File || got[i].Encoding != want.Encoding || got[i].ResolutionHeight != want.ResolutionHeight {
			t.Fatalf("row %d mismatch: got %#v want %#v", i, got[i], want)
		}
		for _, pair := range [][2]float64{
			{got[i].SizeMB, want.SizeMB},
			{got[i].DurationMins, want.DurationMins},
			{got[i].ProcessingTime, want.ProcessingTime},
		} {
			if math.Abs(pair[0]-pair[1]) > 1e-12 {
				t.Fatalf("row %d numeric mismatch: %v vs %v", i, pair[0], pair[1])
			}
		}
		if !got[i].Created.Equal(want.Created) {
			t.Fatalf("row %d created mismatch: %v vs %v", i, got[i].Created, want.Created)
		}
	}

	data, err := os.ReadFile(store.Layout().RawCSV)
	if err != nil {
		t.Fatalf("read raw csv: %v", err)
	}
	if strings.Count(string(data), "file,encoding,size (MB)") != 1 {
		t.Fatalf("expected a single header line, got %q", data)
	}
}

func TestCleanRowsAppend(t *testing.T) {
	store := openStore(t)
	row := project.CleanRow{File: "a.mp4", Encoding: "utf-8", Size: "1.50 GB", Duration: "01:02:03", Created: time.Date(2022, 1, 1, 0, 0, 0, 0, time.Local), Resolution: "1920x1080", ProcessingTime: 0.5}
	if err := store.AppendCleanRows([]project.CleanRow{row}); err != nil {
		t.Fatalf("AppendCleanRows failed: %v", err)
	}
	got, err := store.ReadCleanRows()
	if err != nil || len(got) != 1 || got[0].Resolution != "1920x1080" || got[0].Size != "1.50 GB" {
		t.Fatalf("unexpected clean rows: %#v (err=%v)", got, err)
	}
}

func TestAppendRejectsSchemaDrift(t *testing.T) {
	store := openStore(t)
	if err := os.WriteFile(store.Layout().RawCSV, []byte("file,size\nold.mp4,1\n"), 0o644); err != nil {
		t.Fatalf("seed raw csv: %v", err)
	}
	err := store.AppendRawRows([]project.RawRow{{File: "a.mp4", Created: time.Now()}})
	if !errors.Is(err, project.ErrSchemaDrift) {
		t.Fatalf("expected ErrSchemaDrift, got %v", err)
	}
	if _, err := store.ReadRawRows(); !errors.Is(err, project.ErrSchemaDrift) {
		t.Fatalf("expected ErrSchemaDrift on read, got %v", err)
	}
}

func TestReadRejectsRowsWithExtraFields(t *testing.T) {
	store := openStore(t)
	header := strings.Join(project.RawHeader(), ",")
	body := header + "\na.mp4,utf-8,1,2,2023-01-01 00:00:00.000000,1080,0.5,extra\n"
	if err := os.WriteFile(store.Layout().RawCSV, []byte(body), 0o644); err != nil {
		t.Fatalf("seed raw csv: %v", err)
	}
	if _, err := store.ReadRawRows(); !errors.Is(err, project.ErrMalformedRow) {
		t.Fatalf("expected ErrMalformedRow, got %v", err)
	}
}

func TestEmptyAppendDoesNotCreateTable(t *testing.T) {
	store := openStore(t)
	if err := store.AppendRawRows(nil); err != nil {
		t.Fatalf("AppendRawRows failed: %v", err)
	}
	if _, err := os.Stat(store.Layout().RawCSV); !os.IsNotExist(err) {
		t.Fatalf("expected no raw csv, stat err=%v", err)
	}
}

func TestLockIsExclusive(t *testing.T) {
	first := openStore(t)
	second, err := project.Open(first.Layout())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := first.Lock(); err != nil {
		t.Fatalf("first lock failed: %v", err)
	}
	if err := second.Lock(); !errors.Is(err, project.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if err := first.Unlock(); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}
	if err := second.Lock(); err != nil {
		t.Fatalf("lock after release failed: %v", err)
	}
	_ = second.Unlock()
}

func TestDestinationRoundTrip(t *testing.T) {
	store := openStore(t)
	if err := store.WriteDestination("/data/videos"); err != nil {
		t.Fatalf("WriteDestination failed: %v", err)
	}
	got, err := store.ReadDestination()
	if err != nil || got != "/data/videos" {
		t.Fatalf("unexpected destination %q (err=%v)", got, err)
	}
}

func TestRawRowRoundTripAcrossFallBackHour(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}
	prev := time.Local
	time.Local = loc
	t.Cleanup(func() { time.Local = prev })

	// Both instants render as 01:30 local on 2023-11-05.
	first := time.Date(2023, 11, 5, 5, 30, 0, 0, time.UTC)
	second := time.Date(2023, 11, 5, 6, 30, 0, 0, time.UTC)

	store := openStore(t)
	rows := []project.RawRow{
		{File: "edt.mp4", Encoding: "utf-8", SizeMB: 1, DurationMins: 1, Created: first, ResolutionHeight: 720},
		{File: "est.mp4", Encoding: "utf-8", SizeMB: 1, DurationMins: 1, Created: second, ResolutionHeight: 720},
	}
	if err := store.AppendRawRows(rows); err != nil {
		t.Fatalf("AppendRawRows failed: %v", err)
	}
	got, err := store.ReadRawRows()
	if err != nil {
		t.Fatalf("ReadRawRows failed: %v", err)
	}
	for i := range rows {
		if !got[i].Created.Equal(rows[i].Created) {
			t.Fatalf("row %d created = %v, want %v", i, got[i].Created.UTC(), rows[i].Created.UTC())
		}
	}
}

func TestParseTimestampAcceptsNaiveDates(t *testing.T) {
	cases := []struct {
		value string
		want  time.Time
	}{
		{"2023-04-05 06:07:08.500000", time.Date(2023, 4, 5, 6, 7, 8, 500000000, time.Local)},
		{"2023-04-05 06:07:08", time.Date(2023, 4, 5, 6, 7, 8, 0, time.Local)},
		{"2023-04-05 06:07:08.500000+02:00", time.Date(2023, 4, 5, 4, 7, 8, 500000000, time.UTC)},
	}
	for _, tc := range cases {
		got, err := project.ParseTimestamp(tc.value)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q): %v", tc.value, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("ParseTimestamp(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
	if _, err := project.ParseTimestamp("yesterday"); !errors.Is(err, project.ErrMalformedRow) {
		t.Fatalf("expected ErrMalformedRow, got %v", err)
	}
}

func TestReadRejectsNonFiniteNumbers(t *testing.T) {
	header := strings.Join(project.RawHeader(), ",")
	for _, field := range []string{"NaN", "+Inf", "-inf"} {
		store := openStore(t)
		body := header + "\na.mp4,utf-8," + field + ",2,2023-01-01 00:00:00.000000,1080,0.5\n"
		if err := os.WriteFile(store.Layout().RawCSV, []byte(body), 0o644); err != nil {
			t.Fatalf("seed raw csv: %v", err)
		}
		if _, err := store.ReadRawRows(); !errors.Is(err, project.ErrMalformedRow) {
			t.Fatalf("size %s: expected ErrMalformedRow, got %v", field, err)
		}
	}
}

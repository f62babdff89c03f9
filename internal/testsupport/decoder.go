package testsupport

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/eigenomarksamy/movie-analytics/internal/probe"
)

// FakeMedia scripts what the fake decoder reports for one file.
type FakeMedia struct {
	Duration float64
	Width    int
	Height   int
	OpenErr  error
	// Panic makes the session panic when its duration is read.
	Panic bool
}

// FakeDecoder is a probe.Decoder that serves scripted media by base name and
// counts opened and closed sessions.
type FakeDecoder struct {
	Media   map[string]FakeMedia
	Default FakeMedia

	mu     sync.Mutex
	opened []string
	closed int
}

// NewFakeDecoder returns a decoder that reports a one minute 1920x1080 video
// for any file not listed in media.
func NewFakeDecoder(media map[string]FakeMedia) *FakeDecoder {
	if media == nil {
		media = map[string]FakeMedia{}
	}
	return &FakeDecoder{
		Media:   media,
		Default: FakeMedia{Duration: 60, Width: 1920, Height: 1080},
	}
}

// Open implements probe.Decoder.
func (d *FakeDecoder) Open(ctx context.Context, path string) (probe.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	media, ok := d.Media[filepath.Base(path)]
	if !ok {
		media = d.Default
	}
	if media.OpenErr != nil {
		return nil, media.OpenErr
	}

	d.mu.Lock()
	d.opened = append(d.opened, path)
	d.mu.Unlock()
	return &fakeSession{decoder: d, media: media}, nil
}

// Opened returns the paths of every session opened so far.
func (d *FakeDecoder) Opened() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.opened...)
}

// Closed reports how many sessions were closed.
func (d *FakeDecoder) Closed() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

type fakeSession struct {
	decoder *FakeDecoder
	media   FakeMedia
}

func (s *fakeSession) Duration() float64 {
	if s.media.Panic {
		panic("fake decoder: corrupt stream")
	}
	return s.media.Duration
}

func (s *fakeSession) Dimensions() (int, int) {
	return s.media.Width, s.media.Height
}

func (s *fakeSession) Close() error {
	s.decoder.mu.Lock()
	s.decoder.closed++
	s.decoder.mu.Unlock()
	return nil
}

package ffprobe

import (
	"context"

	"github.com/eigenomarksamy/movie-analytics/internal/probe"
)

// Decoder opens probe sessions backed by one ffprobe run per file.
type Decoder struct {
	Binary string
}

// Open implements probe.Decoder.
func (d Decoder) Open(ctx context.Context, path string) (probe.Session, error) {
	result, err := Inspect(ctx, d.Binary, path)
	if err != nil {
		return nil, err
	}
	return &session{result: &result}, nil
}

type session struct {
	result *Result
}

func (s *session) Duration() float64 {
	if s.result == nil {
		return 0
	}
	return s.result.DurationSeconds()
}

func (s *session) Dimensions() (int, int) {
	if s.result == nil {
		return 0, 0
	}
	return s.result.Dimensions()
}

// Close drops the parsed report; ffprobe has already exited.
func (s *session) Close() error {
	s.result = nil
	return nil
}

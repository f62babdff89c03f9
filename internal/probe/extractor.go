package probe

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"time"
)

// Session is an open decoder handle for one file.
type Session interface {
	// Duration returns the media duration in seconds.
	Duration() float64
	// Dimensions returns the picture width and height in pixels.
	Dimensions() (width, height int)
	Close() error
}

// Decoder opens media files for inspection.
type Decoder interface {
	Open(ctx context.Context, path string) (Session, error)
}

// Extractor probes files one at a time.
type Extractor struct {
	decoder     Decoder
	encodings   []string
	sampleBytes int64
	now         func() time.Time
}

// NewExtractor builds an extractor trying encodings in order on at most
// sampleBytes of each file.
func NewExtractor(decoder Decoder, encodings []string, sampleBytes int64) *Extractor {
	return &Extractor{
		decoder:     decoder,
		encodings:   append([]string(nil), encodings...),
		sampleBytes: sampleBytes,
		now:         time.Now,
	}
}

// Probe extracts metadata for path. Elapsed covers the whole call.
func (e *Extractor) Probe(ctx context.Context, path string) (Metadata, error) {
	start := e.now()

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Metadata{}, &Error{Path: path, Stage: "stat", Err: ErrNotFound}
		}
		return Metadata{}, &Error{Path: path, Stage: "stat", Err: err}
	}
	if info.IsDir() {
		return Metadata{}, &Error{Path: path, Stage: "stat", Err: fmt.Errorf("%s is a directory", path)}
	}

	enc, err := DetectEncoding(path, e.encodings, e.sampleBytes)
	if err != nil {
		return Metadata{}, err
	}

	duration, width, height, err := e.decode(ctx, path)
	if err != nil {
		return Metadata{}, err
	}

	return Metadata{
		Path:            path,
		Encoding:        enc,
		SizeBytes:       info.Size(),
		DurationSeconds: duration,
		Width:           width,
		Height:          height,
		Created:         changeTime(path, info),
		Elapsed:         e.now().Sub(start),
	}, nil
}

func (e *Extractor) decode(ctx context.Context, path string) (duration float64, width, height int, err error) {
	if e.decoder == nil {
		return 0, 0, 0, &Error{Path: path, Stage: "decode", Err: errors.New("no decoder configured")}
	}
	session, err := e.decoder.Open(ctx, path)
	if err != nil {
		return 0, 0, 0, &Error{Path: path, Stage: "decode", Err: err}
	}
	defer func() {
		if cerr := session.Close(); cerr != nil && err == nil {
			err = &Error{Path: path, Stage: "close", Err: cerr}
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Path: path, Stage: "decode", Err: fmt.Errorf("decoder panic: %v", r)}
		}
	}()

	duration = session.Duration()
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration < 0 {
		return 0, 0, 0, &Error{Path: path, Stage: "duration", Err: ErrBadDuration}
	}
	width, height = session.Dimensions()
	if width <= 0 || height <= 0 {
		return 0, 0, 0, &Error{Path: path, Stage: "dimensions", Err: ErrNoVideo}
	}
	return duration, width, height, nil
}

package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// Result is the subset of ffprobe's JSON report used for cataloging.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes one stream in the container.
type Stream struct {
	Index       int         `json:"index"`
	CodecName   string      `json:"codec_name"`
	CodecType   string      `json:"codec_type"`
	Duration    string      `json:"duration"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	Disposition Disposition `json:"disposition"`
}

// Disposition carries the stream flags relevant to picking the main picture.
type Disposition struct {
	Default     int `json:"default"`
	AttachedPic int `json:"attached_pic"`
}

// Format is container-level metadata.
type Format struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
}

// Inspect runs ffprobe against path and parses its JSON report.
func Inspect(ctx context.Context, binary, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	if strings.TrimSpace(path) == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary,
		"-v", "error", "-hide_banner",
		"-show_format", "-show_streams",
		"-of", "json", "--", path)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return Result{}, fmt.Errorf("ffprobe inspect %s: %w: %s", path, err, msg)
		}
		return Result{}, fmt.Errorf("ffprobe inspect %s: %w", path, err)
	}
	return Parse(stdout.Bytes())
}

// Parse decodes an ffprobe JSON report.
func Parse(data []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// PrimaryVideo returns the main picture stream: the first default video stream
// that is not cover art, else the first video stream that is not cover art.
func (r Result) PrimaryVideo() (Stream, bool) {
	var fallback *Stream
	for i := range r.Streams {
		s := &r.Streams[i]
		if !strings.EqualFold(s.CodecType, "video") || s.Disposition.AttachedPic == 1 {
			continue
		}
		if s.Disposition.Default == 1 {
			return *s, true
		}
		if fallback == nil {
			fallback = s
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return Stream{}, false
}

// Dimensions returns the primary video stream's width and height, or zeros
// when the file has no video.
func (r Result) Dimensions() (int, int) {
	video, ok := r.PrimaryVideo()
	if !ok {
		return 0, 0
	}
	return video.Width, video.Height
}

// DurationSeconds returns the container duration, falling back to the primary
// video stream's duration. Missing or malformed values yield 0.
func (r Result) DurationSeconds() float64 {
	if d := parseSeconds(r.Format.Duration); d > 0 {
		return d
	}
	if video, ok := r.PrimaryVideo(); ok {
		return parseSeconds(video.Duration)
	}
	return 0
}

func parseSeconds(value string) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) || parsed < 0 {
		return 0
	}
	return parsed
}

// Package ffprobe wraps the ffprobe binary and exposes the few container and
// video-stream properties the catalog needs.
//
// Inspect runs ffprobe and returns a parsed Result; Decoder adapts Inspect
// to the probe.Decoder interface so the metadata extractor never shells out
// directly.
package ffprobe

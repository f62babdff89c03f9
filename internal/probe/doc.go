// Package probe extracts per-file catalog metadata: a trial-decoded text
// encoding, the media duration and resolution reported by a Decoder, the
// file size, and the filesystem change time.
//
// A Decoder session is always closed before Probe returns, including when the
// decoder panics; a panic is reported as a probe failure for that file only.
package probe

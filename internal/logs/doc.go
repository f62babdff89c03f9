// Package logs reads the optional movie-analytics log file for the CLI.
//
// Last returns the final lines with a bounded ring buffer; Follow then polls
// from the returned offset until the context ends.
package logs

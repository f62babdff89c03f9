// Package runlog records one row per catalog run in a per-project SQLite
// database: what the batch contained, how many files were cataloged or
// skipped, and how long each phase took.
package runlog

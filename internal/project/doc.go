// Package project owns every on-disk artifact of a cataloging project.
//
// A project is a directory under the cache root holding the full and
// processed file lists, the clean and raw CSV tables, the running, partial,
// and full summaries, the destination marker, and the run history database.
// Paths are deterministic functions of the project name unless overridden.
//
// Writes are plain truncate-or-append operations with no atomic rename: a
// crash mid-write can leave a truncated artifact. The raw CSV table is the
// source of truth for recomputation; callers never write project files
// directly.
package project

// Package pipeline runs one catalog invocation end to end.
//
// A run lists the destination, diffs it against the raw table, selects a
// size-bounded batch, probes each file sequentially, and persists the results
// in a fixed order: processed list, running summary, clean table, raw table,
// then the partial summary recomputed from the raw table. When nothing is left
// to catalog the run only recomputes the full summary.
//
// Listing and persistence failures are fatal. A file that fails to probe is
// logged and skipped; it stays out of the processed list so the next run
// retries it.
package pipeline

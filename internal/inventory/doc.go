// Package inventory lists a destination directory, diffs it against the
// files already recorded in the raw table, and selects the next size-bounded
// batch.
//
// Batch selection is a greedy two-pointer walk over files sorted by size:
// each step tries the smallest and the largest unselected file, so a run
// neither starves large files nor wastes its budget on a handful of small
// ones. It is deterministic, not globally optimal.
package inventory

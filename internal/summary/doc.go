// Package summary aggregates raw catalog rows.
//
// Running accumulates one batch in O(1) per row; Full recomputes the same
// statistics over the whole raw table. Sums are kept exactly, so both yield
// identical totals and averages regardless of row order. Extrema keep the
// first file seen on ties.
package summary

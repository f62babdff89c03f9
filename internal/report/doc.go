// Package report turns the raw catalog table into monthly statistics,
// renders them as terminal tables, and draws the monthly line charts.
package report

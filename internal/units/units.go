// Package units converts raw seconds and byte counts into the display strings
// used by the clean CSV table, summaries, and CLI tables.
package units

import (
	"fmt"
	"math"
)

const (
	// BytesPerMB is the binary megabyte used throughout the catalog.
	BytesPerMB = 1024 * 1024
	// BytesPerGB is the binary gigabyte used for batch budgets and totals.
	BytesPerGB = 1024 * 1024 * 1024
)

// Duration renders seconds as HH:MM:SS, or MM:SS when under one hour.
// Components are truncated, not rounded.
func Duration(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	hours := math.Floor(seconds / 3600)
	mins := math.Floor(math.Mod(seconds, 3600) / 60)
	secs := math.Floor(math.Mod(seconds, 60))
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", int64(hours), int64(mins), int64(secs))
	}
	return fmt.Sprintf("%02d:%02d", int64(mins), int64(secs))
}

// Size renders a byte count as GB when above one gigabyte, MB otherwise.
func Size(bytes int64) string {
	return SizeMB(float64(bytes) / BytesPerMB)
}

// SizeMB renders a megabyte quantity with the same thresholds as Size.
func SizeMB(mb float64) string {
	gb := mb / 1024
	if gb > 1 {
		return fmt.Sprintf("%.2f GB", gb)
	}
	return fmt.Sprintf("%.2f MB", mb)
}

// GB converts bytes to binary gigabytes.
func GB(bytes int64) float64 {
	return float64(bytes) / BytesPerGB
}

// MB converts bytes to binary megabytes.
func MB(bytes int64) float64 {
	return float64(bytes) / BytesPerMB
}

// Resolution renders pixel dimensions as "WxH".
func Resolution(width, height int) string {
	return fmt.Sprintf("%dx%d", width, height)
}

// Percent returns part/total*100, or 0 when total is not positive.
func Percent(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return part * 100 / total
}

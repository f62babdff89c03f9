package inventory

import (
	"cmp"
	"math"
	"slices"

	"github.com/eigenomarksamy/movie-analytics/internal/units"
)

// BudgetBytes converts a budget in binary gigabytes to bytes, rounding down.
// Non-positive or non-finite budgets yield zero.
func BudgetBytes(budgetGB float64) int64 {
	if math.IsNaN(budgetGB) || budgetGB <= 0 {
		return 0
	}
	bytes := budgetGB * units.BytesPerGB
	if bytes >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(bytes)
}

// SelectBatch picks files whose total size fits budget.
//
// With zero or one candidate the input is returned unchanged, without a
// budget check. Otherwise files are sorted by ascending size (stable) and two
// cursors walk inward: each step accepts the smallest unselected file if it
// fits, then independently the largest if it still fits. The walk stops once
// neither end fits. The result is in pick order, interleaving small and large.
func SelectBatch(files []File, budget int64) []File {
	if len(files) <= 1 {
		return slices.Clone(files)
	}

	sorted := slices.Clone(files)
	slices.SortStableFunc(sorted, func(a, b File) int { return cmp.Compare(a.Size, b.Size) })

	var (
		selected []File
		used     int64
		lo       = 0
		hi       = len(sorted) - 1
	)
	for lo <= hi {
		small, large := sorted[lo], sorted[hi]
		if min(small.Size, large.Size) > budget-used {
			break
		}
		if lo == hi {
			if small.Size+used <= budget {
				selected = append(selected, small)
				used += small.Size
			}
			break
		}
		if small.Size+used <= budget {
			selected = append(selected, small)
			used += small.Size
			lo++
		}
		if large.Size+used <= budget {
			selected = append(selected, large)
			used += large.Size
			hi--
		}
	}
	return selected
}

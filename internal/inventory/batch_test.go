package inventory_test

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/eigenomarksamy/movie-analytics/internal/inventory"
	"github.com/eigenomarksamy/movie-analytics/internal/units"
)

const gb = int64(units.BytesPerGB)

func files(sizes ...int64) []inventory.File {
	out := make([]inventory.File, len(sizes))
	for i, size := range sizes {
		out[i] = inventory.File{Path: string(rune('a' + i)), Size: size}
	}
	return out
}

func sizes(files []inventory.File) []int64 {
	out := make([]int64, len(files))
	for i, f := range files {
		out[i] = f.Size
	}
	return out
}

func TestSelectBatchCases(t *testing.T) {
	tests := []struct {
		name   string
		files  []inventory.File
		budget int64
		want   []int64
	}{
		{name: "empty", files: nil, budget: 10, want: []int64{}},
		{name: "singleton ignores budget", files: files(50), budget: 10, want: []int64{50}},
		{name: "budget below smallest", files: files(5, 7), budget: 4, want: []int64{}},
		{name: "exact fit", files: files(4, 6), budget: 10, want: []int64{4, 6}},
		{name: "alternates small and large", files: files(5, 1, 4, 2, 3), budget: 100, want: []int64{1, 5, 2, 4, 3}},
		{name: "large skipped keeps small", files: files(1, 2, 9), budget: 4, want: []int64{1, 2}},
		{name: "zero budget", files: files(1, 2), budget: 0, want: []int64{}},
		{name: "negative budget", files: files(1, 2), budget: -5, want: []int64{}},
		{name: "zero sized files", files: files(0, 0, 3), budget: 0, want: []int64{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sizes(inventory.SelectBatch(tt.files, tt.budget))
			if !slices.Equal(got, tt.want) {
				t.Fatalf("SelectBatch = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectBatchOneTwoFiveGigabytes(t *testing.T) {
	in := []inventory.File{
		{Path: "/v/five.mp4", Size: 5 * gb},
		{Path: "/v/one.mp4", Size: 1 * gb},
		{Path: "/v/two.mp4", Size: 2 * gb},
	}
	got := inventory.SelectBatch(in, inventory.BudgetBytes(3))
	paths := inventory.Paths(got)
	if !slices.Equal(paths, []string{"/v/one.mp4", "/v/two.mp4"}) {
		t.Fatalf("batch = %v, want one and two", paths)
	}
	if total := inventory.TotalSize(got); total != 3*gb {
		t.Fatalf("batch size = %d, want %d", total, 3*gb)
	}
}

func TestSelectBatchTiesKeepInputOrder(t *testing.T) {
	in := []inventory.File{{Path: "x", Size: 2}, {Path: "y", Size: 2}, {Path: "z", Size: 2}}
	got := inventory.Paths(inventory.SelectBatch(in, 4))
	if !slices.Equal(got, []string{"x", "z"}) {
		t.Fatalf("batch = %v, want [x z]", got)
	}
}

func TestSelectBatchDoesNotMutateInput(t *testing.T) {
	in := files(9, 1, 5)
	before := slices.Clone(in)
	inventory.SelectBatch(in, 100)
	if !slices.Equal(in, before) {
		t.Fatalf("input mutated: %v", in)
	}
}

func TestSelectBatchProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for round := range 500 {
		n := rng.IntN(12)
		in := make([]inventory.File, n)
		for i := range in {
			in[i] = inventory.File{Path: string(rune('A' + i)), Size: rng.Int64N(50)}
		}
		budget := rng.Int64N(120) - 10

		got := inventory.SelectBatch(in, budget)
		again := inventory.SelectBatch(slices.Clone(in), budget)
		if !slices.Equal(got, again) {
			t.Fatalf("round %d: not deterministic: %v vs %v", round, got, again)
		}

		if n <= 1 {
			if !slices.Equal(got, in) {
				t.Fatalf("round %d: trivial input changed: %v -> %v", round, in, got)
			}
			continue
		}

		// (a) within budget
		if total := inventory.TotalSize(got); total > budget && len(got) > 0 {
			t.Fatalf("round %d: total %d exceeds budget %d", round, total, budget)
		}

		// (b) subset, no duplicates
		seen := map[string]bool{}
		for _, f := range got {
			if seen[f.Path] {
				t.Fatalf("round %d: %s selected twice", round, f.Path)
			}
			seen[f.Path] = true
			if !slices.Contains(in, f) {
				t.Fatalf("round %d: %v not in input", round, f)
			}
		}

		// (c) empty exactly when nothing fits
		smallest := slices.MinFunc(in, func(a, b inventory.File) int { return int(a.Size - b.Size) })
		if (len(got) == 0) != (smallest.Size > budget) {
			t.Fatalf("round %d: empty=%v but smallest=%d budget=%d", round, len(got) == 0, smallest.Size, budget)
		}

		// (d) a budget covering everything selects everything
		if inventory.TotalSize(in) <= budget && len(got) != n {
			t.Fatalf("round %d: budget %d covers all %d files but selected %d", round, budget, n, len(got))
		}

		if len(got) > 0 && got[0].Size != smallest.Size {
			t.Fatalf("round %d: first pick %d, want smallest %d", round, got[0].Size, smallest.Size)
		}
	}
}

func TestBudgetBytes(t *testing.T) {
	if got := inventory.BudgetBytes(5); got != 5*gb {
		t.Fatalf("BudgetBytes(5) = %d", got)
	}
	if got := inventory.BudgetBytes(-1); got != 0 {
		t.Fatalf("BudgetBytes(-1) = %d", got)
	}
}

func TestPlanExpectations(t *testing.T) {
	all := files(4*gb, 3*gb, 2*gb, 1*gb)
	remaining := all[1:]
	batch := all[3:]
	plan := inventory.NewPlan(all, remaining, batch, 1*gb)

	if plan.ProcessedFiles() != 1 || plan.ProcessedBytes() != 4*gb {
		t.Fatalf("processed = %d files / %d bytes", plan.ProcessedFiles(), plan.ProcessedBytes())
	}
	if plan.AlreadyProcessed() != 40 {
		t.Fatalf("already processed = %v, want 40", plan.AlreadyProcessed())
	}
	if plan.ExpectedProgress() != 50 {
		t.Fatalf("expected progress = %v, want 50", plan.ExpectedProgress())
	}
	if plan.ExpectedRuns() != 6 {
		t.Fatalf("expected runs = %d, want 6", plan.ExpectedRuns())
	}
	if plan.ExpectedRemainingFiles() != 2 || plan.ExpectedRemainingBytes() != 5*gb {
		t.Fatalf("expected remaining = %d / %d", plan.ExpectedRemainingFiles(), plan.ExpectedRemainingBytes())
	}
	if (inventory.Plan{RemainingBytes: 10}).ExpectedRuns() != 0 {
		t.Fatal("empty batch should expect zero runs")
	}
}

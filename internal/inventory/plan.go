package inventory

import "math"

// Plan summarizes one run before probing starts.
type Plan struct {
	TotalFiles     int
	TotalBytes     int64
	RemainingFiles int
	RemainingBytes int64
	BatchFiles     int
	BatchBytes     int64
	BudgetBytes    int64
}

// NewPlan derives a plan from the full listing, the remaining files and the
// selected batch.
func NewPlan(all, remaining, batch []File, budget int64) Plan {
	return Plan{
		TotalFiles:     len(all),
		TotalBytes:     TotalSize(all),
		RemainingFiles: len(remaining),
		RemainingBytes: TotalSize(remaining),
		BatchFiles:     len(batch),
		BatchBytes:     TotalSize(batch),
		BudgetBytes:    budget,
	}
}

// ProcessedFiles counts files already cataloged.
func (p Plan) ProcessedFiles() int { return p.TotalFiles - p.RemainingFiles }

// ProcessedBytes is the size of files already cataloged that are still present.
func (p Plan) ProcessedBytes() int64 { return p.TotalBytes - p.RemainingBytes }

// AlreadyProcessed returns the processed share of the total size in percent.
func (p Plan) AlreadyProcessed() float64 {
	return percentOf(p.ProcessedBytes(), p.TotalBytes)
}

// ExpectedProgress returns the processed share after this batch in percent.
func (p Plan) ExpectedProgress() float64 {
	return percentOf(p.ProcessedBytes()+p.BatchBytes, p.TotalBytes)
}

// ExpectedRemainingFiles is the file count left after this batch.
func (p Plan) ExpectedRemainingFiles() int { return p.RemainingFiles - p.BatchFiles }

// ExpectedRemainingBytes is the size left after this batch.
func (p Plan) ExpectedRemainingBytes() int64 { return p.RemainingBytes - p.BatchBytes }

// ExpectedRuns estimates how many runs of this batch size cover the remaining
// files, this one included. An empty batch yields zero.
func (p Plan) ExpectedRuns() int {
	if p.BatchBytes <= 0 {
		return 0
	}
	return int(math.Ceil(float64(p.RemainingBytes) / float64(p.BatchBytes)))
}

func percentOf(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) * 100 / float64(whole)
}

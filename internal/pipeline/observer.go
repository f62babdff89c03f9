package pipeline

import (
	"time"

	"github.com/eigenomarksamy/movie-analytics/internal/inventory"
)

// FileEvent describes one finished probe.
type FileEvent struct {
	Index   int
	Total   int
	Path    string
	Size    int64
	Err     error
	Elapsed time.Duration
	// DoneBytes is the size cataloged so far in this batch.
	DoneBytes  int64
	BatchBytes int64
}

// Observer watches a run. It never influences the outcome.
type Observer interface {
	// Start is called once the batch is selected, before probing.
	Start(plan inventory.Plan)
	// FileDone is called after each probe, successful or not.
	FileDone(event FileEvent)
	// Finish is called after probing, before persistence.
	Finish()
}

type nopObserver struct{}

func (nopObserver) Start(inventory.Plan) {}
func (nopObserver) FileDone(FileEvent)   {}
func (nopObserver) Finish()              {}

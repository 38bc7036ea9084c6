// Package workers runs the client's background jobs. A job is anything that
// works on a schedule independent of user interaction; today that is the
// periodic vault synchronization.
package workers

import (
	"context"
	"sync"
)

// Worker is a background job. Run blocks until ctx is cancelled.
type Worker interface {
	Run(ctx context.Context)
}

// Workers fans a set of jobs out to goroutines and waits for them together.
type Workers struct {
	workers []Worker
	wg      sync.WaitGroup
}

// New builds an aggregate over the given jobs.
func New(ws ...Worker) *Workers {
	return &Workers{workers: ws}
}

// Add registers another job. Must be called before Run.
func (w *Workers) Add(worker Worker) {
	w.workers = append(w.workers, worker)
}

// Run starts every job on its own goroutine and returns immediately.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		w.wg.Add(1)
		go func(worker Worker) {
			defer w.wg.Done()
			worker.Run(ctx)
		}(worker)
	}
}

// Wait blocks until every started job has returned.
func (w *Workers) Wait() {
	w.wg.Wait()
}

package workers

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type Workers struct {
	workers []Worker
}

func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Add registers another worker. It must be called before Run.
func (w *Workers) Add(worker Worker) {
	w.workers = append(w.workers, worker)
}

// Run starts every worker in its own goroutine and waits for all of them.
// The first failure cancels the others and is returned.
func (w *Workers) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)
	for _, worker := range w.workers {
		g.Go(func() error {
			return worker.Run(gCtx)
		})
	}
	return g.Wait()
}

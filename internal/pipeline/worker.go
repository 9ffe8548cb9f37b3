package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/onionwatch/internal/model"
)

// TargetRunner is anything that can run targets to completion. *Runner
// implements it.
type TargetRunner interface {
	Run(ctx context.Context, targets, keywords []string) []model.RunResult
}

// Worker runs at most one TargetRunner run at a time in the background, so
// an interactive front end stays responsive while a run is in progress.
type Worker struct {
	runner TargetRunner
	group  *errgroup.Group

	mu      sync.Mutex
	results []model.RunResult
	err     error
}

// NewWorker creates a single-slot Worker.
func NewWorker(runner TargetRunner) *Worker {
	g := new(errgroup.Group)
	g.SetLimit(1)
	return &Worker{runner: runner, group: g}
}

// Submit starts a run in the background. It returns ErrWorkerBusy when a
// previous run has not finished yet.
func (w *Worker) Submit(ctx context.Context, targets, keywords []string) error {
	ok := w.group.TryGo(func() error {
		results := w.runner.Run(ctx, targets, keywords)

		w.mu.Lock()
		w.results = results
		w.err = ctx.Err()
		w.mu.Unlock()
		// Errors are kept on the Worker; a Group remembers only its first.
		return nil
	})
	if !ok {
		return ErrWorkerBusy
	}
	return nil
}

// Wait blocks until the current run finishes and returns its results.
// The error is the run context's error, if it was cancelled.
func (w *Worker) Wait() ([]model.RunResult, error) {
	_ = w.group.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.results == nil {
		return []model.RunResult{}, w.err
	}
	return w.results, w.err
}

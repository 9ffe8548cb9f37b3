package pipeline

import "errors"

var (
	// ErrWorkerBusy is returned when a run is submitted while another is in progress.
	ErrWorkerBusy = errors.New("a run is already in progress")

	// ErrStepPanic wraps a panic recovered while processing a target.
	ErrStepPanic = errors.New("step panicked")
)

package pipeline

import (
	"context"
	"log/slog"
	"time"
)

// Step is one stage of processing a single target. Steps run in order and
// each sees what the previous ones stored in the report.
//
// Design decision: We use an interface rather than function types because:
// 1. Steps carry their dependencies (fetcher, analyzer, store) as fields
// 2. Name() gives every log line and TargetReport.PerformedSteps a label
// 3. Tests can swap a single stage without rebuilding the whole chain
type Step interface {
	// Do executes the step. A returned error marks the target as failed
	// and stops the pipeline.
	Do(ctx context.Context, report *TargetReport) error

	// Name identifies the step in logs and in TargetReport.PerformedSteps.
	Name() string
}

// Pipeline runs steps for one target.
//
// Design decision: The first failing step stops the pipeline. A target
// whose fetch or analysis failed has nothing worth persisting, and the
// Runner records the error in the target's report instead.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddSteps appends steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}

// Execute runs the steps in sequence and stops at the first failure, which
// is also stored in report.Err. Cancellation is checked before each step.
func (p *Pipeline) Execute(ctx context.Context, report *TargetReport) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"target", report.Target,
				"reason", err,
			)
			report.Err = err
			return err
		}

		start := time.Now()
		if err := step.Do(ctx, report); err != nil {
			p.logger.Debug("step failed",
				"step", step.Name(),
				"target", report.Target,
				"elapsed", time.Since(start),
				"error", err,
			)
			report.Err = err
			return err
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"target", report.Target,
			"elapsed", time.Since(start),
		)
		report.PerformedSteps = append(report.PerformedSteps, step.Name())
	}
	return nil
}

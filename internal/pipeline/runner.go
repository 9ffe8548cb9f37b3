package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/onionwatch/internal/database"
	"github.com/nao1215/onionwatch/internal/model"
	"github.com/nao1215/onionwatch/internal/tor"
)

// DefaultDelay is the pause after each successfully processed target.
const DefaultDelay = time.Second

// SessionProvider hands out the Tor session used for a whole run.
// *tor.Provider implements it.
type SessionProvider interface {
	AcquireSession(ctx context.Context) (*tor.Session, error)
}

// Runner processes a list of targets sequentially over one session.
//
// Design decision: Targets are processed one at a time rather than with a
// worker pool because:
// 1. All requests share one Tor circuit, which is the bottleneck anyway
// 2. The fixed pause after each success keeps request pacing predictable
// 3. Results come back in input order without any re-sorting
type Runner struct {
	provider  SessionProvider
	fetcher   PageFetcher
	analyzer  TextAnalyzer
	store     database.Store
	delay     time.Duration
	logger    *slog.Logger
	observers []Observer
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets the logger used by the runner and its pipelines.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDelay sets the pause after each successful target. Zero disables it.
func WithDelay(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d >= 0 {
			r.delay = d
		}
	}
}

// WithObserver adds an observer. It may be given several times.
func WithObserver(o Observer) RunnerOption {
	return func(r *Runner) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

// NewRunner creates a Runner.
func NewRunner(provider SessionProvider, fetcher PageFetcher, a TextAnalyzer, store database.Store, opts ...RunnerOption) *Runner {
	r := &Runner{
		provider: provider,
		fetcher:  fetcher,
		analyzer: a,
		store:    store,
		delay:    DefaultDelay,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run acquires a session and processes targets in order. A target that
// fails at any step is logged and skipped. When the session cannot be
// acquired nothing is fetched and an empty result is returned.
//
// The returned slice is never nil and holds one entry per successfully
// persisted target, in target order.
func (r *Runner) Run(ctx context.Context, targets, keywords []string) []model.RunResult {
	results := make([]model.RunResult, 0, len(targets))

	session, err := r.provider.AcquireSession(ctx)
	if err != nil {
		r.logger.Error("failed to acquire tor session", "error", err)
		r.finish(results, err)
		return results
	}

	p := r.newPipeline(session)
	start := time.Now()
	total := len(targets)
	r.logger.Info("starting run",
		"targets", total,
		"keywords", len(keywords),
		"proxy", session.ProxyAddress,
		"rotated", session.Rotated,
		"steps", p.StepNames(),
	)

	var runErr error
	for i, target := range targets {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("run cancelled", "remaining", total-i, "reason", err)
			runErr = err
			break
		}

		index := i + 1
		r.notify(func(o Observer) { o.OnTargetStarted(index, total, target) })

		result, err := r.processTarget(ctx, p, target, keywords)
		if err != nil {
			r.logger.Warn("skipping target",
				"target", target,
				"index", index,
				"total", total,
				"error", err,
			)
			r.notify(func(o Observer) { o.OnTargetFailed(index, total, target, err) })
			continue
		}

		results = append(results, result)
		r.logger.Info("processed target",
			"target", target,
			"index", index,
			"total", total,
			"keywords", len(result.Keywords),
			"sentiment", result.Sentiment,
		)
		r.notify(func(o Observer) { o.OnTargetCompleted(index, total, result) })

		r.pause(ctx)
	}

	r.logger.Info("run complete",
		"succeeded", len(results),
		"failed", total-len(results),
		"elapsed", time.Since(start),
	)
	r.finish(results, runErr)
	return results
}

// newPipeline assembles the per-target steps bound to session.
func (r *Runner) newPipeline(session *tor.Session) *Pipeline {
	p := New(WithLogger(r.logger))
	p.AddSteps(
		NewFetchStep(r.fetcher, session.HTTP, r.logger),
		NewAnalyzeStep(r.analyzer),
		NewPersistStep(r.store),
	)
	return p
}

// processTarget runs the step pipeline for one target. Panics are turned
// into errors so they only affect this target.
func (r *Runner) processTarget(ctx context.Context, p *Pipeline, target string, keywords []string) (result model.RunResult, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("%w: %v", ErrStepPanic, v)
		}
	}()

	report := NewTargetReport(target, keywords)
	if err := p.Execute(ctx, report); err != nil {
		return model.RunResult{}, err
	}
	return report.Result(), nil
}

// pause waits for the configured delay or until ctx is done.
func (r *Runner) pause(ctx context.Context) {
	if r.delay <= 0 {
		return
	}
	timer := time.NewTimer(r.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func (r *Runner) finish(results []model.RunResult, err error) {
	r.notify(func(o Observer) { o.OnRunFinished(results, err) })
}

func (r *Runner) notify(fn func(Observer)) {
	for _, o := range r.observers {
		fn(o)
	}
}

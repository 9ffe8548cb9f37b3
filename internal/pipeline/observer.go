package pipeline

import (
	"github.com/nao1215/onionwatch/internal/model"
)

// Observer receives progress events from a Runner. Index is 1-based.
// Events are delivered from the goroutine executing the run.
type Observer interface {
	OnTargetStarted(index, total int, target string)
	OnTargetCompleted(index, total int, result model.RunResult)
	OnTargetFailed(index, total int, target string, err error)
	OnRunFinished(results []model.RunResult, err error)
}

// ObserverFuncs adapts optional callbacks to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	TargetStarted   func(index, total int, target string)
	TargetCompleted func(index, total int, result model.RunResult)
	TargetFailed    func(index, total int, target string, err error)
	RunFinished     func(results []model.RunResult, err error)
}

// OnTargetStarted implements Observer.
func (o ObserverFuncs) OnTargetStarted(index, total int, target string) {
	if o.TargetStarted != nil {
		o.TargetStarted(index, total, target)
	}
}

// OnTargetCompleted implements Observer.
func (o ObserverFuncs) OnTargetCompleted(index, total int, result model.RunResult) {
	if o.TargetCompleted != nil {
		o.TargetCompleted(index, total, result)
	}
}

// OnTargetFailed implements Observer.
func (o ObserverFuncs) OnTargetFailed(index, total int, target string, err error) {
	if o.TargetFailed != nil {
		o.TargetFailed(index, total, target, err)
	}
}

// OnRunFinished implements Observer.
func (o ObserverFuncs) OnRunFinished(results []model.RunResult, err error) {
	if o.RunFinished != nil {
		o.RunFinished(results, err)
	}
}

// EventKind identifies an Event.
type EventKind int

const (
	// EventTargetStarted is sent before a target is fetched.
	EventTargetStarted EventKind = iota
	// EventTargetCompleted is sent after a target was persisted.
	EventTargetCompleted
	// EventTargetFailed is sent when a target was skipped.
	EventTargetFailed
	// EventRunFinished is the last event of a run.
	EventRunFinished
)

// String returns the event name.
func (k EventKind) String() string {
	switch k {
	case EventTargetStarted:
		return "target_started"
	case EventTargetCompleted:
		return "target_completed"
	case EventTargetFailed:
		return "target_failed"
	case EventRunFinished:
		return "run_finished"
	default:
		return "unknown"
	}
}

// Event is one Observer callback captured as a value.
type Event struct {
	Kind    EventKind
	Index   int
	Total   int
	Target  string
	Result  model.RunResult
	Results []model.RunResult
	Err     error
}

// ChannelObserver turns Observer callbacks into Events on a channel so a
// UI loop can consume them on its own goroutine. The channel is closed after
// the run finished event; use one ChannelObserver per run.
type ChannelObserver struct {
	events chan Event
}

// NewChannelObserver creates a ChannelObserver with the given buffer size.
func NewChannelObserver(buffer int) *ChannelObserver {
	if buffer < 0 {
		buffer = 0
	}
	return &ChannelObserver{events: make(chan Event, buffer)}
}

// Events returns the receive side of the channel.
func (o *ChannelObserver) Events() <-chan Event {
	return o.events
}

// OnTargetStarted implements Observer.
func (o *ChannelObserver) OnTargetStarted(index, total int, target string) {
	o.events <- Event{Kind: EventTargetStarted, Index: index, Total: total, Target: target}
}

// OnTargetCompleted implements Observer.
func (o *ChannelObserver) OnTargetCompleted(index, total int, result model.RunResult) {
	o.events <- Event{Kind: EventTargetCompleted, Index: index, Total: total, Target: result.URL, Result: result}
}

// OnTargetFailed implements Observer.
func (o *ChannelObserver) OnTargetFailed(index, total int, target string, err error) {
	o.events <- Event{Kind: EventTargetFailed, Index: index, Total: total, Target: target, Err: err}
}

// OnRunFinished implements Observer and closes the channel.
func (o *ChannelObserver) OnRunFinished(results []model.RunResult, err error) {
	o.events <- Event{Kind: EventRunFinished, Results: results, Err: err}
	close(o.events)
}

package player

import (
	"context"
	"time"

	"github.com/tessro/tapedeck/internal/core"
)

// Scheduler runs work on the goroutine that owns a Controller. It is the
// only way other goroutines reach the controller.
type Scheduler interface {
	// Post queues fn to run on the loop.
	Post(fn func())
	// After queues fn to run on the loop once d has elapsed.
	After(d time.Duration, fn func())
	// Await queues fn to run on the loop with the single value ch yields.
	Await(ch <-chan error, fn func(error))
}

// Loop is a channel-driven Scheduler that also delivers media events.
// It backs headless playback; the TUI uses its own program loop instead.
type Loop struct {
	tasks chan func()
	done  chan struct{}
}

// NewLoop creates a loop. Call Run to start processing.
func NewLoop() *Loop {
	return &Loop{
		tasks: make(chan func(), 256),
		done:  make(chan struct{}),
	}
}

// Post queues fn. It is dropped once the loop has stopped.
func (l *Loop) Post(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.done:
	}
}

// After queues fn after d.
func (l *Loop) After(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { l.Post(fn) })
}

// Await queues fn once ch yields.
func (l *Loop) Await(ch <-chan error, fn func(error)) {
	go func() {
		select {
		case err := <-ch:
			l.Post(func() { fn(err) })
		case <-l.done:
		}
	}()
}

// Run processes queued work and media events until ctx is done. onEvent
// runs on the loop for every event.
func (l *Loop) Run(ctx context.Context, events <-chan core.MediaEvent, onEvent func(core.MediaEvent)) error {
	defer close(l.done)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			onEvent(ev)
		}
	}
}

// Do runs fn on the loop behind sched and waits for its result.
func Do(ctx context.Context, sched Scheduler, fn func() error) error {
	result := make(chan error, 1)
	sched.Post(func() { result <- fn() })

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ Scheduler = (*Loop)(nil)

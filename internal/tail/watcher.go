package tail

import (
	"context"
	"time"

	"github.com/tessro/tapedeck/internal/core"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventTrackComplete
	EventTrackSkip
	EventPause
	EventResume
	EventVolumeChange
	EventError
)

// Event represents a playback state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *core.Snapshot
	Current   *core.Snapshot
}

// Source streams player snapshots to fn until ctx is done or fn fails.
type Source interface {
	Watch(ctx context.Context, fn func(*core.Snapshot) error) error
}

// Watcher turns a snapshot stream into playback events.
type Watcher struct {
	source Source
	events chan Event
	now    func() time.Time
}

// NewWatcher creates a new state watcher.
func NewWatcher(source Source) *Watcher {
	return &Watcher{
		source: source,
		events: make(chan Event, 16),
		now:    time.Now,
	}
}

// Events returns the channel of playback events. It is closed when Start
// returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start consumes the snapshot stream until ctx is done or the stream ends.
func (w *Watcher) Start(ctx context.Context) error {
	defer close(w.events)

	var prev *core.Snapshot
	return w.source.Watch(ctx, func(curr *core.Snapshot) error {
		for _, e := range diffStates(prev, curr, w.now()) {
			select {
			case w.events <- e:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		prev = curr
		return nil
	})
}

// diffStates compares two snapshots and returns detected events.
func diffStates(prev, curr *core.Snapshot, now time.Time) []Event {
	if curr == nil {
		return nil
	}

	var events []Event
	add := func(t EventType) {
		events = append(events, Event{Type: t, Timestamp: now, Previous: prev, Current: curr})
	}

	// First snapshot: announce whatever is loaded.
	if prev == nil {
		if curr.HasTrack() && curr.State.Loaded() {
			add(EventTrackChange)
		}
		return events
	}

	if trackChanged(prev, curr) {
		switch {
		case prev.HasTrack() && prev.State.Loaded() && wasCompleted(prev):
			add(EventTrackComplete)
		case prev.HasTrack() && prev.State.Loaded():
			add(EventTrackSkip)
		}
		add(EventTrackChange)
	}

	if curr.State.Status == core.StatusErroring && prev.State.Status != core.StatusErroring {
		add(EventError)
	}

	if prev.State.IsPlaying && !curr.State.IsPlaying {
		add(EventPause)
	} else if !prev.State.IsPlaying && curr.State.IsPlaying {
		add(EventResume)
	}

	if prev.State.Volume != curr.State.Volume {
		add(EventVolumeChange)
	}

	return events
}

// trackChanged returns true if a different track now occupies the slot.
func trackChanged(prev, curr *core.Snapshot) bool {
	if !curr.State.Loaded() {
		return false
	}
	if !prev.State.Loaded() || prev.Track == nil || curr.Track == nil {
		return true
	}
	return prev.State.CurrentIndex != curr.State.CurrentIndex ||
		prev.Track.AudioRef != curr.Track.AudioRef
}

// wasCompleted returns true if the track likely played to the end.
func wasCompleted(s *core.Snapshot) bool {
	if !s.State.HasDuration() {
		return false
	}
	return s.State.CurrentTime >= s.State.Duration*0.95
}

package player

import (
	"context"

	"github.com/tessro/tapedeck/internal/core"
)

// Handle exposes a Controller to other goroutines by running each command
// on the controller's loop.
type Handle struct {
	c     *Controller
	sched Scheduler
}

// NewHandle creates a handle for c, whose loop is sched.
func NewHandle(c *Controller, sched Scheduler) *Handle {
	return &Handle{c: c, sched: sched}
}

func (h *Handle) do(ctx context.Context, fn func()) error {
	return Do(ctx, h.sched, func() error {
		fn()
		return nil
	})
}

// Toggle plays or pauses.
func (h *Handle) Toggle(ctx context.Context) error {
	return h.do(ctx, h.c.TogglePlayPause)
}

// Next skips forward.
func (h *Handle) Next(ctx context.Context) error {
	return h.do(ctx, h.c.Next)
}

// Previous skips back.
func (h *Handle) Previous(ctx context.Context) error {
	return h.do(ctx, h.c.Previous)
}

// Select loads the track at index.
func (h *Handle) Select(ctx context.Context, index int, autoplay bool) error {
	return Do(ctx, h.sched, func() error {
		return h.c.Load(index, autoplay)
	})
}

// Seek moves to ratio of the current track.
func (h *Handle) Seek(ctx context.Context, ratio float64) error {
	return h.do(ctx, func() { h.c.Seek(ratio) })
}

// Volume sets the volume percent.
func (h *Handle) Volume(ctx context.Context, percent int) error {
	return h.do(ctx, func() { h.c.SetVolume(percent) })
}

// Snapshot returns the current player snapshot.
func (h *Handle) Snapshot(ctx context.Context) (*core.Snapshot, error) {
	var s *core.Snapshot
	err := h.do(ctx, func() { s = h.c.Snapshot() })
	return s, err
}

// Tracks returns the playlist. The playlist never changes, so this does
// not go through the loop.
func (h *Handle) Tracks(ctx context.Context) ([]core.Track, error) {
	return h.c.Playlist().Tracks(), nil
}

var _ core.Transport = (*Handle)(nil)

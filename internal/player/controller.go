// Package player owns the playback slot: it binds a playlist to the media
// resource and keeps the view in sync with the media's event stream.
package player

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/tapedeck/internal/core"
	tderrors "github.com/tessro/tapedeck/internal/errors"
	"github.com/tessro/tapedeck/internal/progress"
)

// DefaultSkipDelay is how long the controller waits after a media error
// before advancing to the next track.
const DefaultSkipDelay = 800 * time.Millisecond

// Controller drives a single media slot over a fixed playlist.
// It is not safe for concurrent use: every method must run on the loop
// behind its Scheduler.
type Controller struct {
	playlist  *core.Playlist
	media     core.Media
	view      core.View
	sched     Scheduler
	log       *zap.Logger
	skipDelay time.Duration

	state core.PlayerState
	// loads counts Load calls. Deferred work captured under an older
	// count belongs to a track that is no longer in the slot.
	loads uint64
	// mediaLoad is the media's generation for the current track.
	mediaLoad uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// WithSkipDelay sets the delay before auto-advancing past a failed track.
func WithSkipDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.skipDelay = d
		}
	}
}

// WithVolume sets the initial volume percent.
func WithVolume(percent int) Option {
	return func(c *Controller) { c.state.Volume = core.ClampPercent(percent) }
}

// New creates a controller. A nil view discards display updates.
func New(p *core.Playlist, media core.Media, view core.View, sched Scheduler, opts ...Option) *Controller {
	if view == nil {
		view = core.NopView{}
	}
	c := &Controller{
		playlist:  p,
		media:     media,
		view:      view,
		sched:     sched,
		log:       zap.NewNop(),
		skipDelay: DefaultSkipDelay,
		state: core.PlayerState{
			Status: core.StatusIdle,
			Button: core.ButtonPlay,
			Volume: 100,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("player")
	c.media.SetVolume(c.state.Volume)
	return c
}

// SetView replaces the rendering surface and pushes the current display
// to it.
func (c *Controller) SetView(v core.View) {
	if v == nil {
		v = core.NopView{}
	}
	c.view = v
	if track, ok := c.currentTrack(); ok {
		v.SetNowPlaying(nowPlaying(c.state.CurrentIndex, track))
	}
	c.refreshProgress()
	v.SetButton(c.state.Button)
}

// Playlist returns the playlist.
func (c *Controller) Playlist() *core.Playlist {
	return c.playlist
}

// State returns a copy of the player state.
func (c *Controller) State() core.PlayerState {
	return c.state
}

// Snapshot returns a copy of the player suitable for other goroutines.
func (c *Controller) Snapshot() *core.Snapshot {
	s := &core.Snapshot{
		Playlist:   c.playlist.Name(),
		TrackCount: c.playlist.Len(),
		State:      c.state,
		Progress:   progress.Compute(c.state.CurrentTime, c.state.Duration),
	}
	if track, ok := c.currentTrack(); ok {
		s.Track = &track
	}
	return s
}

// Load assigns the track at index to the media slot and resets the
// display. With autoplay, playback is attempted; a rejection leaves the
// player paused. An index outside the playlist changes nothing.
func (c *Controller) Load(index int, autoplay bool) error {
	track, ok := c.playlist.At(index)
	if !ok {
		c.log.Warn("track index out of range", zap.Int("index", index), zap.Int("tracks", c.playlist.Len()))
		return fmt.Errorf("load %d: %w", index, tderrors.ErrIndexOutOfRange)
	}

	c.loads++
	c.state.CurrentIndex = index
	c.state.Status = core.StatusLoading
	c.state.IsPlaying = false
	c.state.CurrentTime = 0
	c.state.Duration = 0
	c.state.Button = core.ButtonPlay

	c.log.Debug("loading track",
		zap.Int("index", index),
		zap.String("title", track.Title),
		zap.String("src", track.AudioRef),
		zap.Bool("autoplay", autoplay),
	)

	c.mediaLoad = c.media.Load(track.AudioRef)
	c.view.SetNowPlaying(nowPlaying(index, track))
	c.refreshProgress()
	c.view.SetButton(c.state.Button)

	if !autoplay {
		c.state.Status = core.StatusPaused
		return nil
	}
	c.play()
	return nil
}

// TogglePlayPause plays a paused track or pauses a playing one. Pausing
// takes effect immediately; the label after a play follows its outcome.
func (c *Controller) TogglePlayPause() {
	if !c.state.Loaded() || c.media.Source() == "" {
		c.log.Warn("toggle ignored: nothing loaded")
		return
	}

	if c.media.Paused() {
		c.play()
		return
	}

	c.media.Pause()
	c.state.IsPlaying = false
	c.state.Status = core.StatusPaused
	c.setButton(core.ButtonPlay)
}

// Next loads the following track, wrapping to the first, and plays it.
func (c *Controller) Next() {
	if err := c.Load(c.playlist.Next(c.state.CurrentIndex), true); err != nil {
		c.log.Warn("next failed", zap.Error(err))
	}
}

// Previous loads the preceding track, wrapping to the last, and plays it.
func (c *Controller) Previous() {
	if err := c.Load(c.playlist.Prev(c.state.CurrentIndex), true); err != nil {
		c.log.Warn("previous failed", zap.Error(err))
	}
}

// Seek moves playback to ratio of the duration, clamped to [0, 1], and
// refreshes the display at once. It does nothing while the duration is
// unknown.
func (c *Controller) Seek(ratio float64) {
	if !c.state.Loaded() {
		return
	}

	duration := c.state.Duration
	if !c.state.HasDuration() {
		duration = c.media.Duration()
	}
	target, ok := progress.Target(ratio, duration)
	if !ok {
		c.log.Debug("seek ignored: duration unknown", zap.Float64("ratio", ratio))
		return
	}

	c.media.Seek(target)
	c.state.Duration = duration
	c.state.CurrentTime = target
	c.refreshProgress()
}

// SeekPointer seeks to where x falls on a progress track spanning
// [left, left+width).
func (c *Controller) SeekPointer(x, left, width float64) {
	c.Seek(progress.Ratio(x, left, width))
}

// SetVolume sets the volume percent, clamped to [0, 100].
func (c *Controller) SetVolume(percent int) {
	c.state.Volume = core.ClampPercent(percent)
	c.media.SetVolume(c.state.Volume)
}

// HandleMediaEvent applies a media lifecycle event. It returns false when
// the event belongs to a track that is no longer loaded and was ignored.
func (c *Controller) HandleMediaEvent(ev core.MediaEvent) bool {
	track, ok := c.currentTrack()
	if !ok || ev.Source != track.AudioRef || (ev.Load != 0 && ev.Load != c.mediaLoad) {
		c.log.Debug("stale media event",
			zap.Stringer("kind", ev.Kind),
			zap.String("src", ev.Source),
			zap.Uint64("load", ev.Load),
		)
		return false
	}

	switch ev.Kind {
	case core.MediaMetadataReady:
		c.state.Duration = ev.Duration
		c.refreshProgress()

	case core.MediaTimeUpdate:
		c.state.CurrentTime = ev.Time
		c.refreshProgress()

	case core.MediaPlaying:
		c.state.IsPlaying = true
		c.state.Status = core.StatusPlaying
		c.setButton(core.ButtonPause)

	case core.MediaPaused:
		c.state.IsPlaying = false
		if c.state.Status != core.StatusErroring {
			c.state.Status = core.StatusPaused
		}
		c.setButton(core.ButtonPlay)

	case core.MediaEnded:
		c.state.IsPlaying = false
		c.state.Status = core.StatusPaused
		if c.state.HasDuration() {
			c.state.CurrentTime = c.state.Duration
			c.refreshProgress()
		}
		c.setButton(core.ButtonPlay)

	case core.MediaError:
		c.fail(ev.Err)
	}
	return true
}

// play asks the media to start and settles the label on the outcome.
func (c *Controller) play() {
	loads := c.loads
	c.sched.Await(c.media.Play(context.Background()), func(err error) {
		if loads != c.loads {
			c.log.Debug("stale play outcome", zap.Error(err))
			return
		}
		if err != nil {
			c.log.Warn("playback rejected", zap.Int("index", c.state.CurrentIndex), zap.Error(err))
			c.state.IsPlaying = false
			if c.state.Status != core.StatusErroring {
				c.state.Status = core.StatusPaused
			}
			c.setButton(core.ButtonPlay)
			return
		}
		c.syncFromMedia()
	})
}

// syncFromMedia re-derives the playing flag and label from the media.
func (c *Controller) syncFromMedia() {
	if c.media.Paused() {
		c.state.IsPlaying = false
		c.state.Status = core.StatusPaused
		c.setButton(core.ButtonPlay)
		return
	}
	c.state.IsPlaying = true
	c.state.Status = core.StatusPlaying
	c.setButton(core.ButtonPause)
}

func (c *Controller) fail(err error) {
	c.log.Error("media error",
		zap.Int("index", c.state.CurrentIndex),
		zap.String("src", c.media.Source()),
		zap.Error(err),
	)
	c.state.Status = core.StatusErroring
	c.state.IsPlaying = false
	c.setButton(core.ButtonPlay)

	loads := c.loads
	c.sched.After(c.skipDelay, func() {
		if loads != c.loads {
			c.log.Debug("auto-advance dropped: track changed")
			return
		}
		c.Next()
	})
}

func (c *Controller) setButton(b core.ButtonState) {
	c.state.Button = b
	c.view.SetButton(b)
}

func (c *Controller) refreshProgress() {
	c.view.SetProgress(progress.Compute(c.state.CurrentTime, c.state.Duration))
}

func (c *Controller) currentTrack() (core.Track, bool) {
	if !c.state.Loaded() {
		return core.Track{}, false
	}
	return c.playlist.At(c.state.CurrentIndex)
}

func nowPlaying(index int, t core.Track) core.NowPlaying {
	return core.NowPlaying{
		Index:   index,
		Title:   t.Title,
		Artist:  t.Artist,
		Artwork: t.ArtworkRef,
	}
}

// Package audio implements the media resource on top of beep: one playback
// slot, decoded asynchronously, reporting its lifecycle as core.MediaEvents.
package audio

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"go.uber.org/zap"

	"github.com/tessro/tapedeck/internal/core"
	tderrors "github.com/tessro/tapedeck/internal/errors"
)

// DefaultSampleRate is the output rate every stream is resampled to.
const DefaultSampleRate = beep.SampleRate(44100)

var (
	errSuperseded = errors.New("superseded by a newer load")
	errAborted    = errors.New("paused before playback started")
	errClosed     = errors.New("player closed")
)

// Player is a beep-backed core.Media.
type Player struct {
	out     Output
	decode  Decoder
	rate    beep.SampleRate
	tick    time.Duration
	log     *zap.Logger
	events  chan core.MediaEvent
	done    chan struct{}
	closing sync.Once

	mu       sync.Mutex
	src      string
	gen      uint64
	plays    uint64
	ready    chan struct{}
	loadErr  error
	stream   beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	attached bool
	paused   bool
	percent  int
}

// Option configures a Player.
type Option func(*Player)

// WithOutput replaces the speaker output.
func WithOutput(out Output) Option {
	return func(p *Player) { p.out = out }
}

// WithDecoder replaces the file decoder.
func WithDecoder(d Decoder) Option {
	return func(p *Player) { p.decode = d }
}

// WithTickInterval sets how often time updates are emitted while playing.
func WithTickInterval(d time.Duration) Option {
	return func(p *Player) {
		if d > 0 {
			p.tick = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *Player) { p.log = log }
}

// WithVolume sets the initial volume percent.
func WithVolume(percent int) Option {
	return func(p *Player) { p.percent = core.ClampPercent(percent) }
}

// NewPlayer creates a player and starts its time update ticker.
// Call Close to stop it.
func NewPlayer(opts ...Option) *Player {
	p := &Player{
		decode:  Decode,
		rate:    DefaultSampleRate,
		tick:    250 * time.Millisecond,
		log:     zap.NewNop(),
		events:  make(chan core.MediaEvent, 64),
		done:    make(chan struct{}),
		paused:  true,
		percent: 100,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.out == nil {
		p.out = NewSpeakerOutput(0)
	}
	p.log = p.log.Named("audio")

	go p.run()
	return p
}

// Events returns the media event channel.
func (p *Player) Events() <-chan core.MediaEvent {
	return p.events
}

// Load assigns ref to the playback slot. Decoding happens in the
// background; the outcome arrives as MetadataReady or Error. Load returns
// the generation stamped on every event for this load.
func (p *Player) Load(ref string) uint64 {
	p.mu.Lock()
	p.detachLocked()
	p.gen++
	gen := p.gen
	p.src = ref
	p.loadErr = nil
	p.paused = true
	ready := make(chan struct{})
	p.ready = ready
	p.mu.Unlock()

	p.log.Debug("loading", zap.String("src", ref), zap.Uint64("gen", gen))
	go p.load(gen, ref, ready)
	return gen
}

func (p *Player) load(gen uint64, ref string, ready chan struct{}) {
	defer close(ready)

	stream, format, err := p.decode(ref)

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		if err == nil {
			_ = stream.Close()
		}
		return
	}

	if err != nil {
		p.loadErr = err
		p.mu.Unlock()
		p.log.Warn("load failed", zap.String("src", ref), zap.Error(err))
		p.emit(core.MediaEvent{Kind: core.MediaError, Load: gen, Source: ref, Err: err})
		return
	}

	p.stream = stream
	p.format = format
	p.ctrl = &beep.Ctrl{Streamer: stream, Paused: true}
	p.volume = &effects.Volume{
		Streamer: beep.Resample(4, format.SampleRate, p.rate, p.ctrl),
		Base:     2,
		Volume:   gain(p.percent),
		Silent:   p.percent == 0,
	}
	duration := format.SampleRate.D(stream.Len()).Seconds()
	p.mu.Unlock()

	p.emit(core.MediaEvent{Kind: core.MediaMetadataReady, Load: gen, Source: ref, Duration: duration})
}

// Play starts playback once loading has finished. The returned channel
// yields nil when playback started, or the reason it could not. The player
// reports itself unpaused as soon as Play is called; a Pause before the
// outcome cancels the pending start.
func (p *Player) Play(ctx context.Context) <-chan error {
	result := make(chan error, 1)

	p.mu.Lock()
	if p.src == "" {
		p.mu.Unlock()
		result <- tderrors.ErrNoSource
		return result
	}
	p.plays++
	gen, play, ready := p.gen, p.plays, p.ready
	p.paused = false
	p.mu.Unlock()

	go func() {
		var err error
		select {
		case <-ready:
			err = p.start(gen, play)
		case <-ctx.Done():
			err = ctx.Err()
		case <-p.done:
			err = errClosed
		}
		if err != nil {
			p.rejected(gen, play)
		}
		result <- err
	}()

	return result
}

func (p *Player) start(gen, play uint64) error {
	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return errSuperseded
	}
	if play != p.plays {
		p.mu.Unlock()
		return errAborted
	}
	if p.loadErr != nil {
		err := p.loadErr
		p.mu.Unlock()
		return err
	}
	if err := p.out.Init(p.rate); err != nil {
		p.mu.Unlock()
		return err
	}

	if !p.attached {
		p.out.Play(beep.Seq(p.volume, beep.Callback(func() {
			// Runs on the device goroutine with the output locked.
			go p.ended(gen)
		})))
		p.attached = true
	}

	p.out.Lock()
	p.ctrl.Paused = false
	p.out.Unlock()
	src := p.src
	p.mu.Unlock()

	p.emit(core.MediaEvent{Kind: core.MediaPlaying, Load: gen, Source: src})
	return nil
}

// rejected restores the paused flag after a failed play, unless a newer
// load, play or pause has taken over since.
func (p *Player) rejected(gen, play uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen == p.gen && play == p.plays {
		p.paused = true
	}
}

func (p *Player) ended(gen uint64) {
	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	p.paused = true
	src := p.src
	p.mu.Unlock()

	p.emit(core.MediaEvent{Kind: core.MediaEnded, Load: gen, Source: src})
}

// Pause pauses playback immediately and cancels a pending play.
func (p *Player) Pause() {
	p.mu.Lock()
	p.plays++
	wasPlaying := !p.paused
	p.paused = true
	if p.ctrl != nil {
		p.out.Lock()
		p.ctrl.Paused = true
		p.out.Unlock()
	}
	gen, src := p.gen, p.src
	p.mu.Unlock()

	if wasPlaying {
		p.tryEmit(core.MediaEvent{Kind: core.MediaPaused, Load: gen, Source: src})
	}
}

// Seek moves the playback position. It is ignored until metadata is ready.
func (p *Player) Seek(seconds float64) {
	p.mu.Lock()
	if p.stream == nil || math.IsNaN(seconds) {
		p.mu.Unlock()
		return
	}

	n := p.format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	if n < 0 {
		n = 0
	}
	if length := p.stream.Len(); n > length {
		n = length
	}

	p.out.Lock()
	err := p.stream.Seek(n)
	p.out.Unlock()

	gen, src := p.gen, p.src
	pos := p.format.SampleRate.D(n).Seconds()
	p.mu.Unlock()

	if err != nil {
		p.log.Warn("seek failed", zap.String("src", src), zap.Error(err))
		return
	}
	p.tryEmit(core.MediaEvent{Kind: core.MediaTimeUpdate, Load: gen, Source: src, Time: pos})
}

// SetVolume sets the output volume in percent.
func (p *Player) SetVolume(percent int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.percent = core.ClampPercent(percent)
	if p.volume != nil {
		p.out.Lock()
		p.volume.Volume = gain(p.percent)
		p.volume.Silent = p.percent == 0
		p.out.Unlock()
	}
}

// Source returns the loaded audio ref, or "" if none.
func (p *Player) Source() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.src
}

// Paused reports whether playback is paused. It turns false when Play is
// called and true again on Pause, a rejected play, or the end of the stream.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// CurrentTime returns the playback position in seconds.
func (p *Player) CurrentTime() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked()
}

// Duration returns the stream length in seconds, or 0 while unknown.
func (p *Player) Duration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stream == nil {
		return 0
	}
	return p.format.SampleRate.D(p.stream.Len()).Seconds()
}

// Close stops the ticker and releases the current stream.
func (p *Player) Close() error {
	p.closing.Do(func() {
		close(p.done)
		p.mu.Lock()
		p.detachLocked()
		p.mu.Unlock()
	})
	return nil
}

func (p *Player) run() {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			p.mu.Lock()
			if p.stream == nil || p.paused {
				p.mu.Unlock()
				continue
			}
			ev := core.MediaEvent{Kind: core.MediaTimeUpdate, Load: p.gen, Source: p.src, Time: p.positionLocked()}
			p.mu.Unlock()
			p.tryEmit(ev)
		}
	}
}

func (p *Player) positionLocked() float64 {
	if p.stream == nil {
		return 0
	}
	p.out.Lock()
	pos := p.stream.Position()
	p.out.Unlock()
	return p.format.SampleRate.D(pos).Seconds()
}

// detachLocked drops the current stream from the device and closes it.
func (p *Player) detachLocked() {
	if p.attached {
		p.out.Clear()
		p.attached = false
	}
	if p.stream != nil {
		if err := p.stream.Close(); err != nil {
			p.log.Debug("close stream", zap.Error(err))
		}
	}
	p.stream = nil
	p.ctrl = nil
	p.volume = nil
}

// emit blocks until the event is delivered or the player is closed.
func (p *Player) emit(ev core.MediaEvent) {
	select {
	case p.events <- ev:
	case <-p.done:
	}
}

// tryEmit drops the event if the buffer is full. Used on paths that may run
// on the consumer's own goroutine.
func (p *Player) tryEmit(ev core.MediaEvent) {
	select {
	case p.events <- ev:
	default:
		p.log.Warn("event buffer full, dropping event", zap.Stringer("kind", ev.Kind))
	}
}

// gain converts a volume percent to effects.Volume's base-2 exponent.
func gain(percent int) float64 {
	if percent <= 0 {
		return 0
	}
	return math.Log2(float64(percent) / 100)
}

var _ core.Media = (*Player)(nil)

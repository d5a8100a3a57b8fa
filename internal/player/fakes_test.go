package player

import (
	"context"
	"sort"
	"time"

	"github.com/tessro/tapedeck/internal/core"
)

// fakeMedia is an in-memory core.Media. Play settles immediately with
// playErr unless hold is set, in which case the outcome waits for settle.
type fakeMedia struct {
	src      string
	paused   bool
	time     float64
	duration float64
	volume   int
	playErr  error
	hold     bool
	pending  chan error

	loads  []string
	plays  int
	pauses int
	seeks  []float64
	events chan core.MediaEvent
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{paused: true, events: make(chan core.MediaEvent, 16)}
}

func (m *fakeMedia) Load(ref string) uint64 {
	m.src = ref
	m.paused = true
	m.time = 0
	m.duration = 0
	m.loads = append(m.loads, ref)
	return m.gen()
}

// gen is the generation of the latest load.
func (m *fakeMedia) gen() uint64 { return uint64(len(m.loads)) }

func (m *fakeMedia) Play(context.Context) <-chan error {
	m.plays++
	m.paused = false
	ch := make(chan error, 1)
	if m.hold {
		m.pending = ch
		return ch
	}
	if m.playErr != nil {
		m.paused = true
	}
	ch <- m.playErr
	return ch
}

// settle delivers the outcome of a held play.
func (m *fakeMedia) settle(err error) {
	if err != nil {
		m.paused = true
	}
	m.pending <- err
	m.pending = nil
}

func (m *fakeMedia) Pause() {
	m.pauses++
	m.paused = true
}

func (m *fakeMedia) Seek(seconds float64) {
	m.seeks = append(m.seeks, seconds)
	m.time = seconds
}

func (m *fakeMedia) SetVolume(percent int)          { m.volume = percent }
func (m *fakeMedia) Source() string                 { return m.src }
func (m *fakeMedia) Paused() bool                   { return m.paused }
func (m *fakeMedia) CurrentTime() float64           { return m.time }
func (m *fakeMedia) Duration() float64              { return m.duration }
func (m *fakeMedia) Events() <-chan core.MediaEvent { return m.events }

// fakeView records the last value pushed to each region.
type fakeView struct {
	nowPlaying core.NowPlaying
	progress   core.Progress
	button     core.ButtonState
	buttons    []core.ButtonState
}

func (v *fakeView) SetNowPlaying(np core.NowPlaying) { v.nowPlaying = np }
func (v *fakeView) SetProgress(p core.Progress)      { v.progress = p }
func (v *fakeView) SetButton(b core.ButtonState) {
	v.button = b
	v.buttons = append(v.buttons, b)
}

// manualScheduler runs queued work only when the test says so, on a
// virtual clock.
type manualScheduler struct {
	now    time.Duration
	posted []func()
	timers []timer
	awaits []await
}

type timer struct {
	at time.Duration
	fn func()
}

type await struct {
	ch <-chan error
	fn func(error)
}

func (s *manualScheduler) Post(fn func()) { s.posted = append(s.posted, fn) }

func (s *manualScheduler) After(d time.Duration, fn func()) {
	s.timers = append(s.timers, timer{at: s.now + d, fn: fn})
}

func (s *manualScheduler) Await(ch <-chan error, fn func(error)) {
	s.awaits = append(s.awaits, await{ch: ch, fn: fn})
}

// flush runs posted work and settled awaits until nothing is left.
func (s *manualScheduler) flush() {
	for {
		progressed := false

		pending := s.awaits
		s.awaits = nil
		for _, a := range pending {
			select {
			case err := <-a.ch:
				a.fn(err)
				progressed = true
			default:
				s.awaits = append(s.awaits, a)
			}
		}

		posted := s.posted
		s.posted = nil
		for _, fn := range posted {
			fn()
			progressed = true
		}

		if !progressed {
			return
		}
	}
}

// advance moves the clock, firing due timers in order.
func (s *manualScheduler) advance(d time.Duration) {
	s.now += d
	sort.SliceStable(s.timers, func(i, j int) bool { return s.timers[i].at < s.timers[j].at })

	for len(s.timers) > 0 && s.timers[0].at <= s.now {
		t := s.timers[0]
		s.timers = s.timers[1:]
		t.fn()
		s.flush()
	}
	s.flush()
}

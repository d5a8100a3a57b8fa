// Package input binds pointer, keyboard and media lifecycle events to
// playback commands.
package input

import (
	"go.uber.org/zap"

	"github.com/tessro/tapedeck/internal/core"
)

// Controls is the playback surface the dispatcher drives.
type Controls interface {
	TogglePlayPause()
	Next()
	Previous()
	Load(index int, autoplay bool) error
	SeekPointer(x, left, width float64)
	HandleMediaEvent(ev core.MediaEvent) bool
}

// Key is a transport-relevant key.
type Key int

const (
	KeyOther Key = iota
	KeySpace
	KeyEnter
	KeyArrowLeft
	KeyArrowRight
)

// FocusKind says what currently holds keyboard focus.
type FocusKind int

const (
	FocusNone FocusKind = iota
	// FocusText is a text field; transport shortcuts are suppressed.
	FocusText
	// FocusEntry is a playlist entry; Enter and Space activate it.
	FocusEntry
)

// Focus describes the focused element. Entry is the playlist index when
// Kind is FocusEntry.
type Focus struct {
	Kind  FocusKind
	Entry int
}

// Control is a transport button.
type Control int

const (
	ControlPlay Control = iota
	ControlNext
	ControlPrevious
)

// Dispatcher routes input to Controls. Every method must run on the
// controller's loop.
type Dispatcher struct {
	controls Controls
	log      *zap.Logger
}

// New creates a dispatcher.
func New(c Controls, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{controls: c, log: log.Named("input")}
}

// Key handles a key press. It returns true when the key was consumed and
// its default action should be prevented.
func (d *Dispatcher) Key(k Key, focus Focus) bool {
	if focus.Kind == FocusText {
		return false
	}

	if focus.Kind == FocusEntry && (k == KeyEnter || k == KeySpace) {
		d.Select(focus.Entry)
		return true
	}

	switch k {
	case KeySpace:
		d.controls.TogglePlayPause()
	case KeyArrowRight:
		d.controls.Next()
	case KeyArrowLeft:
		d.controls.Previous()
	default:
		return false
	}
	return true
}

// Click handles a press on a transport button.
func (d *Dispatcher) Click(c Control) bool {
	switch c {
	case ControlPlay:
		d.controls.TogglePlayPause()
	case ControlNext:
		d.controls.Next()
	case ControlPrevious:
		d.controls.Previous()
	default:
		return false
	}
	return true
}

// Pointer handles a press at x on the progress track spanning
// [left, left+width).
func (d *Dispatcher) Pointer(x, left, width float64) bool {
	d.controls.SeekPointer(x, left, width)
	return true
}

// Select activates playlist entry index and plays it.
func (d *Dispatcher) Select(index int) {
	if err := d.controls.Load(index, true); err != nil {
		d.log.Warn("entry activation failed", zap.Int("index", index), zap.Error(err))
	}
}

// Media forwards a media event. A track ending advances to the next one.
func (d *Dispatcher) Media(ev core.MediaEvent) {
	if !d.controls.HandleMediaEvent(ev) {
		return
	}
	if ev.Kind == core.MediaEnded {
		d.controls.Next()
	}
}

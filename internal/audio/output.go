package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"

	tderrors "github.com/tessro/tapedeck/internal/errors"
)

// Output is the sound device. Lock/Unlock guard streamer state that the
// device goroutine reads while mixing.
type Output interface {
	Init(rate beep.SampleRate) error
	Play(s beep.Streamer)
	Clear()
	Lock()
	Unlock()
}

// SpeakerOutput plays through the system's default device.
type SpeakerOutput struct {
	once   sync.Once
	err    error
	buffer time.Duration
}

// NewSpeakerOutput creates a speaker output with the given buffer length.
func NewSpeakerOutput(buffer time.Duration) *SpeakerOutput {
	if buffer <= 0 {
		buffer = 100 * time.Millisecond
	}
	return &SpeakerOutput{buffer: buffer}
}

// Init opens the device on first use. A failure sticks: later calls return
// the same error.
func (o *SpeakerOutput) Init(rate beep.SampleRate) error {
	o.once.Do(func() {
		if err := speaker.Init(rate, rate.N(o.buffer)); err != nil {
			o.err = fmt.Errorf("%w: %v", tderrors.ErrNoOutput, err)
		}
	})
	return o.err
}

func (o *SpeakerOutput) Play(s beep.Streamer) { speaker.Play(s) }
func (o *SpeakerOutput) Clear()               { speaker.Clear() }
func (o *SpeakerOutput) Lock()                { speaker.Lock() }
func (o *SpeakerOutput) Unlock()              { speaker.Unlock() }

var _ Output = (*SpeakerOutput)(nil)

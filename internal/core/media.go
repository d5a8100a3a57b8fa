package core

import "context"

// MediaEventKind identifies a lifecycle signal from the media resource.
type MediaEventKind int

const (
	MediaMetadataReady MediaEventKind = iota
	MediaTimeUpdate
	MediaPlaying
	MediaPaused
	MediaEnded
	MediaError
)

// String returns the event name.
func (k MediaEventKind) String() string {
	switch k {
	case MediaMetadataReady:
		return "metadata_ready"
	case MediaTimeUpdate:
		return "time_update"
	case MediaPlaying:
		return "playing"
	case MediaPaused:
		return "paused"
	case MediaEnded:
		return "ended"
	case MediaError:
		return "error"
	default:
		return "unknown"
	}
}

// MediaEvent is emitted by a Media on its event channel.
type MediaEvent struct {
	Kind MediaEventKind
	// Load is the generation returned by the Load call the event belongs
	// to. Zero means the media does not track generations.
	Load uint64
	// Source is the audio ref the event belongs to.
	Source string
	// Time is the playback position in seconds (TimeUpdate).
	Time float64
	// Duration in seconds (MetadataReady).
	Duration float64
	Err      error
}

// Media is the single playback resource. Commands are synchronous; their
// effects are reported later on Events. Play is the only command with an
// asynchronous outcome: the returned channel yields exactly one value, nil
// on success.
type Media interface {
	Load(ref string) uint64
	Play(ctx context.Context) <-chan error
	Pause()
	Seek(seconds float64)
	SetVolume(percent int)

	Source() string
	Paused() bool
	CurrentTime() float64
	Duration() float64

	Events() <-chan MediaEvent
}

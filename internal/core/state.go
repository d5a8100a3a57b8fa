package core

import (
	"fmt"
	"math"
)

// Status is the playback controller's state machine position.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusPlaying
	StatusPaused
	StatusErroring
)

// String returns a lowercase name for the status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusErroring:
		return "erroring"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for _, v := range []Status{StatusIdle, StatusLoading, StatusPlaying, StatusPaused, StatusErroring} {
		if v.String() == string(text) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// ButtonState is what the play/pause control currently offers to do.
type ButtonState int

const (
	ButtonPlay ButtonState = iota
	ButtonPause
)

// String returns the button's label.
func (b ButtonState) String() string {
	if b == ButtonPause {
		return "Pause"
	}
	return "Play"
}

// MarshalText implements encoding.TextMarshaler.
func (b ButtonState) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *ButtonState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Play":
		*b = ButtonPlay
	case "Pause":
		*b = ButtonPause
	default:
		return fmt.Errorf("unknown button state %q", text)
	}
	return nil
}

// PlayerState is the single playback slot owned by the controller.
// Duration is 0 while unknown.
type PlayerState struct {
	CurrentIndex int         `json:"current_index"`
	Status       Status      `json:"status"`
	IsPlaying    bool        `json:"is_playing"`
	CurrentTime  float64     `json:"current_time"`
	Duration     float64     `json:"duration"`
	Button       ButtonState `json:"button"`
	Volume       int         `json:"volume"`
}

// HasDuration returns true if the duration is known, finite and positive.
func (s *PlayerState) HasDuration() bool {
	return s != nil && !math.IsNaN(s.Duration) && !math.IsInf(s.Duration, 0) && s.Duration > 0
}

// Loaded returns true once a track has been assigned to the media slot.
func (s *PlayerState) Loaded() bool {
	return s != nil && s.Status != StatusIdle
}

// ClampPercent limits a volume percent to [0, 100].
func ClampPercent(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// Progress is the formatted progress display.
type Progress struct {
	Percent  float64 `json:"percent"`
	Current  string  `json:"current"`
	Duration string  `json:"duration"`
}

// NowPlaying is the now-playing display for the loaded track.
type NowPlaying struct {
	Index   int    `json:"index"`
	Title   string `json:"title"`
	Artist  string `json:"artist"`
	Artwork string `json:"artwork"`
}

// Snapshot is a point-in-time copy of the player that is safe to share
// between goroutines.
type Snapshot struct {
	Session    string      `json:"session,omitempty"`
	Playlist   string      `json:"playlist"`
	TrackCount int         `json:"track_count"`
	Track      *Track      `json:"track,omitempty"`
	State      PlayerState `json:"state"`
	Progress   Progress    `json:"progress"`
}

// HasTrack returns true if the snapshot has a loaded track.
func (s *Snapshot) HasTrack() bool {
	return s != nil && s.Track != nil
}

package tail

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/tessro/tapedeck/internal/core"
)

var (
	trackOne = &core.Track{Title: "One", Artist: "A", AudioRef: "one.wav"}
	trackTwo = &core.Track{Title: "Two", Artist: "B", AudioRef: "two.wav"}
)

func snap(index int, track *core.Track, status core.Status, playing bool, at, dur float64, vol int) *core.Snapshot {
	return &core.Snapshot{
		TrackCount: 2,
		Track:      track,
		State: core.PlayerState{
			CurrentIndex: index,
			Status:       status,
			IsPlaying:    playing,
			CurrentTime:  at,
			Duration:     dur,
			Volume:       vol,
		},
	}
}

func types(events []Event) []EventType {
	out := make([]EventType, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

func equalTypes(a, b []EventType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDiffStates(t *testing.T) {
	now := time.Unix(0, 0)

	tests := []struct {
		name string
		prev *core.Snapshot
		curr *core.Snapshot
		want []EventType
	}{
		{
			name: "first snapshot with loaded track",
			curr: snap(0, trackOne, core.StatusPlaying, true, 0, 100, 80),
			want: []EventType{EventTrackChange},
		},
		{
			name: "first snapshot idle",
			curr: snap(0, trackOne, core.StatusIdle, false, 0, 0, 80),
			want: nil,
		},
		{
			name: "nil current",
			prev: snap(0, trackOne, core.StatusPlaying, true, 0, 100, 80),
			want: nil,
		},
		{
			name: "idle to loaded",
			prev: snap(0, trackOne, core.StatusIdle, false, 0, 0, 80),
			curr: snap(0, trackOne, core.StatusLoading, false, 0, 0, 80),
			want: []EventType{EventTrackChange},
		},
		{
			name: "skip mid-track",
			prev: snap(0, trackOne, core.StatusPlaying, true, 10, 100, 80),
			curr: snap(1, trackTwo, core.StatusPlaying, true, 0, 0, 80),
			want: []EventType{EventTrackSkip, EventTrackChange},
		},
		{
			name: "complete near end",
			prev: snap(0, trackOne, core.StatusPlaying, true, 99, 100, 80),
			curr: snap(1, trackTwo, core.StatusPlaying, true, 0, 0, 80),
			want: []EventType{EventTrackComplete, EventTrackChange},
		},
		{
			name: "pause",
			prev: snap(0, trackOne, core.StatusPlaying, true, 10, 100, 80),
			curr: snap(0, trackOne, core.StatusPaused, false, 10, 100, 80),
			want: []EventType{EventPause},
		},
		{
			name: "resume",
			prev: snap(0, trackOne, core.StatusPaused, false, 10, 100, 80),
			curr: snap(0, trackOne, core.StatusPlaying, true, 10, 100, 80),
			want: []EventType{EventResume},
		},
		{
			name: "error",
			prev: snap(0, trackOne, core.StatusLoading, false, 0, 0, 80),
			curr: snap(0, trackOne, core.StatusErroring, false, 0, 0, 80),
			want: []EventType{EventError},
		},
		{
			name: "still erroring",
			prev: snap(0, trackOne, core.StatusErroring, false, 0, 0, 80),
			curr: snap(0, trackOne, core.StatusErroring, false, 0, 0, 80),
			want: nil,
		},
		{
			name: "volume",
			prev: snap(0, trackOne, core.StatusPaused, false, 0, 100, 80),
			curr: snap(0, trackOne, core.StatusPaused, false, 0, 100, 50),
			want: []EventType{EventVolumeChange},
		},
		{
			name: "time only",
			prev: snap(0, trackOne, core.StatusPlaying, true, 1, 100, 80),
			curr: snap(0, trackOne, core.StatusPlaying, true, 2, 100, 80),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := types(diffStates(tt.prev, tt.curr, now))
			if !equalTypes(got, tt.want) {
				t.Errorf("events = %v, want %v", got, tt.want)
			}
		})
	}
}

// sliceSource replays a fixed list of snapshots.
type sliceSource []*core.Snapshot

func (s sliceSource) Watch(ctx context.Context, fn func(*core.Snapshot) error) error {
	for _, snap := range s {
		if err := fn(snap); err != nil {
			return err
		}
	}
	return nil
}

func TestWatcher(t *testing.T) {
	src := sliceSource{
		snap(0, trackOne, core.StatusPaused, false, 0, 100, 80),
		snap(0, trackOne, core.StatusPlaying, true, 0, 100, 80),
		snap(1, trackTwo, core.StatusPlaying, true, 0, 0, 80),
	}
	w := NewWatcher(src)

	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()

	var got []EventType
	for e := range w.Events() {
		got = append(got, e.Type)
	}
	if err := <-done; err != nil {
		t.Fatalf("Start: %v", err)
	}

	want := []EventType{EventTrackChange, EventResume, EventTrackSkip, EventTrackChange}
	if !equalTypes(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestFormatLine(t *testing.T) {
	ts := time.Date(2024, 1, 1, 12, 30, 45, 0, time.UTC)
	prev := snap(0, trackOne, core.StatusPlaying, true, 10, 100, 80)
	curr := snap(1, trackTwo, core.StatusPlaying, true, 0, 0, 55)

	tests := []struct {
		name  string
		opts  []FormatterOption
		event Event
		want  string
	}{
		{"change", []FormatterOption{WithEmoji(false)}, Event{Type: EventTrackChange, Current: curr}, "Now playing: B — Two"},
		{"skip", []FormatterOption{WithEmoji(false)}, Event{Type: EventTrackSkip, Previous: prev, Current: curr}, "Skipped: A — One"},
		{"complete", []FormatterOption{WithEmoji(false)}, Event{Type: EventTrackComplete, Previous: prev}, "Finished: A — One"},
		{"volume", []FormatterOption{WithEmoji(false)}, Event{Type: EventVolumeChange, Current: curr}, "Volume: 55%"},
		{"error", []FormatterOption{WithEmoji(false)}, Event{Type: EventError, Current: curr}, "Failed to play: B — Two"},
		{"pause with emoji", nil, Event{Type: EventPause}, "⏸️ Paused"},
		{"timestamp", []FormatterOption{WithEmoji(false), WithTimestamp(true)}, Event{Type: EventResume, Timestamp: ts}, "12:30:45 Resumed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewFormatter(tt.opts...).Format(tt.event)
			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatTemplate(t *testing.T) {
	curr := snap(1, trackTwo, core.StatusPlaying, true, 65, 200, 55)
	f := NewFormatter(WithTemplate("{{.Type}} #{{.Index}} {{.Artist}}/{{.Title}} {{.Position}}/{{.Duration}} {{.Status}} {{.Volume}}"))

	got := f.Format(Event{Type: EventTrackChange, Current: curr})
	want := "track_change #2 B/Two 1:05/3:20 playing 55"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestFormatTemplateInvalid(t *testing.T) {
	if err := ValidateTemplate("{{.Title"); err == nil {
		t.Error("ValidateTemplate() = nil, want error")
	}

	// An unparseable template falls back to the line format.
	f := NewFormatter(WithEmoji(false), WithTemplate("{{.Title"))
	if got := f.Format(Event{Type: EventPause}); !strings.HasPrefix(got, "Paused") {
		t.Errorf("Format() = %q, want line fallback", got)
	}
}

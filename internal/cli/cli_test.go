package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/tessro/tapedeck/internal/core"
	tderrors "github.com/tessro/tapedeck/internal/errors"
)

func TestParseSeek(t *testing.T) {
	tests := []struct {
		arg      string
		duration float64
		want     float64
		wantErr  bool
	}{
		{"0.5", 0, 0.5, false},
		{"0", 100, 0, false},
		{"1", 100, 1, false},
		{"25%", 0, 0.25, false},
		{"1:30", 180, 0.5, false},
		{" 0:45 ", 90, 0.5, false},
		{"1:30", 0, 0, true},
		{"4:00", 180, 0, true},
		{"1:75", 180, 0, true},
		{"1.5", 100, 0, true},
		{"-0.1", 100, 0, true},
		{"abc", 100, 0, true},
		{"x%", 100, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseSeek(tt.arg, tt.duration)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSeek(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("parseSeek(%q) = %v, want %v", tt.arg, got, tt.want)
			}
		})
	}
}

func TestParseSeekUnknownDuration(t *testing.T) {
	_, err := parseSeek("0:10", 0)
	if !errors.Is(err, errUnknownDuration) {
		t.Errorf("error = %v, want errUnknownDuration", err)
	}
}

// fakeTransport records commands for shell tests.
type fakeTransport struct {
	calls  []string
	snap   core.Snapshot
	tracks []core.Track
}

func newFakeTransport() *fakeTransport {
	tracks := []core.Track{
		{Title: "One", Artist: "A", AudioRef: "one.wav"},
		{Title: "Two", AudioRef: "two.wav"},
	}
	return &fakeTransport{
		tracks: tracks,
		snap: core.Snapshot{
			Playlist:   "Mix",
			TrackCount: 2,
			Track:      &tracks[0],
			State: core.PlayerState{
				Status:      core.StatusPlaying,
				IsPlaying:   true,
				CurrentTime: 30,
				Duration:    120,
				Volume:      70,
			},
		},
	}
}

func (f *fakeTransport) Toggle(ctx context.Context) error {
	f.calls = append(f.calls, "toggle")
	return nil
}

func (f *fakeTransport) Next(ctx context.Context) error {
	f.calls = append(f.calls, "next")
	return nil
}

func (f *fakeTransport) Previous(ctx context.Context) error {
	f.calls = append(f.calls, "previous")
	return nil
}

func (f *fakeTransport) Select(ctx context.Context, index int, autoplay bool) error {
	if index < 0 || index >= len(f.tracks) {
		return tderrors.ErrIndexOutOfRange
	}
	f.calls = append(f.calls, fmt.Sprintf("select %d %t", index, autoplay))
	return nil
}

func (f *fakeTransport) Seek(ctx context.Context, ratio float64) error {
	f.calls = append(f.calls, fmt.Sprintf("seek %.2f", ratio))
	return nil
}

func (f *fakeTransport) Volume(ctx context.Context, percent int) error {
	f.calls = append(f.calls, fmt.Sprintf("volume %d", percent))
	return nil
}

func (f *fakeTransport) Snapshot(ctx context.Context) (*core.Snapshot, error) {
	snap := f.snap
	return &snap, nil
}

func (f *fakeTransport) Tracks(ctx context.Context) ([]core.Track, error) {
	return f.tracks, nil
}

func TestShellCommands(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"toggle", "toggle"},
		{"  t  ", "toggle"},
		{"next", "next"},
		{"N", "next"},
		{"prev", "previous"},
		{"seek 0.25", "seek 0.25"},
		{"seek 1:00", "seek 0.50"},
		{"select 2", "select 1 true"},
		{"volume 40", "volume 40"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			ft := newFakeTransport()
			sh := &shell{transport: ft, out: &bytes.Buffer{}}

			quit, err := sh.exec(context.Background(), tt.line)
			if err != nil {
				t.Fatalf("exec(%q): %v", tt.line, err)
			}
			if quit {
				t.Errorf("exec(%q) quit = true", tt.line)
			}
			if len(ft.calls) != 1 || ft.calls[0] != tt.want {
				t.Errorf("calls = %v, want [%s]", ft.calls, tt.want)
			}
		})
	}
}

func TestShellErrors(t *testing.T) {
	for _, line := range []string{"seek", "seek 2", "select x", "select 9", "volume", "volume loud", "dance"} {
		t.Run(line, func(t *testing.T) {
			ft := newFakeTransport()
			sh := &shell{transport: ft, out: &bytes.Buffer{}}
			if _, err := sh.exec(context.Background(), line); err == nil {
				t.Errorf("exec(%q) error = nil", line)
			}
			if len(ft.calls) != 0 {
				t.Errorf("calls = %v, want none", ft.calls)
			}
		})
	}
}

func TestShellOutput(t *testing.T) {
	ft := newFakeTransport()
	var out bytes.Buffer
	sh := &shell{transport: ft, out: &out}

	if _, err := sh.exec(context.Background(), "list"); err != nil {
		t.Fatalf("list: %v", err)
	}
	want := "●  1. A — One\n○  2. Two\n"
	if out.String() != want {
		t.Errorf("list output = %q, want %q", out.String(), want)
	}

	out.Reset()
	if _, err := sh.exec(context.Background(), "status"); err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out.String(), "▶ A — One") || !strings.Contains(out.String(), "0:30 / 2:00") {
		t.Errorf("status output = %q", out.String())
	}
}

func TestShellQuit(t *testing.T) {
	sh := &shell{transport: newFakeTransport(), out: &bytes.Buffer{}}
	for _, line := range []string{"quit", "exit", "q"} {
		quit, err := sh.exec(context.Background(), line)
		if err != nil || !quit {
			t.Errorf("exec(%q) = %v, %v; want quit", line, quit, err)
		}
	}
	if quit, err := sh.exec(context.Background(), ""); quit || err != nil {
		t.Errorf("exec(\"\") = %v, %v", quit, err)
	}
}

func TestStatusLine(t *testing.T) {
	ft := newFakeTransport()
	snap, _ := ft.Snapshot(context.Background())

	got := statusLine(snap)
	want := "▶ A — One  " + FormatProgress(25, 20) + " 0:30 / 2:00"
	if got != want {
		t.Errorf("statusLine() = %q, want %q", got, want)
	}

	snap.State.Status = core.StatusIdle
	if got := statusLine(snap); got != "Nothing loaded" {
		t.Errorf("statusLine(idle) = %q", got)
	}
}

func TestOutputStatus(t *testing.T) {
	ft := newFakeTransport()
	snap, _ := ft.Snapshot(context.Background())

	var buf bytes.Buffer
	outputStatus(&buf, snap)
	out := buf.String()
	for _, want := range []string{"[Mix]", "▶ One", "    A\n", "0:30 / 2:00", "Track 1 of 2 · playing · 🔊 70%"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatProgress(t *testing.T) {
	tests := []struct {
		percent float64
		want    string
	}{
		{0, "──────────"},
		{50, "━━━━━─────"},
		{100, "━━━━━━━━━━"},
		{150, "━━━━━━━━━━"},
		{-5, "──────────"},
	}
	for _, tt := range tests {
		if got := FormatProgress(tt.percent, 10); got != tt.want {
			t.Errorf("FormatProgress(%v) = %q, want %q", tt.percent, got, tt.want)
		}
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"a long title", 8, "a lon..."},
		{"héllo wörld", 6, "hél..."},
		{"abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		if got := TruncateString(tt.s, tt.n); got != tt.want {
			t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
		}
	}
}

func TestSetConfigValue(t *testing.T) {
	raw := map[string]any{"playback": map[string]any{"volume": int64(50)}}

	if err := setConfigValue(raw, "playback.volume", "60"); err != nil {
		t.Fatalf("set volume: %v", err)
	}
	if err := setConfigValue(raw, "remote.enabled", "true"); err != nil {
		t.Fatalf("set remote.enabled: %v", err)
	}
	if err := setConfigValue(raw, "tui.theme", "light"); err != nil {
		t.Fatalf("set tui.theme: %v", err)
	}

	if got := raw["playback"].(map[string]any)["volume"]; got != 60 {
		t.Errorf("playback.volume = %v, want 60", got)
	}
	if got := raw["remote"].(map[string]any)["enabled"]; got != true {
		t.Errorf("remote.enabled = %v, want true", got)
	}
	if got := raw["tui"].(map[string]any)["theme"]; got != "light" {
		t.Errorf("tui.theme = %v, want light", got)
	}
}

func TestSetConfigValueErrors(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"playback.volume", "loud"},
		{"remote.enabled", "maybe"},
		{"spotify.client_id", "x"},
		{"volume", "10"},
	}
	for _, tt := range tests {
		if err := setConfigValue(map[string]any{}, tt.key, tt.value); err == nil {
			t.Errorf("setConfigValue(%q, %q) = nil, want error", tt.key, tt.value)
		}
	}
}

func TestVolumeTarget(t *testing.T) {
	ft := newFakeTransport()
	ctx := context.Background()

	if got, err := volumeTarget(ctx, ft, []string{"35"}); err != nil || got != 35 {
		t.Errorf("volumeTarget(35) = %d, %v", got, err)
	}
	if _, err := volumeTarget(ctx, ft, []string{"101"}); err == nil {
		t.Error("volumeTarget(101) error = nil")
	}

	volumeUp = true
	defer func() { volumeUp = false }()
	if got, err := volumeTarget(ctx, ft, nil); err != nil || got != 80 {
		t.Errorf("volumeTarget(--up) = %d, %v; want 80", got, err)
	}
}

package audio

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/faiface/beep"
	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/tessro/tapedeck/internal/core"
	tderrors "github.com/tessro/tapedeck/internal/errors"
)

// nullOutput stands in for the sound card.
type nullOutput struct {
	mu      sync.Mutex
	initErr error
	streams []beep.Streamer
}

func (o *nullOutput) Init(beep.SampleRate) error { return o.initErr }

func (o *nullOutput) Play(s beep.Streamer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.streams = append(o.streams, s)
}

func (o *nullOutput) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.streams = nil
}

func (o *nullOutput) Lock()   { o.mu.Lock() }
func (o *nullOutput) Unlock() { o.mu.Unlock() }

// drain streams everything attached until exhausted, like the device
// goroutine would.
func (o *nullOutput) drain() {
	o.mu.Lock()
	defer o.mu.Unlock()

	buf := make([][2]float64, 1024)
	for _, s := range o.streams {
		for {
			if _, ok := s.Stream(buf); !ok {
				break
			}
		}
	}
	o.streams = nil
}

func writeWAV(t *testing.T, name string, seconds float64) string {
	t.Helper()

	const rate = 8000
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer f.Close()

	enc := gowav.NewEncoder(f, rate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: rate},
		Data:           make([]int, int(seconds*rate)),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return path
}

func waitEvent(t *testing.T, p *Player, kind core.MediaEventKind) core.MediaEvent {
	t.Helper()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-p.Events():
			if ev.Kind == kind {
				return ev
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", kind)
			return core.MediaEvent{}
		}
	}
}

func waitResult(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for play outcome")
		return nil
	}
}

func newTestPlayer(t *testing.T, out *nullOutput, opts ...Option) *Player {
	t.Helper()
	p := NewPlayer(append([]Option{WithOutput(out)}, opts...)...)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestLoadEmitsMetadata(t *testing.T) {
	path := writeWAV(t, "one.wav", 1)
	p := newTestPlayer(t, &nullOutput{})

	p.Load(path)
	ev := waitEvent(t, p, core.MediaMetadataReady)

	if ev.Source != path {
		t.Errorf("Source = %q, want %q", ev.Source, path)
	}
	if math.Abs(ev.Duration-1) > 0.01 {
		t.Errorf("Duration = %v, want 1", ev.Duration)
	}
	if math.Abs(p.Duration()-1) > 0.01 {
		t.Errorf("Duration() = %v, want 1", p.Duration())
	}
	if !p.Paused() {
		t.Error("Paused() = false after load, want true")
	}
}

func TestPlayPauseSeek(t *testing.T) {
	path := writeWAV(t, "two.wav", 2)
	p := newTestPlayer(t, &nullOutput{})

	p.Load(path)
	if err := waitResult(t, p.Play(context.Background())); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	waitEvent(t, p, core.MediaPlaying)
	if p.Paused() {
		t.Error("Paused() = true after play")
	}

	p.Pause()
	waitEvent(t, p, core.MediaPaused)
	if !p.Paused() {
		t.Error("Paused() = false after pause")
	}

	p.Seek(0.5)
	if got := p.CurrentTime(); math.Abs(got-0.5) > 0.01 {
		t.Errorf("CurrentTime() = %v, want 0.5", got)
	}

	p.Seek(99)
	if got := p.CurrentTime(); math.Abs(got-2) > 0.01 {
		t.Errorf("CurrentTime() after overshoot = %v, want 2", got)
	}
}

func TestTimeUpdatesWhilePlaying(t *testing.T) {
	path := writeWAV(t, "three.wav", 1)
	p := newTestPlayer(t, &nullOutput{}, WithTickInterval(10*time.Millisecond))

	p.Load(path)
	if err := waitResult(t, p.Play(context.Background())); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	ev := waitEvent(t, p, core.MediaTimeUpdate)
	if ev.Source != path {
		t.Errorf("Source = %q, want %q", ev.Source, path)
	}
}

func TestPlayWithoutSource(t *testing.T) {
	p := newTestPlayer(t, &nullOutput{})

	err := waitResult(t, p.Play(context.Background()))
	if !errors.Is(err, tderrors.ErrNoSource) {
		t.Errorf("Play() error = %v, want ErrNoSource", err)
	}
}

func TestLoadErrorRejectsPlay(t *testing.T) {
	p := newTestPlayer(t, &nullOutput{})
	missing := filepath.Join(t.TempDir(), "missing.wav")

	p.Load(missing)
	ev := waitEvent(t, p, core.MediaError)
	if ev.Err == nil || ev.Source != missing {
		t.Errorf("error event = %+v", ev)
	}

	if err := waitResult(t, p.Play(context.Background())); err == nil {
		t.Error("Play() error = nil after failed load")
	}
}

func TestUnsupportedFormat(t *testing.T) {
	p := newTestPlayer(t, &nullOutput{})

	p.Load("track.xyz")
	ev := waitEvent(t, p, core.MediaError)
	if !errors.Is(ev.Err, tderrors.ErrUnsupportedFormat) {
		t.Errorf("Err = %v, want ErrUnsupportedFormat", ev.Err)
	}
}

func TestOutputInitFailureRejectsPlay(t *testing.T) {
	path := writeWAV(t, "four.wav", 1)
	p := newTestPlayer(t, &nullOutput{initErr: tderrors.ErrNoOutput})

	p.Load(path)
	err := waitResult(t, p.Play(context.Background()))
	if !errors.Is(err, tderrors.ErrNoOutput) {
		t.Errorf("Play() error = %v, want ErrNoOutput", err)
	}
	if !p.Paused() {
		t.Error("Paused() = false after rejected play")
	}
}

func TestEnded(t *testing.T) {
	path := writeWAV(t, "five.wav", 0.25)
	out := &nullOutput{}
	p := newTestPlayer(t, out)

	p.Load(path)
	if err := waitResult(t, p.Play(context.Background())); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	out.drain()
	ev := waitEvent(t, p, core.MediaEnded)
	if ev.Source != path {
		t.Errorf("Source = %q, want %q", ev.Source, path)
	}
	if !p.Paused() {
		t.Error("Paused() = false after end")
	}
}

func TestLoadSupersedesPendingPlay(t *testing.T) {
	path := writeWAV(t, "six.wav", 1)
	release := make(chan struct{})
	decoder := func(ref string) (beep.StreamSeekCloser, beep.Format, error) {
		if ref == "slow" {
			<-release
		}
		return Decode(path)
	}
	p := newTestPlayer(t, &nullOutput{}, WithDecoder(decoder))

	p.Load("slow")
	pending := p.Play(context.Background())
	p.Load("fast.wav")
	close(release)

	if err := waitResult(t, pending); !errors.Is(err, errSuperseded) {
		t.Errorf("pending Play() error = %v, want errSuperseded", err)
	}
	if p.Source() != "fast.wav" {
		t.Errorf("Source() = %q", p.Source())
	}
}

func TestPlayHonoursContext(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	decoder := func(string) (beep.StreamSeekCloser, beep.Format, error) {
		<-block
		return nil, beep.Format{}, errors.New("never")
	}
	p := newTestPlayer(t, &nullOutput{}, WithDecoder(decoder))

	ctx, cancel := context.WithCancel(context.Background())
	p.Load("blocked.wav")
	result := p.Play(ctx)
	cancel()

	if err := waitResult(t, result); !errors.Is(err, context.Canceled) {
		t.Errorf("Play() error = %v, want context.Canceled", err)
	}
	if !p.Paused() {
		t.Error("Paused() = false after a cancelled play")
	}
}

func TestPauseCancelsPendingPlay(t *testing.T) {
	path := writeWAV(t, "seven.wav", 1)
	release := make(chan struct{})
	decoder := func(string) (beep.StreamSeekCloser, beep.Format, error) {
		<-release
		return Decode(path)
	}
	out := &nullOutput{}
	p := newTestPlayer(t, out, WithDecoder(decoder))

	p.Load("slow.wav")
	pending := p.Play(context.Background())
	if p.Paused() {
		t.Error("Paused() = true while a play is pending")
	}

	p.Pause()
	close(release)

	if err := waitResult(t, pending); !errors.Is(err, errAborted) {
		t.Errorf("pending Play() error = %v, want errAborted", err)
	}
	if !p.Paused() {
		t.Error("Paused() = false after pausing a pending play")
	}

	p.mu.Lock()
	ctrlPaused := p.ctrl == nil || p.ctrl.Paused
	p.mu.Unlock()
	if !ctrlPaused {
		t.Error("stream unpaused after pausing a pending play")
	}
	out.mu.Lock()
	attached := len(out.streams)
	out.mu.Unlock()
	if attached != 0 {
		t.Errorf("attached streams = %d, want 0", attached)
	}

	// A later play still works.
	if err := waitResult(t, p.Play(context.Background())); err != nil {
		t.Fatalf("Play() after aborted play error = %v", err)
	}
	if p.Paused() {
		t.Error("Paused() = true after play")
	}
}

func TestEventsCarryLoadGeneration(t *testing.T) {
	path := writeWAV(t, "eight.wav", 1)
	p := newTestPlayer(t, &nullOutput{})

	first := p.Load(path)
	if ev := waitEvent(t, p, core.MediaMetadataReady); ev.Load != first {
		t.Errorf("first metadata Load = %d, want %d", ev.Load, first)
	}

	second := p.Load(path)
	if second == first {
		t.Fatalf("Load() returned %d twice", first)
	}
	ev := waitEvent(t, p, core.MediaMetadataReady)
	if ev.Load != second || ev.Source != path {
		t.Errorf("second metadata = %+v, want Load %d", ev, second)
	}

	if err := waitResult(t, p.Play(context.Background())); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if ev := waitEvent(t, p, core.MediaPlaying); ev.Load != second {
		t.Errorf("playing Load = %d, want %d", ev.Load, second)
	}
}

func TestGain(t *testing.T) {
	tests := []struct {
		percent int
		want    float64
	}{
		{100, 0},
		{50, -1},
		{25, -2},
		{0, 0},
	}
	for _, tt := range tests {
		if got := gain(tt.percent); got != tt.want {
			t.Errorf("gain(%d) = %v, want %v", tt.percent, got, tt.want)
		}
	}

	p := newTestPlayer(t, &nullOutput{}, WithVolume(150))
	if p.percent != 100 {
		t.Errorf("percent = %d, want 100", p.percent)
	}
}

func TestSupported(t *testing.T) {
	for _, ref := range []string{"a.mp3", "b.WAV", "c.flac", "d.ogg"} {
		if !Supported(ref) {
			t.Errorf("Supported(%q) = false", ref)
		}
	}
	if Supported("e.m4a") {
		t.Error("Supported(e.m4a) = true")
	}
}

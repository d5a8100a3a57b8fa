package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/tapedeck/internal/core"
	"github.com/tessro/tapedeck/internal/player"
)

// taskMsg carries work onto the program's update loop.
type taskMsg func()

// mediaMsg carries a media event onto the update loop.
type mediaMsg core.MediaEvent

// scheduler runs controller work on the bubbletea update loop.
// Program.Send blocks until the loop receives the message, so every send
// happens off the loop's own goroutine. Work posted before the program
// exists waits for attach.
type scheduler struct {
	ready chan struct{}
	send  func(tea.Msg)
}

func newScheduler() *scheduler {
	return &scheduler{ready: make(chan struct{})}
}

// attach sets the send function. It must be called exactly once.
func (s *scheduler) attach(send func(tea.Msg)) {
	s.send = send
	close(s.ready)
}

func (s *scheduler) deliver(msg tea.Msg) {
	<-s.ready
	s.send(msg)
}

func (s *scheduler) Post(fn func()) {
	go s.deliver(taskMsg(fn))
}

func (s *scheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { s.deliver(taskMsg(fn)) })
}

func (s *scheduler) Await(ch <-chan error, fn func(error)) {
	go func() {
		err := <-ch
		s.deliver(taskMsg(func() { fn(err) }))
	}()
}

var _ player.Scheduler = (*scheduler)(nil)

// display holds what the controller last pushed. It is only touched on
// the update loop, where View also runs.
type display struct {
	nowPlaying core.NowPlaying
	progress   core.Progress
	button     core.ButtonState
}

func (d *display) SetNowPlaying(np core.NowPlaying) { d.nowPlaying = np }
func (d *display) SetProgress(p core.Progress)      { d.progress = p }
func (d *display) SetButton(b core.ButtonState)     { d.button = b }

var _ core.View = (*display)(nil)

func waitForMedia(events <-chan core.MediaEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return mediaMsg(ev)
	}
}

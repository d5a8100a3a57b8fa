package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/tessro/tapedeck/internal/core"
	"github.com/tessro/tapedeck/internal/input"
	"github.com/tessro/tapedeck/internal/player"
	"github.com/tessro/tapedeck/internal/playlist"
	"github.com/tessro/tapedeck/internal/tui/components"
	"github.com/tessro/tapedeck/internal/tui/styles"
)

// Focus represents what holds keyboard focus
type Focus int

const (
	FocusNone Focus = iota
	FocusPlaylist
	FocusFilter
)

const (
	volumeStep = 5
	seekStep   = 5.0 // seconds
	flashTTL   = 4 * time.Second
)

// Options configures the TUI.
type Options struct {
	Theme     string
	Artwork   bool
	Mouse     bool
	Start     int
	Autoplay  bool
	Volume    int
	SkipDelay time.Duration
	Logger    *zap.Logger
}

// App holds the TUI application state shared by every copy of the model.
type App struct {
	store   *playlist.Store
	media   core.Media
	ctrl    *player.Controller
	input   *input.Dispatcher
	handle  *player.Handle
	sched   *scheduler
	display *display
	log     *zap.Logger
	opts    Options
}

// NewApp wires a controller to the terminal UI. The controller runs on
// the bubbletea update loop.
func NewApp(store *playlist.Store, media core.Media, opts Options) *App {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	styles.Use(opts.Theme)

	a := &App{
		store:   store,
		media:   media,
		sched:   newScheduler(),
		display: &display{},
		log:     log.Named("tui"),
		opts:    opts,
	}
	a.ctrl = player.New(store.Playlist(), media, a.display, a.sched,
		player.WithLogger(log),
		player.WithSkipDelay(opts.SkipDelay),
		player.WithVolume(opts.Volume),
	)
	a.input = input.New(a.ctrl, log)
	a.handle = player.NewHandle(a.ctrl, a.sched)
	return a
}

// Transport returns a handle for driving the player from other goroutines.
func (a *App) Transport() core.Transport {
	return a.handle
}

// Run starts the TUI and blocks until the user quits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if a.opts.Mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(NewModel(a), progOpts...)
	a.sched.attach(p.Send)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Model is the main TUI model
type Model struct {
	app    *App
	width  int
	height int
	focus  Focus

	// Components
	nowPlaying *components.NowPlaying
	transport  *components.Transport
	list       *components.Playlist

	filter   textinput.Model
	keys     keyMap
	help     help.Model
	showHelp bool

	// Transient status line message
	flash       string
	flashExpiry time.Time

	quitting bool
}

// NewModel creates a new TUI model
func NewModel(app *App) Model {
	ti := textinput.New()
	ti.Placeholder = "Filter by title or artist..."
	ti.Prompt = "/ "
	ti.CharLimit = 64

	return Model{
		app:        app,
		nowPlaying: components.NewNowPlaying(app.opts.Artwork),
		transport:  components.NewTransport(),
		list:       components.NewPlaylist(),
		filter:     ti,
		keys:       defaultKeys(),
		help:       help.New(),
	}
}

// Init starts listening for media events and loads the first track
func (m Model) Init() tea.Cmd {
	a := m.app
	start := func() tea.Msg {
		return taskMsg(func() {
			if err := a.ctrl.Load(a.opts.Start, a.opts.Autoplay); err != nil {
				a.log.Warn("initial load failed", zap.Error(err))
			}
		})
	}
	return tea.Batch(waitForMedia(a.media.Events()), start)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskMsg:
		msg()
		return m, nil

	case mediaMsg:
		m.app.input.Media(core.MediaEvent(msg))
		return m, waitForMedia(m.app.media.Events())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.filter.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	if m.focus == FocusFilter {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	// Help overlay
	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Escape) {
			m.showHelp = false
		}
		return m, nil
	}

	if m.focus == FocusFilter {
		return m.handleFilterKeyPress(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		m.focus = FocusFilter
		m.list.Reset()
		return m, m.filter.Focus()

	case key.Matches(msg, m.keys.Focus):
		if m.focus == FocusPlaylist {
			m.focus = FocusNone
		} else {
			m.focus = FocusPlaylist
		}
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.list.Reset()
		}
		m.focus = FocusNone
		return m, nil

	case key.Matches(msg, m.keys.VolUp):
		m.app.ctrl.SetVolume(m.app.ctrl.State().Volume + volumeStep)
		return m, nil

	case key.Matches(msg, m.keys.VolDown):
		m.app.ctrl.SetVolume(m.app.ctrl.State().Volume - volumeStep)
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.seekBy(-seekStep)
		return m, nil

	case key.Matches(msg, m.keys.Forward):
		m.seekBy(seekStep)
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		m.copyNowPlaying()
		return m, nil
	}

	if m.focus == FocusPlaylist {
		entries := m.entries()
		switch {
		case key.Matches(msg, m.keys.Down):
			m.list.MoveDown(len(entries))
			return m, nil
		case key.Matches(msg, m.keys.Up):
			m.list.MoveUp()
			return m, nil
		}
	}

	m.app.input.Key(transportKey(msg, m.keys), m.inputFocus())
	return m, nil
}

func (m Model) handleFilterKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filter.Blur()
		m.filter.SetValue("")
		m.list.Reset()
		m.focus = FocusNone
		return m, nil

	case tea.KeyEnter:
		m.filter.Blur()
		m.focus = FocusPlaylist
		return m, nil

	case tea.KeyUp:
		m.list.MoveUp()
		return m, nil

	case tea.KeyDown:
		m.list.MoveDown(len(m.entries()))
		return m, nil
	}

	// Transport shortcuts are suppressed while typing.
	m.app.input.Key(transportKey(msg, m.keys), input.Focus{Kind: input.FocusText})

	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.list.Reset()
	}
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp || m.width == 0 {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.list.MoveUp()
		return m, nil
	case tea.MouseButtonWheelDown:
		m.list.MoveDown(len(m.entries()))
		return m, nil
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	l := m.layout()
	switch {
	case msg.Y == l.progressY:
		left, width := m.transport.BarBounds(m.width)
		if msg.X >= left && msg.X < left+width {
			m.app.input.Pointer(float64(msg.X), float64(left), float64(width-1))
		}

	case msg.Y == l.controlsY:
		_, hits := m.transport.RenderControls(m.app.display.button)
		for _, h := range hits {
			if h.Contains(msg.X) {
				m.app.input.Click(h.Control)
				break
			}
		}

	case msg.Y >= l.listY && msg.Y < l.listY+l.listRows:
		entries := m.entries()
		if e, ok := m.list.EntryAt(entries, msg.Y-l.listY, l.listRows); ok {
			for pos, candidate := range entries {
				if candidate.Index == e.Index {
					m.list.SetCursor(pos)
				}
			}
			if m.focus == FocusFilter {
				m.filter.Blur()
			}
			m.focus = FocusPlaylist
			m.app.input.Select(e.Index)
		}
	}
	return m, nil
}

func (m *Model) seekBy(seconds float64) {
	s := m.app.ctrl.State()
	if !s.HasDuration() {
		return
	}
	m.app.ctrl.Seek((s.CurrentTime + seconds) / s.Duration)
}

func (m *Model) copyNowPlaying() {
	s := m.app.ctrl.State()
	track, ok := m.app.store.Playlist().At(s.CurrentIndex)
	if !s.Loaded() || !ok {
		m.setFlash("Nothing to copy")
		return
	}
	if err := clipboard.WriteAll(track.Label()); err != nil {
		m.app.log.Warn("clipboard write failed", zap.Error(err))
		m.setFlash("Clipboard unavailable")
		return
	}
	m.setFlash("Copied: " + track.Label())
}

func (m *Model) setFlash(s string) {
	m.flash = s
	m.flashExpiry = time.Now().Add(flashTTL)
}

// entries returns the playlist rows after filtering.
func (m Model) entries() []playlist.Entry {
	current := -1
	if s := m.app.ctrl.State(); s.Loaded() {
		current = s.CurrentIndex
	}
	return playlist.Filter(m.app.store.Entries(current), m.filter.Value())
}

func (m Model) inputFocus() input.Focus {
	if m.focus != FocusPlaylist {
		return input.Focus{}
	}
	e, ok := m.list.Selected(m.entries())
	if !ok {
		return input.Focus{}
	}
	return input.Focus{Kind: input.FocusEntry, Entry: e.Index}
}

func transportKey(msg tea.KeyMsg, keys keyMap) input.Key {
	switch {
	case key.Matches(msg, keys.Play):
		return input.KeySpace
	case key.Matches(msg, keys.Activate):
		return input.KeyEnter
	case key.Matches(msg, keys.Next):
		return input.KeyArrowRight
	case key.Matches(msg, keys.Prev):
		return input.KeyArrowLeft
	}
	return input.KeyOther
}

// layout is the row each interactive region lands on.
type layout struct {
	progressY int
	controlsY int
	listY     int
	listRows  int
}

func (m Model) layout() layout {
	var l layout
	y := 2 // header, blank
	y += m.nowPlaying.Height() + 1
	l.progressY = y
	l.controlsY = y + 2
	l.listY = y + 5 // blank, panel title
	l.listRows = max(m.height-l.listY-2, 1)
	return l
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	a := m.app
	state := a.ctrl.State()
	l := m.layout()

	controls, _ := m.transport.RenderControls(a.display.button)

	lines := []string{
		m.renderHeader(),
		"",
		m.nowPlaying.Render(a.display.nowPlaying, state, a.store.Playlist().Len(), m.width),
		"",
		m.transport.RenderProgress(a.display.progress, m.width),
		"",
		controls,
		"",
		m.renderListTitle(),
		m.list.Render(m.entries(), m.width, l.listRows, m.focus != FocusNone),
		"",
		m.renderStatusBar(),
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderHeader() string {
	name := m.app.store.Playlist().Name()
	return styles.Highlight.Render("tapedeck") + styles.Dim.Render(" · ") + styles.Subtitle.Render(name)
}

func (m Model) renderListTitle() string {
	if m.focus == FocusFilter || m.filter.Value() != "" {
		return m.filter.View()
	}
	title := fmt.Sprintf("Playlist (%d)", m.app.store.Playlist().Len())
	return styles.PanelTitle(title, m.focus == FocusPlaylist)
}

func (m Model) renderStatusBar() string {
	status := m.help.ShortHelpView(m.keys.ShortHelp())

	if m.flash != "" && time.Now().Before(m.flashExpiry) {
		status = styles.Paused.Render(m.flash)
	}

	return lipgloss.NewStyle().
		Width(m.width).
		MaxHeight(1).
		Render(status)
}

func (m Model) renderHelp() string {
	title := "tapedeck - Keyboard Shortcuts"
	divider := strings.Repeat("═", len(title))

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		divider,
		"",
		m.help.FullHelpView(m.keys.FullHelp()),
		"",
		styles.Dim.Render("Mouse: click buttons, the progress bar or a track"),
		styles.Dim.Render("Press ? or Esc to close"),
	)

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Padding(1, 2).Render(body))
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"
	"go.uber.org/zap"

	"github.com/tessro/tapedeck/internal/core"
	tderrors "github.com/tessro/tapedeck/internal/errors"
	"github.com/tessro/tapedeck/internal/input"
	"github.com/tessro/tapedeck/internal/player"
	"github.com/tessro/tapedeck/internal/playlist"
)

const shellHelp = `Commands:
  toggle, t           play or pause
  next, n             next track
  prev, b             previous track
  seek <pos>          seek to a ratio (0.5), percentage (50%) or m:ss
  select <n>          play track n
  volume <n>          set volume (0-100)
  status, s           show what is playing
  list, ls            show the playlist
  help, ?             show this help
  quit, q             exit`

// runHeadless drives the player from a line prompt. The controller runs on
// a player.Loop; the prompt reaches it through a player.Handle.
func runHeadless(ctx context.Context, store *playlist.Store, media core.Media, s playSettings, log *zap.Logger) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "tapedeck> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("toggle"),
			readline.PcItem("next"),
			readline.PcItem("prev"),
			readline.PcItem("seek"),
			readline.PcItem("select"),
			readline.PcItem("volume"),
			readline.PcItem("status"),
			readline.PcItem("list"),
			readline.PcItem("help"),
			readline.PcItem("quit"),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to start prompt: %w", err)
	}
	closePrompt := sync.OnceFunc(func() { _ = rl.Close() })
	defer closePrompt()

	loop := player.NewLoop()
	ctrl := player.New(store.Playlist(), media, &consoleView{out: rl.Stdout()}, loop,
		player.WithLogger(log),
		player.WithSkipDelay(time.Duration(cfg.Playback.SkipDelay)*time.Millisecond),
		player.WithVolume(cfg.Playback.Volume),
	)
	dispatch := input.New(ctrl, log)
	handle := player.NewHandle(ctrl, loop)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = loop.Run(ctx, media.Events(), dispatch.Media)
	}()
	served := startRemote(ctx, s, handle, log)

	start, autoplay := s.start, s.autoplay
	loop.Post(func() {
		if err := ctrl.Load(start, autoplay); err != nil {
			log.Warn("initial load failed", zap.Error(err))
		}
	})

	// Readline blocks until a line arrives; closing it unblocks on signal.
	go func() {
		<-ctx.Done()
		closePrompt()
	}()

	sh := &shell{transport: handle, out: rl.Stdout()}
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				break
			}
			continue
		}
		if err != nil {
			break
		}

		quit, err := sh.exec(ctx, line)
		if err != nil {
			fmt.Fprintln(sh.out, tderrors.Format(err))
		}
		if quit {
			break
		}
	}

	cancel()
	<-served
	<-loopDone
	return nil
}

// shell executes prompt commands against a transport.
type shell struct {
	transport core.Transport
	out       io.Writer
}

// exec runs one command line and reports whether the user asked to quit.
func (sh *shell) exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "toggle", "t", "play", "pause":
		return false, sh.transport.Toggle(ctx)

	case "next", "n":
		return false, sh.transport.Next(ctx)

	case "prev", "previous", "b":
		return false, sh.transport.Previous(ctx)

	case "seek":
		if len(args) != 1 {
			return false, errors.New("usage: seek <ratio|percent%|m:ss>")
		}
		snap, err := sh.transport.Snapshot(ctx)
		if err != nil {
			return false, err
		}
		ratio, err := parseSeek(args[0], snap.State.Duration)
		if err != nil {
			return false, err
		}
		return false, sh.transport.Seek(ctx, ratio)

	case "select", "load":
		if len(args) != 1 {
			return false, errors.New("usage: select <track number>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return false, fmt.Errorf("invalid track number %q", args[0])
		}
		return false, sh.transport.Select(ctx, n-1, true)

	case "volume", "vol":
		if len(args) != 1 {
			return false, errors.New("usage: volume <0-100>")
		}
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return false, fmt.Errorf("invalid volume %q", args[0])
		}
		return false, sh.transport.Volume(ctx, v)

	case "status", "s":
		snap, err := sh.transport.Snapshot(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(sh.out, statusLine(snap))
		return false, nil

	case "list", "ls":
		snap, err := sh.transport.Snapshot(ctx)
		if err != nil {
			return false, err
		}
		tracks, err := sh.transport.Tracks(ctx)
		if err != nil {
			return false, err
		}
		for i, t := range tracks {
			current := snap.State.Loaded() && i == snap.State.CurrentIndex
			fmt.Fprintf(sh.out, "%s %2d. %s\n", StatusIcon(current), i+1, t.Label())
		}
		return false, nil

	case "help", "?":
		fmt.Fprintln(sh.out, shellHelp)
		return false, nil

	case "quit", "exit", "q":
		return true, nil

	default:
		return false, fmt.Errorf("unknown command %q (type 'help')", cmd)
	}
}

// consoleView prints track changes to the prompt's output.
type consoleView struct {
	out io.Writer
}

func (v *consoleView) SetNowPlaying(np core.NowPlaying) {
	label := np.Title
	if np.Artist != "" {
		label = np.Artist + " — " + np.Title
	}
	fmt.Fprintf(v.out, "♪ %d. %s\n", np.Index+1, label)
}

func (v *consoleView) SetProgress(core.Progress)  {}
func (v *consoleView) SetButton(core.ButtonState) {}

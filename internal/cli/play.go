package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tessro/tapedeck/internal/audio"
	"github.com/tessro/tapedeck/internal/core"
	tderrors "github.com/tessro/tapedeck/internal/errors"
	"github.com/tessro/tapedeck/internal/playlist"
	"github.com/tessro/tapedeck/internal/remote"
	"github.com/tessro/tapedeck/internal/tui"
	"github.com/tessro/tapedeck/internal/wizard"
)

var (
	playHeadless bool
	playPick     bool
	playStart    int
	playAutoplay bool
	playRemote   bool
	playNoArt    bool
	playTheme    string
)

var playCmd = &cobra.Command{
	Use:     "play [playlist]",
	Aliases: []string{"ui"},
	Short:   "Play a playlist",
	Long: `Open a playlist and start the player.

The playlist defaults to playlist.path from the config. Without --headless
the terminal UI is shown:

  Space        Play/Pause
  ←/→          Previous/next track
  Enter        Play the highlighted track
  ,/.          Seek back/forward
  +/-          Volume up/down
  /            Filter the playlist
  Tab          Focus the playlist
  y            Copy the current track
  ?            Help
  q, Ctrl+C    Quit

With --headless a line-based prompt is used instead; type 'help' there.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&playHeadless, "headless", false, "use a line prompt instead of the terminal UI")
	playCmd.Flags().BoolVar(&playPick, "pick", false, "choose the starting track interactively")
	playCmd.Flags().IntVarP(&playStart, "start", "s", 0, "starting track number (1-based)")
	playCmd.Flags().BoolVarP(&playAutoplay, "autoplay", "a", false, "start playing immediately")
	playCmd.Flags().BoolVar(&playRemote, "remote", false, "serve the control API on remote.addr")
	playCmd.Flags().BoolVar(&playNoArt, "no-art", false, "hide artwork")
	playCmd.Flags().StringVar(&playTheme, "theme", "", "color theme: auto, dark or light")
	rootCmd.AddCommand(playCmd)
}

// playSettings is the resolved configuration for one play session.
type playSettings struct {
	path     string
	start    int
	autoplay bool
	remote   bool
	artwork  bool
	theme    string
}

func resolvePlaySettings(cmd *cobra.Command, args []string) playSettings {
	s := playSettings{
		path:     cfg.Playlist.Path,
		start:    cfg.Playback.StartIndex,
		autoplay: cfg.Playback.Autoplay,
		remote:   cfg.Remote.Enabled,
		artwork:  cfg.TUI.Artwork,
		theme:    cfg.TUI.Theme,
	}
	if len(args) > 0 {
		s.path = args[0]
	}
	if cmd.Flags().Changed("start") {
		s.start = playStart - 1
	}
	if cmd.Flags().Changed("autoplay") {
		s.autoplay = playAutoplay
	}
	if cmd.Flags().Changed("remote") {
		s.remote = playRemote
	}
	if playNoArt {
		s.artwork = false
	}
	if playTheme != "" {
		s.theme = playTheme
	}
	return s
}

func runPlay(cmd *cobra.Command, args []string) error {
	s := resolvePlaySettings(cmd, args)

	pl, err := playlist.Load(s.path, cfg.Playlist.Placeholder)
	if err != nil {
		return err
	}
	store := playlist.NewStore(pl)

	if _, ok := pl.At(s.start); !ok {
		return tderrors.WithSuggestion(
			fmt.Errorf("start track %d: %w", s.start+1, tderrors.ErrIndexOutOfRange),
			fmt.Sprintf("The playlist has %d tracks", pl.Len()))
	}

	if playPick {
		s.start, err = wizard.NewInteractive().PromptTrack(store.Entries(s.start), s.start)
		if err != nil {
			return err
		}
	}

	log, err := newLogger(false)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	media := audio.NewPlayer(
		audio.WithTickInterval(time.Duration(cfg.Playback.TickInterval)*time.Millisecond),
		audio.WithVolume(cfg.Playback.Volume),
		audio.WithLogger(log),
	)
	defer func() { _ = media.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting",
		zap.String("playlist", pl.Name()),
		zap.Int("tracks", pl.Len()),
		zap.Int("start", s.start),
		zap.Bool("headless", playHeadless),
	)

	if playHeadless {
		return runHeadless(ctx, store, media, s, log)
	}

	app := tui.NewApp(store, media, tui.Options{
		Theme:     s.theme,
		Artwork:   s.artwork,
		Mouse:     cfg.TUI.Mouse,
		Start:     s.start,
		Autoplay:  s.autoplay,
		Volume:    cfg.Playback.Volume,
		SkipDelay: time.Duration(cfg.Playback.SkipDelay) * time.Millisecond,
		Logger:    log,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	served := startRemote(ctx, s, app.Transport(), log)

	err = app.Run(ctx)
	cancel()
	<-served
	return err
}

// startRemote serves the control API in the background when enabled. The
// returned channel is closed once the server has stopped.
func startRemote(ctx context.Context, s playSettings, t core.Transport, log *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if !s.remote {
		close(done)
		return done
	}

	srv := remote.NewServer(t, remote.WithLogger(log))
	addr := cfg.Remote.Addr
	if remoteAddr != "" {
		addr = remoteAddr
	}

	go func() {
		defer close(done)
		if err := srv.ListenAndServe(ctx, addr); err != nil {
			log.Error("control server failed", zap.String("addr", addr), zap.Error(err))
		}
	}()
	return done
}

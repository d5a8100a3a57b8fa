package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tessro/tapedeck/internal/core"
)

var (
	volumeUp   bool
	volumeDown bool
	selectHold bool
)

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Play or pause",
	Long:  `Toggle playback of the current track.`,
	Args:  cobra.NoArgs,
	RunE:  runControl(func(ctx context.Context, t core.Transport) error { return t.Toggle(ctx) }),
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Skip to next track",
	Long:  `Skip to the next track, wrapping around to the first.`,
	Args:  cobra.NoArgs,
	RunE:  runControl(func(ctx context.Context, t core.Transport) error { return t.Next(ctx) }),
}

var prevCmd = &cobra.Command{
	Use:   "prev",
	Short: "Go to previous track",
	Long:  `Go back to the previous track, wrapping around to the last.`,
	Args:  cobra.NoArgs,
	RunE:  runControl(func(ctx context.Context, t core.Transport) error { return t.Previous(ctx) }),
}

var seekCmd = &cobra.Command{
	Use:   "seek <position>",
	Short: "Seek within the current track",
	Long: `Seek within the current track.

Examples:
  tapedeck seek 0.5     # halfway
  tapedeck seek 25%     # a quarter in
  tapedeck seek 1:30    # to 1 minute 30 seconds`,
	Args: cobra.ExactArgs(1),
	RunE: runSeek,
}

var selectCmd = &cobra.Command{
	Use:   "select <track>",
	Short: "Play a track by number",
	Long:  `Load the track with the given number (1-based) and start playing it.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSelect,
}

var volumeCmd = &cobra.Command{
	Use:   "volume [level]",
	Short: "Set or adjust volume",
	Long: `Set the playback volume (0-100) or adjust it up/down.

Examples:
  tapedeck volume 50      # Set volume to 50%
  tapedeck volume --up    # Increase volume by 10%
  tapedeck volume --down  # Decrease volume by 10%`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVolume,
}

func init() {
	selectCmd.Flags().BoolVar(&selectHold, "paused", false, "load without playing")
	volumeCmd.Flags().BoolVar(&volumeUp, "up", false, "Increase volume by 10%")
	volumeCmd.Flags().BoolVar(&volumeDown, "down", false, "Decrease volume by 10%")

	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(prevCmd)
	rootCmd.AddCommand(seekCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(volumeCmd)
}

// runControl sends one command to the running player and reports the
// resulting state.
func runControl(fn func(ctx context.Context, t core.Transport) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client := remoteClient()

		if err := fn(ctx, client); err != nil {
			return err
		}
		return reportState(ctx, client)
	}
}

func reportState(ctx context.Context, t core.Transport) error {
	snap, err := t.Snapshot(ctx)
	if err != nil {
		return err
	}
	if JSONOutput() {
		return printJSON(snap)
	}
	fmt.Println(statusLine(snap))
	return nil
}

func runSeek(cmd *cobra.Command, args []string) error {
	return runControl(func(ctx context.Context, t core.Transport) error {
		snap, err := t.Snapshot(ctx)
		if err != nil {
			return err
		}
		ratio, err := parseSeek(args[0], snap.State.Duration)
		if err != nil {
			return err
		}
		return t.Seek(ctx, ratio)
	})(cmd, args)
}

func runSelect(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid track number %q", args[0])
	}
	return runControl(func(ctx context.Context, t core.Transport) error {
		return t.Select(ctx, n-1, !selectHold)
	})(cmd, args)
}

func runVolume(cmd *cobra.Command, args []string) error {
	return runControl(func(ctx context.Context, t core.Transport) error {
		level, err := volumeTarget(ctx, t, args)
		if err != nil {
			return err
		}
		return t.Volume(ctx, level)
	})(cmd, args)
}

// volumeTarget resolves the requested volume from an explicit level or
// the --up/--down flags.
func volumeTarget(ctx context.Context, t core.Transport, args []string) (int, error) {
	if len(args) == 1 {
		level, err := strconv.Atoi(args[0])
		if err != nil || level < 0 || level > 100 {
			return 0, fmt.Errorf("volume must be between 0 and 100")
		}
		return level, nil
	}

	if !volumeUp && !volumeDown {
		return 0, fmt.Errorf("specify a level or --up/--down")
	}

	snap, err := t.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	level := snap.State.Volume
	if volumeUp {
		level += 10
	}
	if volumeDown {
		level -= 10
	}
	return max(0, min(100, level)), nil
}

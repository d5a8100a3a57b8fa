package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tessro/tapedeck/internal/core"
	"github.com/tessro/tapedeck/internal/progress"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current playback status",
	Long: `Show what the running player is doing. The player must have been
started with the control server enabled (--remote or remote.enabled).`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	snap, err := remoteClient().Snapshot(cmd.Context())
	if err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(snap)
	}
	outputStatus(os.Stdout, snap)
	return nil
}

func outputStatus(w io.Writer, snap *core.Snapshot) {
	if snap.Playlist != "" {
		fmt.Fprintf(w, "[%s]\n", snap.Playlist)
	}

	if !snap.HasTrack() || !snap.State.Loaded() {
		fmt.Fprintln(w, "  Nothing loaded")
		return
	}

	playIcon := "▶"
	if !snap.State.IsPlaying {
		playIcon = "⏸"
	}

	fmt.Fprintf(w, "  %s %s\n", playIcon, snap.Track.Title)
	if snap.Track.Artist != "" {
		fmt.Fprintf(w, "    %s\n", snap.Track.Artist)
	}

	p := progress.Compute(snap.State.CurrentTime, snap.State.Duration)
	fmt.Fprintf(w, "    %s %s / %s\n", FormatProgress(p.Percent, 30), p.Current, p.Duration)

	fmt.Fprintf(w, "    Track %d of %d · %s · 🔊 %d%%\n",
		snap.State.CurrentIndex+1, snap.TrackCount, snap.State.Status, snap.State.Volume)
}

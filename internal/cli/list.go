package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tessro/tapedeck/internal/playlist"
	"github.com/tessro/tapedeck/internal/progress"
)

var listProbe bool

var listCmd = &cobra.Command{
	Use:   "list [playlist]",
	Short: "List the tracks in a playlist",
	Long: `Print the tracks of a playlist with their audio files.

With --probe each audio file is opened to report its size and duration.
Files that cannot be read are reported but do not stop the listing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVarP(&listProbe, "probe", "p", true, "read file sizes and durations")
	rootCmd.AddCommand(listCmd)
}

// listEntry is the JSON shape of one listed track.
type listEntry struct {
	Number   int     `json:"number"`
	Title    string  `json:"title"`
	Artist   string  `json:"artist,omitempty"`
	Audio    string  `json:"audio"`
	Artwork  string  `json:"artwork"`
	Size     int64   `json:"size,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Error    string  `json:"error,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	path := cfg.Playlist.Path
	if len(args) > 0 {
		path = args[0]
	}

	pl, err := playlist.Load(path, cfg.Playlist.Placeholder)
	if err != nil {
		return err
	}

	entries := make([]listEntry, pl.Len())
	for i, t := range pl.Tracks() {
		entries[i] = listEntry{
			Number:  i + 1,
			Title:   t.Title,
			Artist:  t.Artist,
			Audio:   t.AudioRef,
			Artwork: t.ArtworkRef,
		}
	}

	var summary string
	if listProbe {
		result := playlist.ProbeAll(pl)
		for _, info := range result.Data {
			e := &entries[info.Index]
			e.Size = info.Size
			e.Duration = info.Duration
			if info.Err != nil {
				e.Error = info.Err.Error()
			}
		}
		summary = result.ErrorSummary()
	}

	if JSONOutput() {
		return printJSON(map[string]any{
			"playlist": pl.Name(),
			"tracks":   entries,
		})
	}

	if name := pl.Name(); name != "" {
		fmt.Println(name)
		fmt.Println()
	}

	var total float64
	var bytes int64
	table := NewTable("#", "TITLE", "ARTIST", "LENGTH", "SIZE", "FILE")
	for _, e := range entries {
		length, size := "-", "-"
		if e.Duration > 0 {
			length = progress.FormatTime(e.Duration)
			total += e.Duration
		}
		if e.Size > 0 {
			size = humanize.Bytes(uint64(e.Size))
			bytes += e.Size
		}
		table.Row(strconv.Itoa(e.Number), TruncateString(e.Title, 40), TruncateString(e.Artist, 30), length, size, e.Audio)
	}
	table.Flush()

	if listProbe {
		fmt.Printf("\n%d tracks, %s total, %s\n",
			len(entries),
			progress.FormatTime(total),
			humanize.Bytes(uint64(bytes)))
	}
	if summary != "" {
		fmt.Fprintln(os.Stderr, "\nSome files could not be read:")
		fmt.Fprintln(os.Stderr, summary)
	}
	return nil
}

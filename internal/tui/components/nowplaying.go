package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/tapedeck/internal/core"
	"github.com/tessro/tapedeck/internal/tui/styles"
)

// Artwork size in cells.
const (
	ArtWidth  = 16
	ArtHeight = 8
)

// NowPlaying displays the loaded track
type NowPlaying struct {
	art     *Artwork
	showArt bool
}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying(showArt bool) *NowPlaying {
	return &NowPlaying{art: NewArtwork(), showArt: showArt}
}

// Height returns the number of lines Render produces.
func (n *NowPlaying) Height() int {
	if n.showArt {
		return ArtHeight
	}
	return 4
}

// Render renders the now playing block. np is ignored until a track is
// loaded.
func (n *NowPlaying) Render(np core.NowPlaying, state core.PlayerState, tracks, width int) string {
	textWidth := width
	var art string
	if n.showArt {
		ref := np.Artwork
		if !state.Loaded() {
			ref = ""
		}
		art = n.art.Render(ref, ArtWidth, ArtHeight)
		textWidth = width - ArtWidth - 2
	}

	var content string
	if !state.Loaded() {
		content = lipgloss.JoinVertical(lipgloss.Left,
			styles.Muted.Render("Nothing loaded"),
			styles.Dim.Render("Pick a track below, or press space"),
		)
	} else {
		content = n.renderTrack(np, state, tracks, textWidth)
	}

	block := content
	if n.showArt {
		block = lipgloss.JoinHorizontal(lipgloss.Top, art, "  ", content)
	}
	return lipgloss.NewStyle().Height(n.Height()).MaxHeight(n.Height()).Render(block)
}

func (n *NowPlaying) renderTrack(np core.NowPlaying, state core.PlayerState, tracks, width int) string {
	icon := styles.StatusIcon(state.IsPlaying)
	title := styles.Title.Render(styles.Truncate(np.Title, width-2))
	artist := styles.Subtitle.Render(styles.Truncate(np.Artist, width-2))

	position := styles.Dim.Render(fmt.Sprintf("Track %d of %d", np.Index+1, tracks))

	var status string
	switch state.Status {
	case core.StatusErroring:
		status = styles.Failed.Render("Playback error, skipping…")
	case core.StatusLoading:
		status = styles.Muted.Render("Loading…")
	case core.StatusPlaying:
		status = styles.Playing.Render("Playing")
	default:
		status = styles.Paused.Render("Paused")
	}
	status += styles.Muted.Render(fmt.Sprintf("  🔊 %d%%", state.Volume))

	return lipgloss.JoinVertical(lipgloss.Left,
		icon+" "+title,
		"  "+artist,
		"  "+position,
		"  "+status,
	)
}

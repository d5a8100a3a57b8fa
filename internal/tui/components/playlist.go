package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/tapedeck/internal/playlist"
	"github.com/tessro/tapedeck/internal/tui/styles"
)

// Playlist displays the playlist entries with a movable cursor
type Playlist struct {
	offset int
	cursor int
}

// NewPlaylist creates a new Playlist component
func NewPlaylist() *Playlist {
	return &Playlist{}
}

// MoveDown moves the cursor down within n entries
func (p *Playlist) MoveDown(n int) {
	if p.cursor < n-1 {
		p.cursor++
	}
}

// MoveUp moves the cursor up
func (p *Playlist) MoveUp() {
	if p.cursor > 0 {
		p.cursor--
	}
}

// Reset moves the cursor back to the top
func (p *Playlist) Reset() {
	p.cursor = 0
	p.offset = 0
}

// Cursor returns the cursor position within the rendered entries
func (p *Playlist) Cursor() int {
	return p.cursor
}

// SetCursor moves the cursor to position pos
func (p *Playlist) SetCursor(pos int) {
	if pos >= 0 {
		p.cursor = pos
	}
}

// Selected returns the entry under the cursor
func (p *Playlist) Selected(entries []playlist.Entry) (playlist.Entry, bool) {
	if p.cursor < 0 || p.cursor >= len(entries) {
		return playlist.Entry{}, false
	}
	return entries[p.cursor], true
}

// EntryAt returns the entry drawn on the given row of the last render.
func (p *Playlist) EntryAt(entries []playlist.Entry, row, rows int) (playlist.Entry, bool) {
	if row < 0 || row >= p.visible(len(entries), rows) {
		return playlist.Entry{}, false
	}
	i := p.offset + row
	if i >= len(entries) {
		return playlist.Entry{}, false
	}
	return entries[i], true
}

// visible returns how many entry rows fit, leaving room for the "more"
// indicator when the list overflows.
func (p *Playlist) visible(n, rows int) int {
	if n-p.offset > rows {
		return max(rows-1, 1)
	}
	return rows
}

// Render renders exactly rows lines.
func (p *Playlist) Render(entries []playlist.Entry, width, rows int, focused bool) string {
	if rows <= 0 {
		return ""
	}
	if len(entries) == 0 {
		return lipgloss.NewStyle().Height(rows).Render(styles.Muted.Render("  No matching tracks"))
	}

	if p.cursor >= len(entries) {
		p.cursor = len(entries) - 1
	}
	p.scroll(len(entries), rows)

	visible := p.visible(len(entries), rows)
	end := min(p.offset+visible, len(entries))

	lines := make([]string, 0, rows)

	// Fixed overhead: "▶ " (2) + "XX. " (4) = 6 cells
	const overhead = 6

	for i := p.offset; i < end; i++ {
		e := entries[i]
		num := fmt.Sprintf("%2d.", e.Index+1)
		label := styles.Truncate(e.Label(), width-overhead)

		var line string
		if e.Current {
			line = styles.Playing.Render(fmt.Sprintf("▶ %s %s", num, label))
		} else {
			line = "  " + styles.Dim.Render(num) + " " + label
		}
		if focused && i == p.cursor {
			line = styles.Selected.Width(width).Render(line)
		}
		lines = append(lines, line)
	}

	if end < len(entries) {
		more := styles.Dim.Render(fmt.Sprintf("    ... and %d more", len(entries)-end))
		lines = append(lines, more)
	}

	return lipgloss.NewStyle().Height(rows).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// scroll keeps the cursor inside the visible window.
func (p *Playlist) scroll(n, rows int) {
	if p.offset > p.cursor {
		p.offset = p.cursor
	}
	for p.cursor >= p.offset+p.visible(n, rows) && p.offset < n-1 {
		p.offset++
	}
	if p.offset < 0 {
		p.offset = 0
	}
}

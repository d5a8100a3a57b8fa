package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/tapedeck/internal/core"
	"github.com/tessro/tapedeck/internal/input"
	"github.com/tessro/tapedeck/internal/tui/styles"
)

// timeWidth is the width reserved for each time label beside the bar.
const timeWidth = 5

// Hit is a clickable span on a rendered line, in cells.
type Hit struct {
	Control input.Control
	Start   int
	End     int // exclusive
}

// Contains reports whether column x falls inside the span.
func (h Hit) Contains(x int) bool {
	return x >= h.Start && x < h.End
}

// Transport displays the progress track and the transport buttons
type Transport struct {
	bar progress.Model
}

// NewTransport creates a new Transport component
func NewTransport() *Transport {
	return &Transport{
		bar: progress.New(
			progress.WithSolidFill(styles.BarFull),
			progress.WithoutPercentage(),
			progress.WithFillCharacters('━', '─'),
		),
	}
}

// BarBounds returns the first column and width of the progress track on a
// line of the given width.
func (t *Transport) BarBounds(width int) (left, barWidth int) {
	left = timeWidth + 1
	barWidth = width - 2*(timeWidth+1)
	if barWidth < 1 {
		barWidth = 1
	}
	return left, barWidth
}

// RenderProgress renders "m:ss ━━━━──── m:ss".
func (t *Transport) RenderProgress(p core.Progress, width int) string {
	_, barWidth := t.BarBounds(width)
	t.bar.Width = barWidth
	t.bar.EmptyColor = styles.BarEmpty

	current := styles.Muted.Render(fmt.Sprintf("%*s", timeWidth, p.Current))
	total := styles.Muted.Render(fmt.Sprintf("%-*s", timeWidth, p.Duration))
	return current + " " + t.bar.ViewAs(p.Percent/100) + " " + total
}

// RenderControls renders the previous, play/pause and next buttons and
// returns where each one landed.
func (t *Transport) RenderControls(button core.ButtonState) (string, []Hit) {
	playIcon := "▶"
	if button == core.ButtonPause {
		playIcon = "⏸"
	}

	buttons := []struct {
		control input.Control
		label   string
		style   lipgloss.Style
	}{
		{input.ControlPrevious, "⏮ Prev", styles.Muted},
		{input.ControlPlay, playIcon + " " + button.String(), styles.Highlight},
		{input.ControlNext, "Next ⏭", styles.Muted},
	}

	const indent, gap = 2, 3
	line := lipgloss.NewStyle().Width(indent).Render("")
	x := indent
	hits := make([]Hit, 0, len(buttons))
	for i, b := range buttons {
		if i > 0 {
			line += lipgloss.NewStyle().Width(gap).Render("")
			x += gap
		}
		rendered := b.style.Render("[ " + b.label + " ]")
		w := lipgloss.Width(rendered)
		hits = append(hits, Hit{Control: b.control, Start: x, End: x + w})
		line += rendered
		x += w
	}
	return line, hits
}

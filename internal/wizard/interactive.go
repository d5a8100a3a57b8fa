package wizard

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/tessro/tapedeck/internal/playlist"
)

// Interactive provides interactive fallback functionality.
type Interactive struct {
	enabled bool
}

// NewInteractive creates a new interactive handler.
func NewInteractive() *Interactive {
	return &Interactive{
		enabled: true,
	}
}

// SetEnabled enables or disables interactive mode.
func (i *Interactive) SetEnabled(enabled bool) {
	i.enabled = enabled
}

// IsTerminal returns true if stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// CanInteract returns true if interactive mode is available.
func (i *Interactive) CanInteract() bool {
	return i.enabled && IsTerminal()
}

// PromptTrack asks the user to pick a track and returns its index. When
// interactive mode is unavailable it returns def without prompting.
func (i *Interactive) PromptTrack(entries []playlist.Entry, def int) (int, error) {
	if !i.CanInteract() || len(entries) == 0 {
		return def, nil
	}

	selected := def
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Start with").
				Options(trackOptions(entries)...).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		return def, fmt.Errorf("selection cancelled: %w", err)
	}
	return selected, nil
}

// trackOptions builds one numbered option per playlist entry.
func trackOptions(entries []playlist.Entry) []huh.Option[int] {
	options := make([]huh.Option[int], 0, len(entries))
	for _, e := range entries {
		label := fmt.Sprintf("%2d. %s", e.Index+1, e.Label())
		options = append(options, huh.NewOption(label, e.Index))
	}
	return options
}

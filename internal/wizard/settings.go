package wizard

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/tessro/tapedeck/internal/config"
	"github.com/tessro/tapedeck/internal/tui/styles"
)

// PromptSettings walks through the commonly changed settings and updates
// cfg in place. It leaves cfg untouched when interactive mode is
// unavailable.
func (i *Interactive) PromptSettings(cfg *config.Config) error {
	if !i.CanInteract() {
		return nil
	}

	theme := cfg.TUI.Theme
	path := cfg.Playlist.Path
	autoplay := cfg.Playback.Autoplay
	remote := cfg.Remote.Enabled

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Default playlist").
				Description("Path to a playlist TOML file (optional)").
				Value(&path),
			huh.NewSelect[string]().
				Title("Theme").
				Options(themeOptions()...).
				Value(&theme),
			huh.NewConfirm().
				Title("Start playing on launch?").
				Value(&autoplay),
			huh.NewConfirm().
				Title("Enable the local control server?").
				Description("Needed for 'tapedeck status', 'next', 'tail' and friends").
				Value(&remote),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}

	cfg.Playlist.Path = path
	cfg.TUI.Theme = theme
	cfg.Playback.Autoplay = autoplay
	cfg.Remote.Enabled = remote
	return nil
}

func themeOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption("Follow terminal", styles.ThemeAuto),
		huh.NewOption("Dark", styles.ThemeDark),
		huh.NewOption("Light", styles.ThemeLight),
	}
}

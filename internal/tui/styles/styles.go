package styles

import (
	"strings"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// Theme names accepted by Use.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Colors, drawn from the catppuccin palettes
var (
	// Primary colors
	Primary   lipgloss.TerminalColor
	Secondary lipgloss.TerminalColor
	Accent    lipgloss.TerminalColor

	// Status colors
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Info    lipgloss.TerminalColor

	// Neutral colors
	Surface   lipgloss.TerminalColor
	Border    lipgloss.TerminalColor
	Text      lipgloss.TerminalColor
	TextMuted lipgloss.TerminalColor
	TextDim   lipgloss.TerminalColor

	// Progress bar fill colors as hex, for components that take plain
	// strings. Auto uses the dark palette.
	BarFull  string
	BarEmpty string
)

// Text styles
var (
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Highlight lipgloss.Style
	Muted     lipgloss.Style
	Dim       lipgloss.Style
	Playing   lipgloss.Style
	Paused    lipgloss.Style
	Failed    lipgloss.Style
	Selected  lipgloss.Style
)

// Border styles
var (
	BorderStyle   lipgloss.Style
	FocusedBorder lipgloss.Style
)

func init() {
	Use(ThemeAuto)
}

// Use switches every style to the named theme. "auto" adapts to the
// terminal background; unknown names fall back to auto.
func Use(theme string) {
	pick := func(c func(catppuccin.Flavor) catppuccin.Color) lipgloss.TerminalColor {
		light, dark := c(catppuccin.Latte).Hex, c(catppuccin.Mocha).Hex
		switch strings.ToLower(theme) {
		case ThemeDark:
			return lipgloss.Color(dark)
		case ThemeLight:
			return lipgloss.Color(light)
		default:
			return lipgloss.AdaptiveColor{Light: light, Dark: dark}
		}
	}

	Primary = pick(catppuccin.Flavor.Mauve)
	Secondary = pick(catppuccin.Flavor.Green)
	Accent = pick(catppuccin.Flavor.Peach)

	Success = pick(catppuccin.Flavor.Green)
	Warning = pick(catppuccin.Flavor.Yellow)
	Error = pick(catppuccin.Flavor.Red)
	Info = pick(catppuccin.Flavor.Blue)

	Surface = pick(catppuccin.Flavor.Surface0)
	Border = pick(catppuccin.Flavor.Surface2)
	Text = pick(catppuccin.Flavor.Text)
	TextMuted = pick(catppuccin.Flavor.Subtext0)
	TextDim = pick(catppuccin.Flavor.Overlay0)

	flavor := catppuccin.Mocha
	if strings.EqualFold(theme, ThemeLight) {
		flavor = catppuccin.Latte
	}
	BarFull = flavor.Mauve().Hex
	BarEmpty = flavor.Surface1().Hex

	Title = lipgloss.NewStyle().Bold(true).Foreground(Text)
	Subtitle = lipgloss.NewStyle().Foreground(TextMuted)
	Label = lipgloss.NewStyle().Foreground(TextDim)
	Highlight = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Muted = lipgloss.NewStyle().Foreground(TextMuted)
	Dim = lipgloss.NewStyle().Foreground(TextDim)
	Playing = lipgloss.NewStyle().Foreground(Success)
	Paused = lipgloss.NewStyle().Foreground(Warning)
	Failed = lipgloss.NewStyle().Foreground(Error)
	Selected = lipgloss.NewStyle().Background(Surface)

	BorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border)

	FocusedBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary)
}

// PanelTitle creates a styled panel title
func PanelTitle(title string, focused bool) string {
	style := Label
	if focused {
		style = Highlight
	}
	return style.Render(title)
}

// StatusIcon returns an icon for playback status
func StatusIcon(playing bool) string {
	if playing {
		return Playing.Render("▶")
	}
	return Paused.Render("⏸")
}

// Truncate shortens s to at most n cells, marking the cut with an
// ellipsis.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	if n == 1 {
		return string(r[:1])
	}
	for len(r) > 0 && lipgloss.Width(string(r)) > n-1 {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

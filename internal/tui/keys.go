package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Play     key.Binding
	Next     key.Binding
	Prev     key.Binding
	Activate key.Binding
	Up       key.Binding
	Down     key.Binding
	Back     key.Binding
	Forward  key.Binding
	VolUp    key.Binding
	VolDown  key.Binding
	Filter   key.Binding
	Focus    key.Binding
	Copy     key.Binding
	Help     key.Binding
	Quit     key.Binding
	Escape   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Play:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Next:     key.NewBinding(key.WithKeys("right", "n"), key.WithHelp("→/n", "next")),
		Prev:     key.NewBinding(key.WithKeys("left", "p"), key.WithHelp("←/p", "previous")),
		Activate: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play selected")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Back:     key.NewBinding(key.WithKeys(","), key.WithHelp(",", "back 5s")),
		Forward:  key.NewBinding(key.WithKeys("."), key.WithHelp(".", "forward 5s")),
		VolUp:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		VolDown:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
		Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Focus:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "playlist focus")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy track")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Escape:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Next, k.Prev, k.Filter, k.Focus, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Play, k.Next, k.Prev, k.Back, k.Forward},
		{k.VolUp, k.VolDown, k.Copy},
		{k.Focus, k.Up, k.Down, k.Activate, k.Filter},
		{k.Help, k.Escape, k.Quit},
	}
}

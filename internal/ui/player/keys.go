package player

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the keybindings for the player.
type KeyMap struct {
	First    key.Binding
	Previous key.Binding
	Toggle   key.Binding
	Next     key.Binding
	Last     key.Binding
	Speed    key.Binding
	Debug    key.Binding
	Theme    key.Binding
	Remount  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		First: key.NewBinding(
			key.WithKeys("shift+left", "H", "home"),
			key.WithHelp("⇧←", "first"),
		),
		Previous: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "back"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "forward"),
		),
		Last: key.NewBinding(
			key.WithKeys("shift+right", "L", "end"),
			key.WithHelp("⇧→", "last"),
		),
		Speed: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6"),
			key.WithHelp("1-6", "speed"),
		),
		Debug: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "debug borders"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "theme"),
		),
		Remount: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Previous, k.Toggle, k.Next, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.First, k.Previous, k.Toggle, k.Next, k.Last},
		{k.Speed, k.Debug, k.Theme, k.Remount},
		{k.Help, k.Quit},
	}
}

package monitor

import "github.com/charmbracelet/bubbles/key"

// keyMap defines key bindings for the dashboard
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Brighter key.Binding
	Dimmer   key.Binding
	Full     key.Binding
	Off      key.Binding
	Refresh  key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Brighter, k.Dimmer, k.Full, k.Off, k.Refresh, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Brighter, k.Dimmer, k.Full, k.Off},
		{k.Refresh, k.Quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Brighter: key.NewBinding(
			key.WithKeys("+", "=", "right", "l"),
			key.WithHelp("+", "raise 10%"),
		),
		Dimmer: key.NewBinding(
			key.WithKeys("-", "left", "h"),
			key.WithHelp("-", "lower 10%"),
		),
		Full: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "full"),
		),
		Off: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "off"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

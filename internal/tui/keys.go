package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Hold     key.Binding
	Roll     key.Binding
	Up       key.Binding
	Down     key.Binding
	Claim    key.Binding
	Hint     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Hold: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5"),
			key.WithHelp("1-5", "hold die"),
		),
		Roll: key.NewBinding(
			key.WithKeys("r", " "),
			key.WithHelp("r", "roll"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "category up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "category down"),
		),
		Claim: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "score category"),
		),
		Hint: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "hint"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll log up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll log down"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Hold, k.Roll, k.Claim, k.Hint, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Hold, k.Roll, k.Hint},
		{k.Up, k.Down, k.Claim},
		{k.PageUp, k.PageDown, k.Help, k.Quit},
	}
}

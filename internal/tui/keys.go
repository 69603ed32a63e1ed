package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Refresh key.Binding
	Upload  key.Binding
	Analyze key.Binding
	Clear   key.Binding
	Prev    key.Binding
	Next    key.Binding
	Confirm key.Binding
	Yes     key.Binding
	No      key.Binding
	Cancel  key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Upload:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload")),
		Analyze: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "analyze")),
		Clear:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Prev:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev file")),
		Next:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next file")),
		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Yes:     key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		No:      key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Upload, k.Analyze, k.Clear, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Refresh, k.Upload, k.Analyze, k.Clear},
		{k.Prev, k.Next, k.Confirm, k.Cancel, k.Quit},
	}
}

package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keybindings for the TUI. It implements help.KeyMap.
type keyMap struct {
	NextTab    key.Binding
	PrevTab    key.Binding
	Pods       key.Binding
	Nodes      key.Binding
	Services   key.Binding
	Up         key.Binding
	Down       key.Binding
	Logs       key.Binding
	CopyName   key.Binding
	ErrorsOnly key.Binding
	Back       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev tab"),
		),
		Pods: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "pods"),
		),
		Nodes: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "nodes"),
		),
		Services: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "services"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Logs: key.NewBinding(
			key.WithKeys("l", "enter"),
			key.WithHelp("l/enter", "logs"),
		),
		CopyName: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy name"),
		),
		ErrorsOnly: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "errors only"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
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

// ShortHelp returns the bindings shown in the mini help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Logs, k.CopyName, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the expanded help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pods, k.Nodes, k.Services, k.NextTab, k.PrevTab},
		{k.Up, k.Down, k.Logs, k.CopyName, k.ErrorsOnly},
		{k.Back, k.Help, k.Quit},
	}
}

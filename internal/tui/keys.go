package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Play     key.Binding
	Next     key.Binding
	Prev     key.Binding
	Reset    key.Binding
	End      key.Binding
	Edit     key.Binding
	Workload key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Play:     key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "play/pause")),
		Next:     key.NewBinding(key.WithKeys("n", "right", "l"), key.WithHelp("→/n", "next step")),
		Prev:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "previous step")),
		Reset:    key.NewBinding(key.WithKeys("r", "home"), key.WithHelp("r", "reset")),
		End:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "jump to results")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit processes")),
		Workload: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "next workload")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Next, k.Reset, k.Edit, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Play, k.Next, k.Prev, k.Reset, k.End},
		{k.Edit, k.Workload, k.Help, k.Quit},
	}
}

type editorKeyMap struct {
	Add    key.Binding
	Delete key.Binding
	Edit   key.Binding
	Cancel key.Binding
	Apply  key.Binding
}

func defaultEditorKeyMap() editorKeyMap {
	return editorKeyMap{
		Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add process")),
		Delete: key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "remove process")),
		Edit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit / next field")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel field / discard edits")),
		Apply:  key.NewBinding(key.WithKeys("tab", "ctrl+s"), key.WithHelp("tab", "apply and animate")),
	}
}

func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Delete, k.Edit, k.Cancel, k.Apply}
}

func (k editorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

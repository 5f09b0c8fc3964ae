package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Digits   key.Binding
	Ops      key.Binding
	Evaluate key.Binding
	Clear    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Digits: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "."),
			key.WithHelp("0-9 .", "enter number"),
		),
		Ops: key.NewBinding(
			key.WithKeys("+", "-", "*", "/", "x", "X", "×", "÷"),
			key.WithHelp("+ - * /", "operator"),
		),
		Evaluate: key.NewBinding(
			key.WithKeys("=", "enter"),
			key.WithHelp("=/enter", "evaluate"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c", "C", "esc"),
			key.WithHelp("c/esc", "clear"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Evaluate, k.Clear, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Digits, k.Ops},
		{k.Evaluate, k.Clear},
		{k.Help, k.Quit},
	}
}

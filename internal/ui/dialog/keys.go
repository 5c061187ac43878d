// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dialog

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the dialog key bindings.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
	Close  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "shift+tab", "ctrl+p"),
			key.WithHelp("up", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "tab", "ctrl+n"),
			key.WithHelp("down/tab", "next"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
		Close: key.NewBinding(
			key.WithKeys("enter", "esc", "q", "ctrl+c"),
			key.WithHelp("enter", "close"),
		),
	}
}

// deckHelp is shown under the deck list.
type deckHelp keyMap

func (k deckHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Quit}
}

func (k deckHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// directoryHelp is shown under the directory prompt.
type directoryHelp keyMap

func (k directoryHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Quit}
}

func (k directoryHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// reportHelp is shown under the summary.
type reportHelp keyMap

func (k reportHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Close}
}

func (k reportHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	back     key.Binding
	yes      key.Binding
	no       key.Binding
	play     key.Binding
	shuffle  key.Binding
	playNext key.Binding
	enqueue  key.Binding
	export   key.Binding
	share    key.Binding
	open     key.Binding
	sync     key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		yes:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:       key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		play:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play")),
		shuffle:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shuffle")),
		playNext: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "play next")),
		enqueue:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "enqueue")),
		export:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export")),
		share:    key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "share")),
		open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open source")),
		sync:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "sync")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.play, k.shuffle, k.playNext, k.enqueue},
		{k.export, k.share, k.open, k.sync},
		{k.quit},
	}
}

package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Views
	NextView     key.Binding
	PrevView     key.Binding
	DiscoverView key.Binding
	LikesView    key.Binding
	StatsView    key.Binding

	// Actions
	Quit    key.Binding
	Help    key.Binding
	Escape  key.Binding
	Filter  key.Binding
	Search  key.Binding
	Sort    key.Binding
	Like    key.Binding
	Details key.Binding
	Popular key.Binding
	Refresh key.Binding
	Open    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Views
		NextView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next view"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "previous view"),
		),
		DiscoverView: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "discover"),
		),
		LikesView: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "likes"),
		),
		StatsView: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "stats"),
		),

		// Actions
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel/clear"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Search: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "search catalog"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		Like: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "like/unlike"),
		),
		Details: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "load details"),
		),
		Popular: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "popular"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open in browser"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()

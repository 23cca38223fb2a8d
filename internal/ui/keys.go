package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the console.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding

	// Search
	Search        key.Binding
	NextMatch     key.Binding
	PrevMatch     key.Binding
	CaseSensitive key.Binding
	Regex         key.Binding
	WholeWord     key.Binding

	// Links
	NextLink key.Binding
	PrevLink key.Binding
	Activate key.Binding

	// Display
	ToggleCompact  key.Binding
	ToggleExpanded key.Binding
	ToggleLimit    key.Binding
	ToggleFollow   key.Binding

	// List
	Filter           key.Binding
	ToggleOrder      key.Binding
	ToggleOnlyErrors key.Binding
	ToggleOnlyPins   key.Binding
	TogglePin        key.Binding
	RemoveAll        key.Binding

	// Prompts
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close details / clear search"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Scroll down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "Page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Half page down"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		NextMatch: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Next match"),
		),
		PrevMatch: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "Previous match"),
		),
		CaseSensitive: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "Match case"),
		),
		Regex: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Regular expression"),
		),
		WholeWord: key.NewBinding(
			key.WithKeys("W"),
			key.WithHelp("W", "Whole word"),
		),

		NextLink: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next link"),
		),
		PrevLink: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous link"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open link"),
		),

		ToggleCompact: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Compact mode"),
		),
		ToggleExpanded: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Expand responses"),
		),
		ToggleLimit: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Limit to 1000"),
		),
		ToggleFollow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Follow newest"),
		),

		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Filter expression"),
		),
		ToggleOrder: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Oldest/newest first"),
		),
		ToggleOnlyErrors: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Only errors"),
		),
		ToggleOnlyPins: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "Only pins"),
		),
		TogglePin: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Pin selected"),
		),
		RemoveAll: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "Remove all"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Filter, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view, one group per
// column.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.HalfPageDown, k.HalfPageUp, k.NextLink, k.PrevLink, k.Activate, k.Escape},
		{k.Search, k.NextMatch, k.PrevMatch, k.CaseSensitive, k.Regex, k.WholeWord},
		{k.ToggleCompact, k.ToggleExpanded, k.ToggleLimit, k.ToggleFollow, k.CycleTheme},
		{k.Filter, k.ToggleOrder, k.ToggleOnlyErrors, k.ToggleOnlyPins, k.TogglePin, k.RemoveAll},
		{k.Help, k.Quit},
	}
}

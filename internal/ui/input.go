package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pulsar/internal/store"
)

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.isError {
		m.status = ""
	}
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.prompt != promptNone {
		return m.handlePromptKey(msg)
	}
	if m.details != nil {
		return m.handleDetailsKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		m.layout()
		m.doc.dirty = true
		m.repaint()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		switch {
		case m.query != "":
			m.console.Search("")
		case m.focusLink >= 0:
			m.focusLink = -1
			m.doc.dirty = true
			m.repaint()
		default:
			m.status = ""
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		return m, m.openPrompt(promptSearch, "search: ", m.query)

	case key.Matches(msg, m.keys.Filter):
		return m, m.openPrompt(promptFilter, "filter: ", m.filter)

	case key.Matches(msg, m.keys.RemoveAll):
		m.prompt = promptRemoveAll
		m.setStatus("Remove every entity? (y/n)", false)
		return m, nil

	case key.Matches(msg, m.keys.NextMatch):
		m.console.SelectMatch(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevMatch):
		m.console.SelectMatch(-1)
		return m, nil

	case key.Matches(msg, m.keys.CaseSensitive):
		m.prefs.Search.CaseSensitive = !m.prefs.Search.CaseSensitive
		m.applySearchOptions()
		return m, nil

	case key.Matches(msg, m.keys.Regex):
		m.prefs.Search.Regex = !m.prefs.Search.Regex
		m.applySearchOptions()
		return m, nil

	case key.Matches(msg, m.keys.WholeWord):
		m.prefs.Search.WholeWord = !m.prefs.Search.WholeWord
		m.applySearchOptions()
		return m, nil

	case key.Matches(msg, m.keys.NextLink):
		m.cycleLink(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevLink):
		m.cycleLink(-1)
		return m, nil

	case key.Matches(msg, m.keys.Activate):
		if m.focusLink >= 0 && m.focusLink < len(m.doc.links) {
			m.console.Activate(m.doc.links[m.focusLink].link.URL())
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleCompact):
		m.prefs.Compact = !m.prefs.Compact
		m.applyRenderOptions()
		return m, nil

	case key.Matches(msg, m.keys.ToggleExpanded):
		m.prefs.NetworkExpanded = !m.prefs.NetworkExpanded
		m.applyRenderOptions()
		return m, nil

	case key.Matches(msg, m.keys.ToggleLimit):
		m.prefs.LimitToThousand = !m.prefs.LimitToThousand
		m.applyRenderOptions()
		return m, nil

	case key.Matches(msg, m.keys.ToggleFollow):
		m.setFollow(!m.follow, true)
		if m.follow {
			m.scrollToNewest()
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleOrder):
		if m.order == store.OrderNewest {
			m.order = store.OrderOldest
		} else {
			m.order = store.OrderNewest
		}
		m.console.SetOrder(m.order)
		return m, nil

	case key.Matches(msg, m.keys.ToggleOnlyErrors):
		m.prefs.OnlyErrors = !m.prefs.OnlyErrors
		m.console.SetOnlyErrors(m.prefs.OnlyErrors)
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ToggleOnlyPins):
		m.onlyPins = !m.onlyPins
		m.console.SetOnlyPins(m.onlyPins)
		return m, nil

	case key.Matches(msg, m.keys.TogglePin):
		if m.current < 0 {
			m.setStatus("Select a match or open an entity to pin it", false)
			return m, nil
		}
		m.console.TogglePin(m.current)
		return m, nil
	}

	return m.handleScrollKey(msg)
}

// handleScrollKey moves the transcript. Scrolling away from the newest
// entity turns follow mode off for the session.
func (m Model) handleScrollKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	towardNewest := false
	switch {
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		towardNewest = m.order == store.OrderNewest
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		towardNewest = m.order == store.OrderOldest
	case key.Matches(msg, m.keys.Down):
		m.viewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.viewport.ScrollUp(1)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.viewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.viewport.HalfPageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.PageUp()
	default:
		return m, nil
	}
	m.setFollow(towardNewest, false)
	return m, nil
}

func (m *Model) openPrompt(kind promptKind, label, value string) tea.Cmd {
	m.prompt = kind
	m.input.Prompt = label
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.input.Blur()
}

// handlePromptKey handles input while a prompt is open. Search runs as the
// user types; the console throttles the refreshes.
func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt == promptRemoveAll {
		if msg.String() == "y" {
			m.console.RemoveAll()
			m.setStatus("Removed all entities", false)
		}
		m.prompt = promptNone
		return m, nil
	}

	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, m.keys.Confirm):
		value := m.input.Value()
		if m.prompt == promptFilter {
			if _, err := store.CompileFilter(value); err != nil {
				m.setStatus(err.Error(), true)
				return m, nil
			}
			m.filter = value
			m.console.SetFilter(value)
			m.status = ""
		}
		m.closePrompt()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.prompt == promptSearch {
			m.console.Search("")
		}
		m.closePrompt()
		return m, nil
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.prompt == promptSearch && m.input.Value() != before {
		m.console.Search(m.input.Value())
	}
	return m, cmd
}

func (m *Model) applyRenderOptions() {
	m.console.SetOptions(m.prefs.RenderOptions())
	m.savePrefs()
}

func (m *Model) applySearchOptions() {
	m.console.SetSearchOptions(m.prefs.SearchOptions())
	m.savePrefs()
}

// cycleLink moves link focus by delta and scrolls to the focused link.
func (m *Model) cycleLink(delta int) {
	n := len(m.doc.links)
	if n == 0 {
		return
	}
	switch {
	case m.focusLink < 0 && delta > 0:
		m.focusLink = m.firstVisibleLink()
	case m.focusLink < 0:
		m.focusLink = n - 1
	default:
		m.focusLink = ((m.focusLink+delta)%n + n) % n
	}
	m.doc.dirty = true
	m.repaint()
	line := m.doc.lineOf(m.doc.links[m.focusLink].offset)
	if line < m.viewport.YOffset || line >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(max(line-m.viewport.Height/2, 0))
		m.setFollow(false, false)
	}
}

// firstVisibleLink returns the first link at or below the top of the
// viewport, or 0.
func (m *Model) firstVisibleLink() int {
	for i, l := range m.doc.links {
		if m.doc.lineOf(l.offset) >= m.viewport.YOffset {
			return i
		}
	}
	return 0
}

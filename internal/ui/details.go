package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pulsar/internal/entity"
	"github.com/five82/pulsar/internal/transcript"
)

// openDetails shows the full record of an entity in place of the transcript.
func (m *Model) openDetails(e entity.Entity, index int) {
	m.details = &e
	m.detailsIndex = index
	m.current = index
	m.detailsView = viewport.New(max(m.width-4, 1), max(m.bodyHeight()-2, 1))
	m.detailsView.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.detailsView.SetContent(m.paintDetails(e))
}

func (m Model) paintDetails(e entity.Entity) string {
	styles := m.theme.Styles()
	lines, _ := paintText(transcript.Details(e), nil, styles.SpanStyle, nil)
	return strings.Join(lines, "\n")
}

func (m *Model) closeDetails() {
	m.details = nil
	m.detailsIndex = -1
}

func (m Model) handleDetailsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit):
		m.closeDetails()
		return m, nil
	case key.Matches(msg, m.keys.TogglePin):
		if m.details.Pinned {
			m.setStatus("Unpinned", false)
		} else {
			m.setStatus("Pinned", false)
		}
		m.console.TogglePin(m.detailsIndex)
		m.details.Pinned = !m.details.Pinned
		m.detailsView.SetContent(m.paintDetails(*m.details))
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	}

	var cmd tea.Cmd
	m.detailsView, cmd = m.detailsView.Update(msg)
	return m, cmd
}

func (m Model) renderDetails() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		BorderBackground(lipgloss.Color(m.theme.FocusBg)).
		Width(max(m.width-2, 1))
	return box.Render(m.detailsView.View())
}

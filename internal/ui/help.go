package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

var helpTitles = []string{"Navigation", "Search", "Display", "List", "General"}

// renderHelp renders the help overlay from the key map.
func (m Model) renderHelp() string {
	groups := m.keys.FullHelp()
	columns := make([]string, 0, len(groups))
	for i, group := range groups {
		title := ""
		if i < len(helpTitles) {
			title = helpTitles[i]
		}
		columns = append(columns, m.renderHelpColumn(title, group))
	}

	split := min(3, len(columns))
	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Text)).Bold(true).Render("Keyboard Shortcuts"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, columns[:split]...),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, columns[split:]...),
	)

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		Padding(1, 2)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(content),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

func (m Model) renderHelpColumn(title string, bindings []key.Binding) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(11)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Text))

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent)).Bold(true).Render(title))
	for _, binding := range bindings {
		h := binding.Help()
		b.WriteString("\n")
		b.WriteString(keyStyle.Render(h.Key))
		b.WriteString(descStyle.Render(h.Desc))
	}
	return lipgloss.NewStyle().Width(40).Render(b.String())
}

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pulsar/internal/store"
)

// renderHeader renders the top bar: entity count, active list settings and
// the relay link state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bar := lipgloss.NewStyle().Background(lipgloss.Color(m.theme.Surface))
	muted := bar.Foreground(lipgloss.Color(m.theme.Muted))
	text := bar.Foreground(lipgloss.Color(m.theme.Text))
	accent := bar.Foreground(lipgloss.Color(m.theme.Accent))
	sep := muted.Render(" · ")

	parts := []string{
		styles.Logo.Render("pulsar"),
		text.Render(countLabel(m.doc.count)),
	}
	if flags := m.flagsLabel(); flags != "" {
		parts = append(parts, accent.Render(flags))
	}
	if m.filter != "" {
		parts = append(parts, muted.Render("filter ")+text.Render(truncateMiddle(m.filter, 40)))
	}
	if link := m.linkLabel(); link != "" {
		parts = append(parts, link)
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

func countLabel(n int) string {
	if n == 1 {
		return "1 entity"
	}
	return fmt.Sprintf("%d entities", n)
}

// flagsLabel lists the toggles that change what is shown.
func (m Model) flagsLabel() string {
	var flags []string
	if m.order == store.OrderNewest {
		flags = append(flags, "newest first")
	}
	if m.prefs.OnlyErrors {
		flags = append(flags, "errors")
	}
	if m.onlyPins {
		flags = append(flags, "pins")
	}
	if m.prefs.Compact {
		flags = append(flags, "compact")
	}
	if m.follow {
		flags = append(flags, "follow")
	}
	return strings.Join(flags, " ")
}

// linkLabel describes the relay poller, or "" when no relay is configured.
func (m Model) linkLabel() string {
	if m.link == nil {
		return ""
	}
	bar := lipgloss.NewStyle().Background(lipgloss.Color(m.theme.Surface))
	s := m.linkState
	switch {
	case s.IsOffline():
		return bar.Foreground(lipgloss.Color(m.theme.Danger)).Bold(true).Render("relay offline") +
			bar.Foreground(lipgloss.Color(m.theme.Muted)).Render(" "+lastSeen(s.LastUpdated))
	case s.LastError != nil:
		return bar.Foreground(lipgloss.Color(m.theme.Warning)).Render("relay retrying")
	case s.Connected:
		return bar.Foreground(lipgloss.Color(m.theme.Success)).Render(fmt.Sprintf("relay %d received", s.Received))
	default:
		return bar.Foreground(lipgloss.Color(m.theme.Warning)).Render("connecting to " + s.Relay)
	}
}

func lastSeen(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("15:04:05")
}

// renderFooter renders the prompt, the last status message or the search
// summary.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	bar := lipgloss.NewStyle().Background(lipgloss.Color(m.theme.Surface))

	var content string
	switch {
	case m.prompt == promptSearch || m.prompt == promptFilter:
		content = m.input.View()
	case m.status != "":
		color := m.theme.Muted
		if m.isError {
			color = m.theme.Danger
		}
		content = bar.Foreground(lipgloss.Color(color)).Render(truncateMiddle(m.status, max(m.width-2, 10)))
	case m.query != "":
		content = bar.Foreground(lipgloss.Color(m.theme.Text)).Render(m.searchLabel())
	case m.details != nil:
		content = bar.Foreground(lipgloss.Color(m.theme.Muted)).Render("esc close · p pin · j/k scroll")
	default:
		content = bar.Foreground(lipgloss.Color(m.theme.Muted)).Render("/ search · f filter · tab links · ? help · q quit")
	}
	return styles.Footer.Width(m.width).Render(content)
}

// searchLabel summarizes matches like "2/7 matches for "x" [Aa .* W]".
func (m Model) searchLabel() string {
	var b strings.Builder
	if m.matchCount == 0 {
		b.WriteString("no matches")
	} else {
		fmt.Fprintf(&b, "%d/%d matches", m.selected+1, m.matchCount)
	}
	fmt.Fprintf(&b, " for %q", m.query)
	var opts []string
	if m.prefs.Search.CaseSensitive {
		opts = append(opts, "Aa")
	}
	if m.prefs.Search.Regex {
		opts = append(opts, ".*")
	}
	if m.prefs.Search.WholeWord {
		opts = append(opts, "W")
	}
	if len(opts) > 0 {
		b.WriteString(" [" + strings.Join(opts, " ") + "]")
	}
	return b.String()
}

// truncateMiddle shortens s to limit runes, keeping both ends.
func truncateMiddle(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit || limit < 5 {
		return s
	}
	half := (limit - 1) / 2
	return string(r[:half]) + "…" + string(r[len(r)-(limit-1-half):])
}

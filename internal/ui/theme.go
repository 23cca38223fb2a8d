package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pulsar/internal/entity"
	"github.com/five82/pulsar/internal/transcript"
)

// Theme defines colors for the console.
type Theme struct {
	Name string

	// Base colors
	Background string // Outermost background
	Surface    string // Header and footer bars
	FocusBg    string // Transcript background

	SelectionBg   string
	SelectionText string
	Border        string

	// Text colors
	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// Match highlights
	MatchBg       string
	ActiveMatchBg string

	// Message colors by level
	Levels map[entity.Level]string
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header      lipgloss.Style
	Footer      lipgloss.Style
	Logo        lipgloss.Style
	Selected    lipgloss.Style
	Match       lipgloss.Style
	ActiveMatch lipgloss.Style

	levels map[entity.Level]string
	bg     lipgloss.Color
}

// Styles returns Lipgloss styles for this theme. Text styles carry the
// transcript background so that spans leave no gaps.
func (t Theme) Styles() Styles {
	bg := lipgloss.Color(t.FocusBg)
	fg := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color(color))
	}
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		Logo: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),

		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)).
			Underline(true),

		Match: lipgloss.NewStyle().
			Background(lipgloss.Color(t.MatchBg)).
			Foreground(lipgloss.Color(t.Text)),

		ActiveMatch: lipgloss.NewStyle().
			Background(lipgloss.Color(t.ActiveMatchBg)).
			Foreground(lipgloss.Color(t.Background)).
			Bold(true),

		levels: t.Levels,
		bg:     bg,
	}
}

// LevelStyle returns the message style for a level.
func (s Styles) LevelStyle(level entity.Level) lipgloss.Style {
	color := s.levels[level]
	if color == "" {
		return s.Text
	}
	st := lipgloss.NewStyle().Background(s.bg).Foreground(lipgloss.Color(color))
	if level >= entity.LevelError {
		st = st.Bold(true)
	}
	return st
}

// SpanStyle maps a transcript span to a style.
func (s Styles) SpanStyle(span transcript.Span) lipgloss.Style {
	switch span.Style {
	case transcript.StyleDigits:
		return s.FaintText
	case transcript.StyleTitle:
		return s.MutedText.Bold(true)
	case transcript.StyleMessage:
		return s.LevelStyle(span.Level)
	case transcript.StyleLink:
		return s.AccentText.Underline(true)
	case transcript.StylePending:
		return s.WarningText.Bold(true)
	case transcript.StyleSuccess:
		return s.SuccessText
	case transcript.StyleFailure:
		return s.DangerText
	case transcript.StyleJSONPunctuation:
		return s.FaintText
	case transcript.StyleJSONKey:
		return s.InfoText
	case transcript.StyleJSONString:
		return s.SuccessText.UnsetBold()
	case transcript.StyleJSONOther:
		return s.WarningText
	case transcript.StyleJSONNull:
		return s.MutedText.Italic(true)
	default:
		return s.Text
	}
}

var themes = map[string]Theme{
	"Dracula": draculaTheme(),
	"Slate":   slateTheme(),
}

var themeOrder = []string{"Dracula", "Slate"}

// GetTheme returns a theme by name, falling back to Dracula.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return draculaTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

func draculaTheme() Theme {
	// https://draculatheme.com/spec
	return Theme{
		Name: "Dracula",

		Background: "#191A21",
		Surface:    "#21222C",
		FocusBg:    "#282A36",

		SelectionBg:   "#44475A",
		SelectionText: "#F8F8F2",
		Border:        "#BD93F9",

		Text:    "#F8F8F2",
		Muted:   "#6272A4",
		Faint:   "#6272A4",
		Accent:  "#BD93F9",
		Success: "#50FA7B",
		Warning: "#FFB86C",
		Danger:  "#FF5555",
		Info:    "#8BE9FD",

		MatchBg:       "#44475A",
		ActiveMatchBg: "#F1FA8C",

		Levels: map[entity.Level]string{
			entity.LevelTrace:    "#6272A4",
			entity.LevelDebug:    "#8BE9FD",
			entity.LevelInfo:     "#F8F8F2",
			entity.LevelNotice:   "#FF79C6",
			entity.LevelWarning:  "#FFB86C",
			entity.LevelError:    "#FF5555",
			entity.LevelCritical: "#FF5555",
		},
	}
}

func slateTheme() Theme {
	// Tailwind CSS Slate/Sky palette
	return Theme{
		Name: "Slate",

		Background: "#020617", // slate-950
		Surface:    "#1e293b", // slate-800
		FocusBg:    "#0f172a", // slate-900

		SelectionBg:   "#0284c7", // sky-600
		SelectionText: "#f8fafc", // slate-50
		Border:        "#38bdf8", // sky-400

		Text:    "#f1f5f9",
		Muted:   "#94a3b8",
		Faint:   "#64748b",
		Accent:  "#38bdf8",
		Success: "#22c55e",
		Warning: "#f59e0b",
		Danger:  "#ef4444",
		Info:    "#06b6d4",

		MatchBg:       "#334155",
		ActiveMatchBg: "#facc15",

		Levels: map[entity.Level]string{
			entity.LevelTrace:    "#64748b",
			entity.LevelDebug:    "#06b6d4",
			entity.LevelInfo:     "#f1f5f9",
			entity.LevelNotice:   "#a78bfa",
			entity.LevelWarning:  "#f59e0b",
			entity.LevelError:    "#ef4444",
			entity.LevelCritical: "#dc2626",
		},
	}
}

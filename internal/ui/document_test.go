package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pulsar/internal/console"
	"github.com/five82/pulsar/internal/transcript"
)

func plainStyle(transcript.Span) lipgloss.Style { return lipgloss.NewStyle() }

func markBrackets(k markKind) lipgloss.Style {
	switch k {
	case markActiveMatch:
		return lipgloss.NewStyle().SetString("!")
	case markLink:
		return lipgloss.NewStyle().SetString("@")
	default:
		return lipgloss.NewStyle().SetString("*")
	}
}

func sampleText() transcript.Text {
	var t transcript.Text
	t.Write("12:00 · ", transcript.StyleDigits)
	t.Write("app\n", transcript.StyleTitle)
	t.Write("hello world\nsecond", transcript.StyleMessage)
	t.Write("\n\n", transcript.StylePlain)
	t.Append(transcript.Span{Text: "Show all.", Style: transcript.StyleLink, Link: transcript.Link{Kind: transcript.LinkShowAll}})
	return t
}

func TestPaintText_SplitsLines(t *testing.T) {
	text := sampleText()
	lines, starts := paintText(text, nil, plainStyle, markBrackets)

	want := strings.Split(text.String(), "\n")
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
	full := text.String()
	for i, start := range starts {
		if !strings.HasPrefix(full[start:], want[i]) {
			t.Fatalf("start %d = %d does not begin %q", i, start, want[i])
		}
	}
}

func TestPaintText_MarksSplitRuns(t *testing.T) {
	text := sampleText()
	full := text.String()
	hello := strings.Index(full, "world")
	second := strings.Index(full, "second")
	marks := []mark{
		{offset: hello, length: len("world"), kind: markMatch},
		{offset: second, length: 3, kind: markActiveMatch},
	}

	lines, _ := paintText(text, marks, plainStyle, markBrackets)
	// SetString prefixes the rendered run, so each marked run gains its
	// marker character.
	if lines[1] != "hello * world" {
		t.Fatalf("line 1 = %q", lines[1])
	}
	if lines[2] != "! second" {
		t.Fatalf("line 2 = %q", lines[2])
	}
}

func TestDocument_ExtendOffsetsLinks(t *testing.T) {
	d := newDocument()
	d.reset(sampleText(), 1)
	if len(d.links) != 1 || d.links[0].link.Kind != transcript.LinkShowAll {
		t.Fatalf("links = %+v", d.links)
	}

	base := d.text.Len()
	var more transcript.Text
	more.Write("\n", transcript.StylePlain)
	more.Append(transcript.Span{Text: "GET /x ", Style: transcript.StyleLink, Link: transcript.Link{Kind: transcript.LinkShowAll}})
	d.extend(more, 2)

	if d.count != 2 || len(d.links) != 2 {
		t.Fatalf("count = %d, links = %+v", d.count, d.links)
	}
	if got := d.text.String()[d.links[1].offset:][:d.links[1].length]; got != "GET /x " {
		t.Fatalf("second link covers %q (base %d)", got, base)
	}
}

func TestDocument_LineOfAndHighlights(t *testing.T) {
	d := newDocument()
	d.reset(sampleText(), 1)
	d.setHighlights([]console.Highlight{{Match: 0, Offset: 20, Length: 2}, {Match: 3, Offset: 30, Length: 1}}, 3)
	if d.active != 1 {
		t.Fatalf("active = %d, want 1", d.active)
	}
	d.paint(GetTheme("Dracula").Styles(), -1)

	full := d.text.String()
	for off := 0; off < len(full); off++ {
		want := strings.Count(full[:off], "\n")
		if got := d.lineOf(off); got != want {
			t.Fatalf("lineOf(%d) = %d, want %d", off, got, want)
		}
	}
	if d.dirty {
		t.Fatalf("paint should clear dirty")
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("abcdefghij", 7); got != "abc…hij" {
		t.Fatalf("truncateMiddle = %q", got)
	}
	if got := truncateMiddle("short", 10); got != "short" {
		t.Fatalf("truncateMiddle = %q", got)
	}
}

func TestDocument_ExtendPaintsOnlyNewLines(t *testing.T) {
	styles := GetTheme("Dracula").Styles()
	d := newDocument()
	d.reset(sampleText(), 1)
	d.setHighlights([]console.Highlight{{Match: 0, Offset: 20, Length: 2}}, 0)
	d.paint(styles, -1)

	d.lines[0] = "kept"
	var more transcript.Text
	more.Write(" tail\n", transcript.StylePlain)
	more.Write("app ", transcript.StyleTitle)
	more.Write("next entity", transcript.StyleMessage)
	d.extend(more, 2)
	if d.dirty || !d.needsPaint() {
		t.Fatalf("extend: dirty = %v, needsPaint = %v", d.dirty, d.needsPaint())
	}
	d.paint(styles, -1)
	if d.needsPaint() {
		t.Fatalf("paint should cover the appended text")
	}
	if d.lines[0] != "kept" {
		t.Fatalf("line 0 was repainted: %q", d.lines[0])
	}

	full := newDocument()
	full.reset(d.text, 2)
	full.setHighlights(d.highlights, 0)
	full.paint(styles, -1)
	if len(d.lines) != len(full.lines) {
		t.Fatalf("lines = %d, want %d", len(d.lines), len(full.lines))
	}
	for i := 1; i < len(full.lines); i++ {
		if d.lines[i] != full.lines[i] {
			t.Fatalf("line %d = %q, want %q", i, d.lines[i], full.lines[i])
		}
	}
	for i := range full.starts {
		if d.starts[i] != full.starts[i] {
			t.Fatalf("starts = %v, want %v", d.starts, full.starts)
		}
	}
}

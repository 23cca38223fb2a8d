package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pulsar/internal/console"
	"github.com/five82/pulsar/internal/transcript"
)

type markKind int

const (
	markMatch markKind = iota
	markActiveMatch
	markLink
)

// mark overrides the span style over [offset, offset+length) of the document.
type mark struct {
	offset int
	length int
	kind   markKind
}

func (k mark) end() int {
	return k.offset + k.length
}

// linkPos is one activatable link in the document.
type linkPos struct {
	link   transcript.Link
	offset int
	length int
}

// document is the transcript as received from the console, painted into
// viewport lines on demand.
type document struct {
	text  transcript.Text
	count int

	links      []linkPos
	highlights []console.Highlight
	active     int // index into highlights, or -1

	lines   []string
	starts  []int // byte offset of each line
	painted int   // bytes of text covered by lines
	dirty   bool  // lines must be painted from scratch
}

func newDocument() document {
	return document{active: -1, dirty: true}
}

// reset replaces the whole text.
func (d *document) reset(text transcript.Text, count int) {
	d.text = text
	d.count = count
	d.highlights = nil
	d.active = -1
	d.links = scanLinks(text)
	d.dirty = true
}

// extend appends a fragment. Painted lines are kept; the next paint only
// renders from the last line on.
func (d *document) extend(frag transcript.Text, count int) {
	base := d.text.Len()
	d.text.AppendText(frag)
	d.count = count
	for _, l := range scanLinks(frag) {
		l.offset += base
		d.links = append(d.links, l)
	}
}

// needsPaint reports whether lines lag behind the text.
func (d *document) needsPaint() bool {
	return d.dirty || d.painted != d.text.Len()
}

// setHighlights replaces the match marks; selected indexes the console's
// match list.
func (d *document) setHighlights(hs []console.Highlight, selected int) {
	d.highlights = hs
	d.active = -1
	for i, h := range hs {
		if h.Match == selected {
			d.active = i
			break
		}
	}
	d.dirty = true
}

// scanLinks collects link spans, merging adjacent spans of the same link.
func scanLinks(text transcript.Text) []linkPos {
	var out []linkPos
	off := 0
	for _, sp := range text.Spans() {
		if sp.Link.Kind != transcript.LinkNone {
			if n := len(out); n > 0 && out[n-1].link == sp.Link && out[n-1].offset+out[n-1].length == off {
				out[n-1].length += len(sp.Text)
			} else {
				out = append(out, linkPos{link: sp.Link, offset: off, length: len(sp.Text)})
			}
		}
		off += len(sp.Text)
	}
	return out
}

// lineOf returns the line holding byte offset off.
func (d *document) lineOf(off int) int {
	i := sort.SearchInts(d.starts, off+1) - 1
	return max(i, 0)
}

// paint renders the text into styled lines. focus indexes links, or -1.
// When only appended text is unpainted, the last painted line is rendered
// again together with the new text and the earlier lines are kept.
func (d *document) paint(styles Styles, focus int) {
	var marks []mark
	for i, h := range d.highlights {
		kind := markMatch
		if i == d.active {
			kind = markActiveMatch
		}
		marks = append(marks, mark{offset: h.Offset, length: h.Length, kind: kind})
	}
	if focus >= 0 && focus < len(d.links) {
		l := d.links[focus]
		marks = append(marks, mark{offset: l.offset, length: l.length, kind: markLink})
	}
	sort.Slice(marks, func(i, j int) bool { return marks[i].offset < marks[j].offset })

	markStyle := func(k markKind) lipgloss.Style {
		switch k {
		case markActiveMatch:
			return styles.ActiveMatch
		case markLink:
			return styles.Selected
		default:
			return styles.Match
		}
	}
	if d.dirty || len(d.lines) == 0 {
		d.lines, d.starts = paintText(d.text, marks, styles.SpanStyle, markStyle)
	} else {
		last := len(d.lines) - 1
		lines, starts := paintTextFrom(d.text, d.starts[last], marks, styles.SpanStyle, markStyle)
		d.lines = append(d.lines[:last:last], lines...)
		d.starts = append(d.starts[:last:last], starts...)
	}
	d.painted = d.text.Len()
	d.dirty = false
}

// paintText splits text into lines, styling each run by its span or by the
// mark covering it. marks must be sorted and must not overlap.
func paintText(text transcript.Text, marks []mark, spanStyle func(transcript.Span) lipgloss.Style, markStyle func(markKind) lipgloss.Style) ([]string, []int) {
	return paintTextFrom(text, 0, marks, spanStyle, markStyle)
}

// paintTextFrom is paintText for the text from byte offset from on, which
// must start a line. Returned starts are offsets into the whole text.
func paintTextFrom(text transcript.Text, from int, marks []mark, spanStyle func(transcript.Span) lipgloss.Style, markStyle func(markKind) lipgloss.Style) ([]string, []int) {
	var lines []string
	starts := []int{from}
	var cur strings.Builder
	off, mi := 0, 0

	for _, sp := range text.Spans() {
		rest := sp.Text
		if off+len(rest) <= from {
			off += len(rest)
			continue
		}
		if off < from {
			rest = rest[from-off:]
			off = from
		}
		base := spanStyle(sp)
		for len(rest) > 0 {
			if rest[0] == '\n' {
				lines = append(lines, cur.String())
				cur.Reset()
				rest = rest[1:]
				off++
				starts = append(starts, off)
				continue
			}
			n := len(rest)
			if i := strings.IndexByte(rest, '\n'); i >= 0 {
				n = i
			}
			for mi < len(marks) && marks[mi].end() <= off {
				mi++
			}
			style := base
			if mi < len(marks) {
				if k := marks[mi]; k.offset > off {
					n = min(n, k.offset-off)
				} else {
					style = markStyle(k.kind)
					n = min(n, k.end()-off)
				}
			}
			cur.WriteString(style.Render(rest[:n]))
			rest = rest[n:]
			off += n
		}
	}
	lines = append(lines, cur.String())
	return lines, starts
}

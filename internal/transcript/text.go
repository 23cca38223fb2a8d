package transcript

import (
	"strings"

	"github.com/five82/pulsar/internal/entity"
)

// Style classifies a span for the presentation layer. Colors are the
// front-end's concern.
type Style int

const (
	StylePlain Style = iota
	StyleDigits
	StyleTitle
	StyleMessage
	StyleLink
	StylePending
	StyleSuccess
	StyleFailure
	StyleJSONPunctuation
	StyleJSONKey
	StyleJSONString
	StyleJSONOther
	StyleJSONNull
)

// Span is a run of text sharing one style. Level is set for message spans so
// the front-end can color them by severity; Link is set for activatable spans.
type Span struct {
	Text  string
	Style Style
	Level entity.Level
	Link  Link
}

func (s Span) sameAttributes(o Span) bool {
	return s.Style == o.Style && s.Level == o.Level && s.Link == o.Link
}

// Text is an append-only sequence of styled spans. Adjacent spans with equal
// attributes are merged, so two texts with the same content compare equal no
// matter how they were assembled.
type Text struct {
	spans []Span
	n     int
}

// Append adds a span. Empty spans are ignored.
func (t *Text) Append(s Span) {
	if s.Text == "" {
		return
	}
	t.n += len(s.Text)
	if last := len(t.spans) - 1; last >= 0 && t.spans[last].sameAttributes(s) {
		t.spans[last].Text += s.Text
		return
	}
	t.spans = append(t.spans, s)
}

// Write appends text with a style and no level or link.
func (t *Text) Write(text string, style Style) {
	t.Append(Span{Text: text, Style: style})
}

// AppendText appends every span of o.
func (t *Text) AppendText(o Text) {
	for _, s := range o.spans {
		t.Append(s)
	}
}

// Len returns the length in bytes.
func (t Text) Len() int {
	return t.n
}

// Spans returns a copy of the spans.
func (t Text) Spans() []Span {
	if len(t.spans) == 0 {
		return nil
	}
	dup := make([]Span, len(t.spans))
	copy(dup, t.spans)
	return dup
}

// clone returns a copy that does not share spans with t, so that appending
// to either leaves the other intact.
func (t Text) clone() Text {
	return Text{spans: t.Spans(), n: t.n}
}

// String returns the unstyled text.
func (t Text) String() string {
	var b strings.Builder
	b.Grow(t.n)
	for _, s := range t.spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Equal reports whether both texts hold the same spans.
func (t Text) Equal(o Text) bool {
	if t.n != o.n || len(t.spans) != len(o.spans) {
		return false
	}
	for i := range t.spans {
		if t.spans[i] != o.spans[i] {
			return false
		}
	}
	return true
}

// Links returns the distinct links in order of appearance.
func (t Text) Links() []Link {
	var out []Link
	seen := make(map[Link]struct{})
	for _, s := range t.spans {
		if s.Link.Kind == LinkNone {
			continue
		}
		if _, ok := seen[s.Link]; ok {
			continue
		}
		seen[s.Link] = struct{}{}
		out = append(out, s.Link)
	}
	return out
}

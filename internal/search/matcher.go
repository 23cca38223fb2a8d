package search

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// matcher finds every occurrence of one query under one set of options.
type matcher struct {
	query     string
	opts      Options
	literal   string         // case-sensitive literal search
	re        *regexp.Regexp // regex or case-insensitive literal
	slide     bool           // re is a quoted literal and may be re-run from any offset
	wholeWord bool
}

func compile(query string, opts Options) (*matcher, error) {
	m := &matcher{query: query, opts: opts, wholeWord: opts.WholeWord}
	switch {
	case opts.Regex:
		re, err := compileRegex(query, !opts.CaseSensitive)
		if err != nil {
			return nil, &PatternError{Pattern: query, Err: err}
		}
		m.re = re
	case opts.CaseSensitive:
		m.literal = query
	default:
		m.re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
		m.slide = true
	}
	return m, nil
}

// compileRegex compiles a regex pattern with optional case insensitivity.
func compileRegex(pattern string, caseInsensitive bool) (*regexp.Regexp, error) {
	if caseInsensitive {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}

// find returns [start, end) byte offsets of non-overlapping matches in text,
// in ascending order. Zero-length matches are dropped.
func (m *matcher) find(text string) [][2]int {
	if m == nil || text == "" {
		return nil
	}
	switch {
	case m.re != nil && !m.slide:
		return m.findRegex(text)
	case m.re != nil:
		return m.slideWith(text, func(s string) (int, int) {
			loc := m.re.FindStringIndex(s)
			if loc == nil {
				return -1, 0
			}
			return loc[0], loc[1] - loc[0]
		})
	default:
		return m.slideWith(text, func(s string) (int, int) {
			return strings.Index(s, m.literal), len(m.literal)
		})
	}
}

// slideWith repeatedly locates the next occurrence after off. A candidate that
// fails the whole-word test restarts one rune later so that an overlapping
// occurrence can still qualify.
func (m *matcher) slideWith(text string, next func(string) (int, int)) [][2]int {
	var out [][2]int
	off := 0
	for off < len(text) {
		idx, length := next(text[off:])
		if idx < 0 {
			break
		}
		pos := off + idx
		if length == 0 {
			_, w := utf8.DecodeRuneInString(text[pos:])
			off = pos + max(w, 1)
			continue
		}
		if m.wholeWord && !isWholeWord(text, pos, length) {
			_, w := utf8.DecodeRuneInString(text[pos:])
			off = pos + max(w, 1)
			continue
		}
		out = append(out, [2]int{pos, pos + length})
		off = pos + length
	}
	return out
}

func (m *matcher) findRegex(text string) [][2]int {
	locs := m.re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	out := make([][2]int, 0, len(locs))
	for _, loc := range locs {
		if loc[1] == loc[0] {
			continue
		}
		if m.wholeWord && !isWholeWord(text, loc[0], loc[1]-loc[0]) {
			continue
		}
		out = append(out, [2]int{loc[0], loc[1]})
	}
	return out
}

// isWholeWord checks if the match at pos is a whole word.
func isWholeWord(text string, pos, length int) bool {
	if pos > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:pos])
		if isWordChar(r) {
			return false
		}
	}
	if pos+length < len(text) {
		r, _ := utf8.DecodeRuneInString(text[pos+length:])
		if isWordChar(r) {
			return false
		}
	}
	return true
}

// isWordChar returns true if r is a word character (letter, digit, or underscore).
func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

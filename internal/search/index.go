package search

import (
	"context"
	"sort"

	"github.com/five82/pulsar/internal/entity"
	"github.com/five82/pulsar/internal/snapshot"
)

// Options configures how a query is matched.
type Options struct {
	CaseSensitive bool
	Regex         bool
	WholeWord     bool
}

// Match is one occurrence of the query: the entity index in the current
// snapshot and a byte span within that entity's text.
type Match struct {
	Index  int
	Start  int
	Length int
}

// End returns the exclusive end offset of the span.
func (m Match) End() int {
	return m.Start + m.Length
}

// TextFunc extracts the searchable text of an entity.
type TextFunc func(entity.Entity) string

// EntityText searches the entity message.
func EntityText(e entity.Entity) string {
	return e.Text
}

// cancelCheckEvery bounds how many entities are scanned between context checks.
const cancelCheckEvery = 256

// Index keeps the matches of one query over the current snapshot. It is not
// safe for concurrent use; the console serializes every call.
type Index struct {
	text     TextFunc
	opts     Options
	m        *matcher
	snap     *snapshot.Snapshot
	matches  []Match
	selected int
	// stale is set when the options changed after the matches were built.
	stale bool
}

// New builds an empty index. A nil text function searches entity messages.
func New(text TextFunc) *Index {
	if text == nil {
		text = EntityText
	}
	return &Index{text: text, selected: -1, snap: snapshot.Empty()}
}

// Options returns the options the next Refresh will use.
func (x *Index) Options() Options {
	return x.opts
}

// SetOptions replaces the match options. The current query is recompiled
// under them and the next ApplyChangeBatch rescans every entity instead of
// extending matches built under the old options. A query that no longer
// compiles matches nothing.
func (x *Index) SetOptions(opts Options) {
	if opts == x.opts {
		return
	}
	x.opts = opts
	if x.m == nil {
		return
	}
	m, err := compile(x.m.query, opts)
	if err != nil {
		x.m = nil
		x.matches = nil
		x.selected = -1
		x.stale = false
		return
	}
	x.m = m
	x.stale = true
}

// Query returns the query behind the current matches.
func (x *Index) Query() string {
	if x.m == nil {
		return ""
	}
	return x.m.query
}

// Refresh rebuilds the matches for query over snap. An empty query clears the
// index without scanning. If ctx is cancelled before the scan completes the
// index is left untouched and ctx.Err() is returned, so a superseded refresh
// never publishes stale results. A malformed regex returns a *PatternError
// and also leaves the index untouched.
func (x *Index) Refresh(ctx context.Context, query string, snap *snapshot.Snapshot) error {
	if snap == nil {
		snap = snapshot.Empty()
	}
	if query == "" {
		x.m = nil
		x.snap = snap
		x.matches = nil
		x.selected = -1
		x.stale = false
		return nil
	}
	m, err := compile(query, x.opts)
	if err != nil {
		return err
	}
	matches, err := scan(ctx, m, x.text, snap, 0, snap.Len())
	if err != nil {
		return err
	}
	x.m = m
	x.snap = snap
	x.matches = matches
	x.selected = -1
	x.stale = false
	if len(matches) > 0 {
		x.selected = 0
	}
	return nil
}

// ApplyChangeBatch brings the matches in line with snap. An append scans only
// the appended entities; a reload rescans everything and keeps the selected
// match when it still exists.
func (x *Index) ApplyChangeBatch(batch snapshot.ChangeBatch, snap *snapshot.Snapshot) {
	if snap == nil {
		snap = snapshot.Empty()
	}
	if x.m == nil {
		x.snap = snap
		return
	}
	if !x.stale && batch.IsAppend() && batch.Range.Hi <= snap.Len() && batch.Range.Lo == x.snap.Len() {
		found, _ := scan(context.Background(), x.m, x.text, snap, batch.Range.Lo, batch.Range.Hi)
		x.snap = snap
		x.matches = append(x.matches, found...)
		if x.selected < 0 && len(x.matches) > 0 {
			x.selected = 0
		}
		return
	}

	prevID, prevStart, hadSelection := x.selectedKey()
	matches, _ := scan(context.Background(), x.m, x.text, snap, 0, snap.Len())
	x.snap = snap
	x.matches = matches
	x.selected = -1
	x.stale = false
	if len(matches) == 0 {
		return
	}
	x.selected = 0
	if !hadSelection {
		return
	}
	for i, match := range matches {
		if match.Start == prevStart && snap.At(match.Index).ID == prevID {
			x.selected = i
			break
		}
	}
}

func (x *Index) selectedKey() (id int64, start int, ok bool) {
	if x.selected < 0 || x.selected >= len(x.matches) {
		return 0, 0, false
	}
	match := x.matches[x.selected]
	if match.Index >= x.snap.Len() {
		return 0, 0, false
	}
	return x.snap.At(match.Index).ID, match.Start, true
}

func scan(ctx context.Context, m *matcher, text TextFunc, snap *snapshot.Snapshot, lo, hi int) ([]Match, error) {
	var out []Match
	for i := lo; i < hi; i++ {
		if (i-lo)%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for _, span := range m.find(text(snap.At(i))) {
			out = append(out, Match{Index: i, Start: span[0], Length: span[1] - span[0]})
		}
	}
	return out, nil
}

// Matches returns a copy of the ordered match list.
func (x *Index) Matches() []Match {
	if len(x.matches) == 0 {
		return nil
	}
	dup := make([]Match, len(x.matches))
	copy(dup, x.matches)
	return dup
}

// Len returns the number of matches.
func (x *Index) Len() int {
	return len(x.matches)
}

// Selected returns the selected position in the match list, or -1.
func (x *Index) Selected() int {
	return x.selected
}

// SelectedMatch returns the selected match, if any.
func (x *Index) SelectedMatch() (Match, bool) {
	if x.selected < 0 || x.selected >= len(x.matches) {
		return Match{}, false
	}
	return x.matches[x.selected], true
}

// SelectMatch moves the selection by delta, wrapping around both ends, and
// returns the entity index of the new selection. With no matches it does
// nothing and reports false.
func (x *Index) SelectMatch(delta int) (int, bool) {
	n := len(x.matches)
	if n == 0 {
		return -1, false
	}
	cur := max(x.selected, 0)
	x.selected = ((cur+delta)%n + n) % n
	return x.matches[x.selected].Index, true
}

// SelectEntity selects the first match inside the entity at index, if any.
func (x *Index) SelectEntity(index int) bool {
	i := sort.Search(len(x.matches), func(i int) bool { return x.matches[i].Index >= index })
	if i < len(x.matches) && x.matches[i].Index == index {
		x.selected = i
		return true
	}
	return false
}

// MatchesIn returns the matches inside the entity at index.
func (x *Index) MatchesIn(index int) []Match {
	lo := sort.Search(len(x.matches), func(i int) bool { return x.matches[i].Index >= index })
	hi := lo
	for hi < len(x.matches) && x.matches[hi].Index == index {
		hi++
	}
	if lo == hi {
		return nil
	}
	dup := make([]Match, hi-lo)
	copy(dup, x.matches[lo:hi])
	return dup
}

// Find locates the current query in arbitrary text, for highlighting
// rendered output.
func (x *Index) Find(text string) [][2]int {
	if x.m == nil {
		return nil
	}
	return x.m.find(text)
}

package transcript

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/five82/pulsar/internal/entity"
	"github.com/five82/pulsar/internal/snapshot"
)

// linkNamespace seeds the per-entity link identifiers.
var linkNamespace = uuid.MustParse("6f1c3a52-7d0e-4c1b-9a8e-2b5d4f6e8a10")

type fragment struct {
	id       uuid.UUID
	text     Text
	dirty    bool
	base     time.Time
	revision int
	// Where the message text starts in text and how much of it is shown.
	textAt  int
	textLen int
}

// Update describes how the buffer changed after Apply.
type Update struct {
	// Appended is true when Fragment was appended to the previous buffer.
	// Otherwise Fragment is the whole new buffer.
	Appended bool
	Fragment Text
	Range    snapshot.Range
}

// Renderer turns snapshots into styled text and keeps a rendered buffer in
// sync with change batches. It is not safe for concurrent use.
type Renderer struct {
	opts    Options
	cache   map[int64]*fragment
	ids     map[uuid.UUID]int64
	buf     Text
	offsets []int
	snap    *snapshot.Snapshot
	logger  *slog.Logger
}

// NewRenderer returns a renderer with an empty buffer. A nil logger discards
// render timing.
func NewRenderer(opts Options, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Renderer{
		opts:   opts,
		cache:  make(map[int64]*fragment),
		ids:    make(map[uuid.UUID]int64),
		snap:   snapshot.Empty(),
		logger: logger,
	}
}

// Options returns the current options.
func (r *Renderer) Options() Options {
	return r.opts
}

// SetOptions replaces the options and marks every cached fragment dirty. It
// reports whether anything changed. The buffer is not rebuilt; call Rerender.
func (r *Renderer) SetOptions(opts Options) bool {
	if opts == r.opts {
		return false
	}
	r.opts = opts
	for _, f := range r.cache {
		f.dirty = true
	}
	return true
}

// Render returns the full transcript for snap.
func (r *Renderer) Render(snap *snapshot.Snapshot) Text {
	var out Text
	r.render(&out, nil, snap)
	return out
}

// AppendOnly renders the suffix for entities in rng, which must be the
// entities appended to a snapshot of rng.Lo entities. It reports false when
// the entity limit makes a suffix impossible and a full Render is required.
func (r *Renderer) AppendOnly(rng snapshot.Range, snap *snapshot.Snapshot) (Text, bool) {
	var out Text
	ok := r.appendRange(&out, nil, rng, snap)
	return out, ok
}

func (r *Renderer) render(out *Text, offsets *[]int, snap *snapshot.Snapshot) {
	n := snap.Len()
	end := n
	if r.opts.truncates(n) {
		end = r.opts.Limit
	}
	r.appendRange(out, offsets, snapshot.Range{Lo: 0, Hi: end}, snap)
	if end < n {
		out.Write("\n\n", StylePlain)
		out.Append(Span{
			Text:  fmt.Sprintf("%d more entities were not displayed. ", n-end),
			Style: StyleMessage,
			Level: entity.LevelTrace,
		})
		out.Append(Span{Text: "Show all.", Style: StyleLink, Link: Link{Kind: LinkShowAll}})
	}
}

func (r *Renderer) appendRange(out *Text, offsets *[]int, rng snapshot.Range, snap *snapshot.Snapshot) bool {
	if rng.Empty() {
		return true
	}
	if rng.Lo < 0 || rng.Hi > snap.Len() || r.opts.truncates(rng.Hi) {
		return false
	}
	first, _ := snap.First()
	sep := r.opts.separator()
	for i := rng.Lo; i < rng.Hi; i++ {
		if i > 0 {
			out.Write(sep, StylePlain)
		}
		if offsets != nil {
			*offsets = append(*offsets, out.Len())
		}
		out.AppendText(r.entityText(snap.At(i), first.CreatedAt))
	}
	return true
}

func (r *Renderer) entityText(e entity.Entity, base time.Time) Text {
	f := r.cache[e.ID]
	if f == nil {
		f = &fragment{id: linkID(e.ID), dirty: true}
		r.cache[e.ID] = f
		r.ids[f.id] = e.ID
	}
	if f.dirty || f.revision != e.Revision || !f.base.Equal(base) {
		var t Text
		f.textAt, f.textLen = formatEntity(&t, e, f.id, base, r.opts)
		f.text = t
		f.dirty = false
		f.base = base
		f.revision = e.Revision
	}
	return f.text
}

func linkID(entityID int64) uuid.UUID {
	return uuid.NewSHA1(linkNamespace, []byte(strconv.FormatInt(entityID, 10)))
}

// Apply brings the buffer in line with snap. Appends extend the buffer when
// possible; everything else rebuilds it.
func (r *Renderer) Apply(batch snapshot.ChangeBatch, snap *snapshot.Snapshot) Update {
	if batch.IsAppend() && batch.Range.Lo == r.snap.Len() {
		var frag Text
		var local []int
		if r.appendRange(&frag, &local, batch.Range, snap) {
			base := r.buf.Len()
			for _, off := range local {
				r.offsets = append(r.offsets, base+off)
			}
			r.buf.AppendText(frag)
			r.snap = snap
			return Update{Appended: true, Fragment: frag, Range: batch.Range}
		}
	}
	return r.reload(snap)
}

// Rerender rebuilds the buffer from the current snapshot, e.g. after
// SetOptions.
func (r *Renderer) Rerender() Update {
	return r.reload(r.snap)
}

func (r *Renderer) reload(snap *snapshot.Snapshot) Update {
	start := time.Now()
	r.logger.Debug("render started", "entities", snap.Len())

	r.prune(snap)
	var buf Text
	offsets := make([]int, 0, snap.Len())
	r.render(&buf, &offsets, snap)
	r.buf = buf
	r.offsets = offsets
	r.snap = snap

	r.logger.Debug("render finished", "entities", snap.Len(), "bytes", buf.Len(), "elapsed", time.Since(start))
	return Update{Fragment: buf.clone(), Range: snapshot.Range{Lo: 0, Hi: snap.Len()}}
}

func (r *Renderer) prune(snap *snapshot.Snapshot) {
	live := make(map[int64]struct{}, snap.Len())
	for i := 0; i < snap.Len(); i++ {
		live[snap.At(i).ID] = struct{}{}
	}
	for id, f := range r.cache {
		if _, ok := live[id]; !ok {
			delete(r.ids, f.id)
			delete(r.cache, id)
		}
	}
}

// Buffer returns the rendered transcript.
func (r *Renderer) Buffer() Text {
	return r.buf.clone()
}

// Snapshot returns the snapshot the buffer was rendered from.
func (r *Renderer) Snapshot() *snapshot.Snapshot {
	return r.snap
}

// Offset returns the byte offset of the entity at index in the buffer. It
// reports false for entities hidden by the limit.
func (r *Renderer) Offset(index int) (int, bool) {
	if index < 0 || index >= len(r.offsets) {
		return 0, false
	}
	return r.offsets[index], true
}

// Locate maps the byte span [start, start+length) of the message of the
// entity at index to a buffer offset. It reports false when the entity is
// hidden by the limit, is a task, or the span is cut off in compact mode.
func (r *Renderer) Locate(index, start, length int) (int, bool) {
	off, ok := r.Offset(index)
	if !ok {
		return 0, false
	}
	f := r.cache[r.snap.At(index).ID]
	if f == nil || f.textAt < 0 || start < 0 || start+length > f.textLen {
		return 0, false
	}
	return off + f.textAt + start, true
}

// Resolve returns the current index in snap of the entity a link was
// rendered for.
func (r *Renderer) Resolve(link Link, snap *snapshot.Snapshot) (int, bool) {
	if link.Kind != LinkShowMore && link.Kind != LinkToggleInfo {
		return -1, false
	}
	id, ok := r.ids[link.ID]
	if !ok {
		return -1, false
	}
	i := snap.IndexOf(id)
	return i, i >= 0
}

// EntityText returns the cached rendering of a single entity as it appears
// in the buffer.
func (r *Renderer) EntityText(index int) (Text, bool) {
	if index < 0 || index >= r.snap.Len() {
		return Text{}, false
	}
	first, _ := r.snap.First()
	return r.entityText(r.snap.At(index), first.CreatedAt).clone(), true
}

package transcript

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/five82/pulsar/internal/entity"
	"github.com/five82/pulsar/internal/snapshot"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func message(id int64, offset time.Duration, level entity.Level, text string) entity.Entity {
	return entity.Entity{ID: id, CreatedAt: t0.Add(offset), Level: level, Label: "app", Text: text}
}

func task(id int64, offset time.Duration, body []byte) entity.Entity {
	return entity.Entity{
		ID:        id,
		CreatedAt: t0.Add(offset),
		Level:     entity.LevelDebug,
		Label:     "network",
		Task: &entity.Task{
			Method:       "POST",
			URL:          "https://x.io/a",
			State:        entity.TaskSuccess,
			StatusCode:   200,
			Duration:     1250 * time.Millisecond,
			ResponseBody: body,
		},
	}
}

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func sample(t *testing.T) []entity.Entity {
	return []entity.Entity{
		message(1, 0, entity.LevelInfo, "started"),
		message(2, time.Second, entity.LevelWarning, "first line\nsecond line"),
		task(3, 2*time.Second, []byte(`{"ok":true,"items":[1,2]}`)),
		message(4, 90*time.Minute, entity.LevelError, "boom"),
		task(5, 25*time.Hour, gzipped(t, []byte(`[{"id":1}]`))),
		message(6, 26*time.Hour, entity.LevelTrace, "tail\nmore"),
	}
}

func allOptions() []Options {
	var out []Options
	for _, compact := range []bool{false, true} {
		for _, expanded := range []bool{false, true} {
			for _, limit := range []int{0, 3, DefaultLimit} {
				out = append(out, Options{Compact: compact, NetworkExpanded: expanded, FontSize: DefaultFontSize, Limit: limit})
			}
		}
	}
	return out
}

func TestRenderer_AppendEquivalence(t *testing.T) {
	entities := sample(t)
	for _, opts := range allOptions() {
		for k := 0; k <= len(entities); k++ {
			full := NewRenderer(opts, nil).Render(snapshot.New(entities[:k]))
			for lo := 0; lo <= k; lo++ {
				r := NewRenderer(opts, nil)
				got := r.Render(snapshot.New(entities[:lo]))
				frag, ok := r.AppendOnly(snapshot.Range{Lo: lo, Hi: k}, snapshot.New(entities[:k]))
				if !ok {
					if !opts.truncates(k) {
						t.Fatalf("%+v k=%d lo=%d: AppendOnly refused without truncation", opts, k, lo)
					}
					continue
				}
				got.AppendText(frag)
				if !got.Equal(full) {
					t.Fatalf("%+v k=%d lo=%d:\n got %q\nwant %q", opts, k, lo, got.String(), full.String())
				}
			}
		}
	}
}

func TestRenderer_ApplyTracksBuffer(t *testing.T) {
	entities := sample(t)
	opts := Options{Limit: 4}
	r := NewRenderer(opts, nil)
	appended := 0
	for k := 1; k <= len(entities); k++ {
		s := snapshot.New(entities[:k])
		u := r.Apply(snapshot.Append(snapshot.Range{Lo: k - 1, Hi: k}), s)
		if u.Appended {
			appended++
		}
		if want := NewRenderer(opts, nil).Render(s); !r.Buffer().Equal(want) {
			t.Fatalf("k=%d: buffer %q, want %q", k, r.Buffer().String(), want.String())
		}
	}
	if appended != 4 {
		t.Fatalf("appended updates = %d, want 4", appended)
	}

	buf := r.Buffer().String()
	for i := 0; i < 4; i++ {
		off, ok := r.Offset(i)
		if !ok {
			t.Fatalf("Offset(%d) missing", i)
		}
		if !strings.HasPrefix(buf[off:], entity.FormatTimeOfDay(entities[i].CreatedAt)) {
			t.Fatalf("Offset(%d) = %d points at %q", i, off, buf[off:min(off+20, len(buf))])
		}
	}
	if _, ok := r.Offset(4); ok {
		t.Fatalf("Offset(4) should be hidden by the limit")
	}
}

func TestRenderer_LimitNotice(t *testing.T) {
	entities := sample(t)
	r := NewRenderer(Options{Compact: true, Limit: 3}, nil)
	text := r.Render(snapshot.New(entities[:5]))
	if !strings.HasSuffix(text.String(), "\n\n2 more entities were not displayed. Show all.") {
		t.Fatalf("missing limit notice: %q", text.String())
	}
	links := text.Links()
	if last := links[len(links)-1]; last.Kind != LinkShowAll {
		t.Fatalf("last link = %+v, want show all", last)
	}
	if _, ok := r.AppendOnly(snapshot.Range{Lo: 3, Hi: 4}, snapshot.New(entities[:4])); ok {
		t.Fatalf("AppendOnly should refuse once the limit is exceeded")
	}
}

func TestRenderer_CompactScenario(t *testing.T) {
	s := snapshot.New([]entity.Entity{message(1, 0, entity.LevelInfo, "line1\nline2")})

	full := NewRenderer(Options{}, nil).Render(s)
	if want := "10:00:00.000 · 00:00.000 · info · app\nline1\nline2"; full.String() != want {
		t.Fatalf("non-compact = %q, want %q", full.String(), want)
	}

	compact := NewRenderer(Options{Compact: true}, nil).Render(s)
	if want := "10:00:00.000 · app line1 Show More"; compact.String() != want {
		t.Fatalf("compact = %q, want %q", compact.String(), want)
	}
	if compact.Len() >= full.Len() {
		t.Fatalf("compact length %d not shorter than %d", compact.Len(), full.Len())
	}
	links := compact.Links()
	if len(links) != 1 || links[0].Kind != LinkShowMore {
		t.Fatalf("links = %+v, want one show-more", links)
	}
}

func TestRenderer_TaskFormatting(t *testing.T) {
	s := snapshot.New([]entity.Entity{task(1, 0, []byte(`{"ok":true}`))})

	collapsed := NewRenderer(Options{}, nil).Render(s)
	if want := "10:00:00.000 · 00:00.000 · 200 OK · 1.25s \nPOST https://x.io/a "; collapsed.String() != want {
		t.Fatalf("collapsed = %q, want %q", collapsed.String(), want)
	}

	expanded := NewRenderer(Options{NetworkExpanded: true}, nil).Render(s)
	if want := collapsed.String() + "\n{\n  \"ok\": true\n}"; expanded.String() != want {
		t.Fatalf("expanded = %q, want %q", expanded.String(), want)
	}

	pending := entity.Entity{ID: 2, CreatedAt: t0, Task: &entity.Task{}}
	got := NewRenderer(Options{Compact: true}, nil).Render(snapshot.New([]entity.Entity{pending}))
	if want := "10:00:00.000 · PENDING  GET – "; got.String() != want {
		t.Fatalf("pending = %q, want %q", got.String(), want)
	}
}

func TestRenderer_ElapsedOmittedAfterADay(t *testing.T) {
	s := snapshot.New([]entity.Entity{
		message(1, 0, entity.LevelInfo, "a"),
		message(2, 25*time.Hour, entity.LevelInfo, "b"),
	})
	got := NewRenderer(Options{}, nil).Render(s).String()
	if want := "11:00:00.000 · info · app\nb"; !strings.HasSuffix(got, want) {
		t.Fatalf("render = %q, want suffix %q", got, want)
	}
}

func TestRenderer_InvalidationMatchesColdRender(t *testing.T) {
	entities := sample(t)
	s := snapshot.New(entities)
	r := NewRenderer(Options{}, nil)
	r.Apply(snapshot.Reload(), s)

	for _, opts := range allOptions() {
		r.SetOptions(opts)
		r.Rerender()
		if want := NewRenderer(opts, nil).Render(s); !r.Buffer().Equal(want) {
			t.Fatalf("%+v: warm buffer differs from cold render", opts)
		}
	}
	if r.SetOptions(r.Options()) {
		t.Fatalf("SetOptions with identical options reported a change")
	}

	edited := append([]entity.Entity(nil), entities...)
	edited[0].Text = "restarted"
	edited[0].Revision++
	s2 := snapshot.New(edited[:3])
	r.Apply(snapshot.Reload(), s2)
	if want := NewRenderer(r.Options(), nil).Render(s2); !r.Buffer().Equal(want) {
		t.Fatalf("revision change not re-rendered: %q", r.Buffer().String())
	}

	// Dropping the first entity moves the elapsed base.
	s3 := snapshot.New(edited[1:3])
	r.Apply(snapshot.Reload(), s3)
	if want := NewRenderer(r.Options(), nil).Render(s3); !r.Buffer().Equal(want) {
		t.Fatalf("elapsed base change not re-rendered: %q", r.Buffer().String())
	}
	if len(r.cache) != 2 || len(r.ids) != 2 {
		t.Fatalf("cache holds %d/%d entries after reload, want 2", len(r.cache), len(r.ids))
	}
}

func TestRenderer_ResolveAcrossReorder(t *testing.T) {
	entities := []entity.Entity{
		message(1, 0, entity.LevelInfo, "a\nb"),
		message(2, time.Second, entity.LevelInfo, "c\nd"),
	}
	r := NewRenderer(Options{Compact: true}, nil)
	s := snapshot.New(entities)
	r.Apply(snapshot.Reload(), s)

	links := r.Buffer().Links()
	if len(links) != 2 {
		t.Fatalf("links = %+v, want 2", links)
	}
	second, err := ParseLink(links[1].URL())
	if err != nil {
		t.Fatalf("ParseLink: %v", err)
	}
	if i, ok := r.Resolve(second, s); !ok || i != 1 {
		t.Fatalf("Resolve = %d,%v, want 1,true", i, ok)
	}

	reversed := snapshot.New([]entity.Entity{entities[1], entities[0]})
	r.Apply(snapshot.Reload(), reversed)
	if i, ok := r.Resolve(second, reversed); !ok || i != 0 {
		t.Fatalf("Resolve after reorder = %d,%v, want 0,true", i, ok)
	}

	r.Apply(snapshot.Reload(), snapshot.New(entities[:1]))
	if _, ok := r.Resolve(second, snapshot.New(entities[:1])); ok {
		t.Fatalf("Resolve should fail for an evicted entity")
	}
}

func TestParseLink(t *testing.T) {
	cases := []struct {
		raw  string
		kind LinkKind
		ok   bool
	}{
		{"story://toggle-message-limit", LinkShowAll, true},
		{"story://show-more/6f1c3a52-7d0e-4c1b-9a8e-2b5d4f6e8a10", LinkShowMore, true},
		{"story://toggle-info/6f1c3a52-7d0e-4c1b-9a8e-2b5d4f6e8a10", LinkToggleInfo, true},
		{"story://toggle-info/nope", LinkNone, false},
		{"https://example.com", LinkNone, false},
		{"story://other", LinkNone, false},
	}
	for _, tc := range cases {
		link, err := ParseLink(tc.raw)
		if (err == nil) != tc.ok {
			t.Fatalf("ParseLink(%q) err = %v, want ok=%v", tc.raw, err, tc.ok)
		}
		if link.Kind != tc.kind {
			t.Fatalf("ParseLink(%q) kind = %v, want %v", tc.raw, link.Kind, tc.kind)
		}
		if tc.ok && link.URL() != tc.raw {
			t.Fatalf("URL() = %q, want %q", link.URL(), tc.raw)
		}
	}
}

func TestAppendJSON(t *testing.T) {
	var text Text
	if !appendJSON(&text, []byte(`{"b":[1,2],"a":{"d":"x","c":null},"e":[{"f":true}]}`)) {
		t.Fatalf("appendJSON refused an object")
	}
	want := `{
  "a": {
    "c": null,
    "d": "x"
  },
  "b": [1, 2],
  "e": [
    {
      "f": true
    }
  ]
}`
	if text.String() != want {
		t.Fatalf("pretty JSON =\n%s\nwant\n%s", text.String(), want)
	}

	styles := make(map[Style]bool)
	for _, s := range text.Spans() {
		styles[s.Style] = true
	}
	for _, st := range []Style{StyleJSONPunctuation, StyleJSONKey, StyleJSONString, StyleJSONOther, StyleJSONNull} {
		if !styles[st] {
			t.Fatalf("style %v not used", st)
		}
	}

	for _, raw := range []string{`123`, `"s"`, `not json`, ``} {
		var out Text
		if appendJSON(&out, []byte(raw)) || out.Len() != 0 {
			t.Fatalf("appendJSON(%q) should refuse without writing", raw)
		}
	}
}

func TestAppendBody(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	zstdBody := enc.EncodeAll([]byte(`{"z":1}`), nil)
	enc.Close()

	cases := []struct {
		name string
		body []byte
		want string
	}{
		{"plain text", []byte("hello"), "hello"},
		{"binary", []byte{0xff, 0xfe, 0x00}, "<binary data, 3 bytes>"},
		{"gzip json", gzipped(t, []byte(`[1,"a"]`)), `[1, "a"]`},
		{"zstd json", zstdBody, "{\n  \"z\": 1\n}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var text Text
			appendBody(&text, tc.body)
			if text.String() != tc.want {
				t.Fatalf("body = %q, want %q", text.String(), tc.want)
			}
		})
	}
}

func TestText_MergesAdjacentSpans(t *testing.T) {
	var a, b Text
	a.Write("ab", StyleTitle)
	a.Write("c", StyleTitle)
	a.Write("", StyleLink)
	b.Write("a", StyleTitle)
	b.Write("bc", StyleTitle)
	if !a.Equal(b) || len(a.Spans()) != 1 {
		t.Fatalf("texts not merged: %+v vs %+v", a.Spans(), b.Spans())
	}
	b.Write("!", StyleLink)
	if a.Equal(b) {
		t.Fatalf("texts with different spans compared equal")
	}
}

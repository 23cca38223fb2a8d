package transcript

import (
	"strings"
	"testing"
	"time"

	"github.com/five82/pulsar/internal/entity"
	"github.com/five82/pulsar/internal/snapshot"
)

func TestDetails_Message(t *testing.T) {
	e := message(7, 0, entity.LevelWarning, "disk almost full")
	e.Pinned = true

	got := Details(e).String()
	want := "warning · app · pinned\n" + t0.Format(time.RFC3339Nano) + "\n\ndisk almost full"
	if got != want {
		t.Fatalf("Details = %q, want %q", got, want)
	}
}

func TestDetails_TaskDecodesBody(t *testing.T) {
	e := task(8, 0, gzipped(t, []byte(`{"b":1,"a":"x"}`)))

	got := Details(e).String()
	for _, part := range []string{"POST https://x.io/a\n", "200 OK · ", "\"a\": \"x\"", "\"b\": 1"} {
		if !strings.Contains(got, part) {
			t.Fatalf("Details = %q, missing %q", got, part)
		}
	}
	if strings.Index(got, `"a"`) > strings.Index(got, `"b"`) {
		t.Fatalf("keys not sorted: %q", got)
	}
}

func TestRenderer_UpdatesDoNotShareBuffer(t *testing.T) {
	entities := sample(t)
	r := NewRenderer(Options{}, nil)

	first := r.Apply(snapshot.Reload(), snapshot.New(entities[:2]))
	before := first.Fragment.String()
	r.Apply(snapshot.Append(snapshot.Range{Lo: 2, Hi: 4}), snapshot.New(entities[:4]))

	if got := first.Fragment.String(); got != before {
		t.Fatalf("earlier fragment changed after append: %q, want %q", got, before)
	}
	if first.Fragment.Len() != len(before) {
		t.Fatalf("Len = %d, want %d", first.Fragment.Len(), len(before))
	}
}

func TestRenderer_Locate(t *testing.T) {
	entities := []entity.Entity{
		message(1, 0, entity.LevelInfo, "alpha beta"),
		message(2, time.Second, entity.LevelInfo, "gamma\ndelta"),
		task(3, 2*time.Second, nil),
	}
	s := snapshot.New(entities)

	r := NewRenderer(Options{}, nil)
	r.Apply(snapshot.Reload(), s)
	buf := r.Buffer().String()
	off, ok := r.Locate(1, 6, 5)
	if !ok || buf[off:off+5] != "delta" {
		t.Fatalf("Locate(1, 6, 5) = %d, %v", off, ok)
	}
	if _, ok := r.Locate(2, 0, 1); ok {
		t.Fatalf("tasks have no message span")
	}

	r.SetOptions(Options{Compact: true})
	r.Rerender()
	buf = r.Buffer().String()
	if off, ok := r.Locate(0, 6, 4); !ok || buf[off:off+4] != "beta" {
		t.Fatalf("compact Locate(0, 6, 4) = %d, %v", off, ok)
	}
	if _, ok := r.Locate(1, 6, 5); ok {
		t.Fatalf("span past the first line is not displayed in compact mode")
	}
}

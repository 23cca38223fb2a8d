package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pulsar/internal/console"
	"github.com/five82/pulsar/internal/entity"
	"github.com/five82/pulsar/internal/prefs"
	"github.com/five82/pulsar/internal/store"
	"github.com/five82/pulsar/internal/transcript"
)

var t0 = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

type harness struct {
	t         *testing.T
	m         Model
	c         *console.Console
	mem       *store.Memory
	prefsPath string
}

func newHarness(t *testing.T, texts ...string) *harness {
	t.Helper()
	mem := store.NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	for i, text := range texts {
		e := entity.Entity{CreatedAt: t0.Add(time.Duration(i) * time.Second), Level: entity.LevelInfo, Label: "app", Text: text}
		if _, err := mem.Insert(ctx, e); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	p := prefs.Default()
	p.Compact = true
	c := console.New(mem, mem, console.Config{
		Render:   p.RenderOptions(),
		Follow:   p.Follow,
		Throttle: 10 * time.Millisecond,
	})
	errc := make(chan error, 1)
	go func() { errc <- c.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-errc; err != nil {
			t.Errorf("console Run: %v", err)
		}
		mem.Close()
	})

	h := &harness{t: t, c: c, mem: mem, prefsPath: filepath.Join(t.TempDir(), "prefs.toml")}
	h.m = New(Options{Context: ctx, Console: c, Prefs: p, PrefsPath: h.prefsPath})
	h.send(tea.WindowSizeMsg{Width: 120, Height: 20})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	h.t.Helper()
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

func (h *harness) press(keys ...string) {
	h.t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		h.send(msg)
	}
}

// pump feeds console events to the model until one of kind arrives.
func (h *harness) pump(kind console.EventKind) console.Event {
	h.t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-h.c.Events():
			if !ok {
				h.t.Fatalf("events closed while waiting for %v", kind)
			}
			h.send(consoleEventMsg(ev))
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			h.t.Fatalf("timed out waiting for %v", kind)
		}
	}
}

func TestModel_ReloadAndAppend(t *testing.T) {
	h := newHarness(t, "alpha", "beta")
	h.pump(console.EventReload)

	view := h.m.View()
	if !strings.Contains(view, "alpha") || !strings.Contains(view, "2 entities") {
		t.Fatalf("view after reload:\n%s", view)
	}

	if _, err := h.mem.Insert(context.Background(), entity.Entity{CreatedAt: t0.Add(time.Minute), Label: "app", Text: "gamma"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	h.pump(console.EventAppend)
	if h.m.doc.count != 3 || !strings.HasSuffix(h.m.doc.text.String(), "app gamma") {
		t.Fatalf("document after append = %d %q", h.m.doc.count, h.m.doc.text.String())
	}
	if !strings.Contains(h.m.View(), "gamma") {
		t.Fatalf("view missing appended entity")
	}
}

func TestModel_SearchAsYouType(t *testing.T) {
	h := newHarness(t, "alpha", "beta", "gamma")
	h.pump(console.EventReload)

	h.press("/", "beta")
	if h.m.prompt != promptSearch {
		t.Fatalf("prompt = %v, want search", h.m.prompt)
	}
	sel := h.pump(console.EventSelect)
	if sel.Index != 1 || h.m.current != 1 {
		t.Fatalf("selected index = %d, current = %d", sel.Index, h.m.current)
	}
	if h.m.query != "beta" || h.m.matchCount != 1 || len(h.m.doc.highlights) != 1 {
		t.Fatalf("search state = %q %d %+v", h.m.query, h.m.matchCount, h.m.doc.highlights)
	}

	h.press("enter")
	if h.m.prompt != promptNone {
		t.Fatalf("enter should close the prompt")
	}
	if footer := h.m.renderFooter(); !strings.Contains(footer, `1/1 matches for "beta"`) {
		t.Fatalf("footer = %q", footer)
	}

	h.press("p")
	h.pump(console.EventReload)
	pinned, err := h.mem.Fetch(context.Background(), store.Query{OnlyPinned: true})
	if err != nil || len(pinned) != 1 || pinned[0].Text != "beta" {
		t.Fatalf("pinned = %+v, %v", pinned, err)
	}
}

func TestModel_ShowMoreOpensDetails(t *testing.T) {
	h := newHarness(t, "single", "first line\nhidden line")
	h.pump(console.EventReload)
	if strings.Contains(h.m.View(), "hidden line") {
		t.Fatalf("compact transcript should hide the second line")
	}

	h.press("tab")
	if h.m.focusLink != 0 || h.m.doc.links[0].link.Kind != transcript.LinkShowMore {
		t.Fatalf("focus = %d, links = %+v", h.m.focusLink, h.m.doc.links)
	}
	h.press("enter")
	ev := h.pump(console.EventDetails)
	if ev.Index != 1 || h.m.details == nil {
		t.Fatalf("details event = %+v", ev)
	}
	if !strings.Contains(h.m.View(), "hidden line") {
		t.Fatalf("details view missing full text:\n%s", h.m.View())
	}

	h.press("esc")
	if h.m.details != nil {
		t.Fatalf("esc should close details")
	}
}

func TestModel_InvalidFilterKeepsPrompt(t *testing.T) {
	h := newHarness(t, "alpha")
	h.pump(console.EventReload)

	h.press("f", "level >")
	h.press("enter")
	if h.m.prompt != promptFilter || !h.m.isError {
		t.Fatalf("prompt = %v, isError = %v", h.m.prompt, h.m.isError)
	}
	if h.m.filter != "" {
		t.Fatalf("filter = %q, want unchanged", h.m.filter)
	}

	h.press("esc")
	if h.m.prompt != promptNone {
		t.Fatalf("esc should close the prompt")
	}
}

func TestModel_FilterReloads(t *testing.T) {
	h := newHarness(t, "alpha", "beta")
	h.pump(console.EventReload)

	h.press("f", `text == "beta"`)
	h.press("enter")
	h.pump(console.EventReload)
	if h.m.filter != `text == "beta"` || h.m.doc.count != 1 {
		t.Fatalf("filter = %q, count = %d", h.m.filter, h.m.doc.count)
	}
	if !strings.Contains(h.m.renderHeader(), "1 entity") {
		t.Fatalf("header = %q", h.m.renderHeader())
	}
}

func TestModel_ToggleCompactSavesPrefs(t *testing.T) {
	h := newHarness(t, "first line\nsecond line")
	h.pump(console.EventReload)

	h.press("c")
	h.pump(console.EventReload)
	if !strings.Contains(h.m.doc.text.String(), "second line") {
		t.Fatalf("expanded transcript = %q", h.m.doc.text.String())
	}

	h.press("T")
	saved, err := prefs.Load(h.prefsPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if saved.Compact || saved.Theme != "Slate" {
		t.Fatalf("saved prefs = %+v", saved)
	}
}

func TestModel_ConsoleClosedQuits(t *testing.T) {
	h := newHarness(t)
	cmd := h.send(consoleClosedMsg{})
	if cmd == nil {
		t.Fatalf("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("command did not quit")
	}
}

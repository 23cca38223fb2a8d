package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/five82/pulsar/internal/entity"
	"github.com/five82/pulsar/internal/search"
	"github.com/five82/pulsar/internal/snapshot"
	"github.com/five82/pulsar/internal/store"
	"github.com/five82/pulsar/internal/transcript"
)

// DefaultThrottle is how long search input settles before a refresh.
const DefaultThrottle = 330 * time.Millisecond

const (
	commandBuffer = 64
	eventBuffer   = 1024
)

// ErrReadOnly is returned through EventError when a mutation is requested
// from a console without a writer.
var ErrReadOnly = errors.New("store is read-only")

// Config holds the initial console state.
type Config struct {
	Query    store.Query
	Render   transcript.Options
	Search   search.Options
	Throttle time.Duration
	Follow   bool
	// OnlyErrors hides entities below warning.
	OnlyErrors bool
	Logger     *slog.Logger
}

type searchResult struct {
	gen   int
	index *search.Index
	snap  *snapshot.Snapshot
	err   error
}

// Console owns the entity list, the search index and the transcript. All of
// them are touched only by the Run goroutine; the exported command methods
// enqueue work for it and results are published on Events.
type Console struct {
	store  store.Store
	writer store.Writer
	logger *slog.Logger
	cfg    Config

	cmds   chan func(context.Context)
	events chan Event
	done   chan struct{}

	// Owned by Run.
	ctrl       *store.Controller
	list       *snapshot.List
	index      *search.Index
	renderer   *transcript.Renderer
	query      store.Query
	onlyErrors bool
	follow     bool

	pending       string
	searchOpts    search.Options
	throttle      *time.Timer
	throttleC     <-chan time.Time
	searchGen     int
	cancelSearch  context.CancelFunc
	searchResults chan searchResult
}

// New builds a console over s. w may be nil, which disables pinning and
// removal.
func New(s store.Store, w store.Writer, cfg Config) *Console {
	if cfg.Throttle <= 0 {
		cfg.Throttle = DefaultThrottle
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Console{
		store:         s,
		writer:        w,
		logger:        logger,
		cfg:           cfg,
		cmds:          make(chan func(context.Context), commandBuffer),
		events:        make(chan Event, eventBuffer),
		done:          make(chan struct{}),
		list:          snapshot.NewList(),
		index:         search.New(nil),
		renderer:      transcript.NewRenderer(cfg.Render, logger),
		query:         cfg.Query,
		onlyErrors:    cfg.OnlyErrors,
		follow:        cfg.Follow,
		searchOpts:    cfg.Search,
		searchResults: make(chan searchResult, 1),
	}
	c.index.SetOptions(cfg.Search)
	c.ctrl = store.NewController(s, c.effectiveQuery(c.query))
	return c
}

// Events delivers console output. It is closed when Run returns.
func (c *Console) Events() <-chan Event {
	return c.events
}

// Run processes store changes and commands until ctx is cancelled or the
// store's change channel closes.
func (c *Console) Run(ctx context.Context) error {
	defer close(c.events)
	defer close(c.done)
	defer c.stopSearch()

	if err := c.reload(ctx); err != nil {
		return fmt.Errorf("initial fetch: %w", err)
	}

	changes := c.store.Changes()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				c.logger.Info("store closed, console stopping")
				return nil
			}
			c.sync(ctx)
		case fn := <-c.cmds:
			fn(ctx)
		case <-c.throttleC:
			c.throttleC = nil
			c.startSearch(ctx, c.pending)
		case res := <-c.searchResults:
			c.finishSearch(ctx, res)
		}
	}
}

func (c *Console) do(fn func(context.Context)) {
	select {
	case c.cmds <- fn:
	case <-c.done:
	}
}

func (c *Console) emit(ctx context.Context, ev Event) {
	select {
	case c.events <- ev:
	case <-ctx.Done():
	}
}

func (c *Console) fail(ctx context.Context, err error) {
	c.logger.Warn("console command failed", "error", err)
	c.emit(ctx, Event{Kind: EventError, Err: err})
}

func (c *Console) effectiveQuery(q store.Query) store.Query {
	if c.onlyErrors && q.MinLevel < entity.LevelWarning {
		q.MinLevel = entity.LevelWarning
	}
	return q
}

// reload refetches the active query.
func (c *Console) reload(ctx context.Context) error {
	n, err := c.ctrl.Refresh(ctx)
	if err != nil {
		return err
	}
	c.apply(ctx, c.list.Apply(n))
	return nil
}

func (c *Console) sync(ctx context.Context) {
	n, err := c.ctrl.Sync(ctx)
	if err != nil {
		if ctx.Err() == nil {
			c.fail(ctx, err)
		}
		return
	}
	c.apply(ctx, c.list.Apply(n))
}

// apply feeds one classified batch to the index and the transcript.
func (c *Console) apply(ctx context.Context, batch snapshot.ChangeBatch) {
	snap := c.list.Snapshot()
	if batch.IsNoop() {
		return
	}
	c.logger.Debug("applying change batch", "batch", batch.String(), "entities", snap.Len())

	c.index.ApplyChangeBatch(batch, snap)
	u := c.renderer.Apply(batch, snap)
	if u.Appended {
		c.emit(ctx, Event{Kind: EventAppend, Text: u.Fragment, Range: u.Range, Count: snap.Len(), Follow: c.follow})
	} else {
		c.emit(ctx, Event{Kind: EventReload, Text: u.Fragment, Range: u.Range, Count: snap.Len(), Follow: c.follow})
	}
	if c.index.Query() != "" {
		c.publishSearch(ctx)
	}
}

func (c *Console) rerender(ctx context.Context) {
	u := c.renderer.Rerender()
	snap := c.list.Snapshot()
	c.emit(ctx, Event{Kind: EventReload, Text: u.Fragment, Range: u.Range, Count: snap.Len(), Follow: c.follow})
	if c.index.Query() != "" {
		c.publishSearch(ctx)
	}
}

func (c *Console) publishSearch(ctx context.Context) {
	matches := c.index.Matches()
	var highlights []Highlight
	for i, m := range matches {
		if off, ok := c.renderer.Locate(m.Index, m.Start, m.Length); ok {
			highlights = append(highlights, Highlight{Match: i, Offset: off, Length: m.Length})
		}
	}
	c.emit(ctx, Event{
		Kind:       EventSearch,
		Query:      c.index.Query(),
		Matches:    matches,
		Highlights: highlights,
		Selected:   c.index.Selected(),
	})
}

func (c *Console) publishSelection(ctx context.Context) {
	m, ok := c.index.SelectedMatch()
	if !ok {
		return
	}
	ev := Event{Kind: EventSelect, Index: m.Index, Match: m, Selected: c.index.Selected()}
	if off, ok := c.renderer.Locate(m.Index, m.Start, m.Length); ok {
		ev.Offset = off
	} else if off, ok := c.renderer.Offset(m.Index); ok {
		ev.Offset = off
	}
	c.emit(ctx, ev)
}

func (c *Console) changeQuery(ctx context.Context, q store.Query) {
	n, err := c.ctrl.SetQuery(ctx, c.effectiveQuery(q))
	if err != nil {
		c.fail(ctx, err)
		return
	}
	c.query = q
	c.apply(ctx, c.list.Apply(n))
}

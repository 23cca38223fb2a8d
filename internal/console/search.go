package console

import (
	"context"
	"errors"
	"time"

	"github.com/five82/pulsar/internal/search"
	"github.com/five82/pulsar/internal/snapshot"
)

// Search submits a query. Input is throttled; the latest query within a
// throttle window wins and any refresh still running is cancelled.
func (c *Console) Search(query string) {
	c.do(func(ctx context.Context) {
		c.pending = query
		c.stopSearch()
		if c.throttleC == nil {
			c.throttle = time.NewTimer(c.cfg.Throttle)
			c.throttleC = c.throttle.C
		}
	})
}

// SetSearchOptions changes how queries match and refreshes the current query
// right away.
func (c *Console) SetSearchOptions(opts search.Options) {
	c.do(func(ctx context.Context) {
		c.searchOpts = opts
		c.index.SetOptions(opts)
		c.stopTimer()
		c.startSearch(ctx, c.pending)
	})
}

// SelectMatch moves the selected match by delta, wrapping around.
func (c *Console) SelectMatch(delta int) {
	c.do(func(ctx context.Context) {
		if _, ok := c.index.SelectMatch(delta); !ok {
			return
		}
		c.publishSearch(ctx)
		c.publishSelection(ctx)
	})
}

// SelectEntity selects the first match inside the entity at index.
func (c *Console) SelectEntity(index int) {
	c.do(func(ctx context.Context) {
		if !c.index.SelectEntity(index) {
			return
		}
		c.publishSearch(ctx)
		c.publishSelection(ctx)
	})
}

// startSearch scans the current snapshot for query on a private index so a
// newer query can cancel it. The result is adopted by finishSearch.
func (c *Console) startSearch(ctx context.Context, query string) {
	c.stopSearch()
	c.searchGen++
	gen := c.searchGen
	snap := c.list.Snapshot()
	opts := c.searchOpts

	sctx, cancel := context.WithCancel(ctx)
	c.cancelSearch = cancel
	go func() {
		idx := search.New(nil)
		idx.SetOptions(opts)
		err := idx.Refresh(sctx, query, snap)
		res := searchResult{gen: gen, index: idx, snap: snap, err: err}
		select {
		case c.searchResults <- res:
		case <-sctx.Done():
		}
	}()
}

func (c *Console) finishSearch(ctx context.Context, res searchResult) {
	if res.gen != c.searchGen {
		return
	}
	if c.cancelSearch != nil {
		c.cancelSearch()
		c.cancelSearch = nil
	}
	if res.err != nil {
		if errors.Is(res.err, context.Canceled) || errors.Is(res.err, context.DeadlineExceeded) {
			return
		}
		var perr *search.PatternError
		if errors.As(res.err, &perr) {
			c.fail(ctx, perr)
			return
		}
		c.fail(ctx, res.err)
		return
	}

	c.index = res.index
	if current := c.list.Snapshot(); current != res.snap {
		c.index.ApplyChangeBatch(snapshot.Reload(), current)
	}
	c.publishSearch(ctx)
	c.publishSelection(ctx)
}

// stopSearch cancels the running scan and invalidates any result it already
// delivered.
func (c *Console) stopSearch() {
	c.searchGen++
	if c.cancelSearch != nil {
		c.cancelSearch()
		c.cancelSearch = nil
	}
}

func (c *Console) stopTimer() {
	if c.throttle != nil {
		c.throttle.Stop()
	}
	c.throttleC = nil
}

package console

import (
	"context"
	"fmt"

	"github.com/five82/pulsar/internal/store"
	"github.com/five82/pulsar/internal/transcript"
)

// SetOptions changes how the transcript is rendered and re-renders it.
func (c *Console) SetOptions(opts transcript.Options) {
	c.do(func(ctx context.Context) {
		if c.renderer.SetOptions(opts) {
			c.rerender(ctx)
		}
	})
}

// SetFilter replaces the filter expression. An invalid expression is
// reported through EventError and the previous filter stays active.
func (c *Console) SetFilter(filter string) {
	c.do(func(ctx context.Context) {
		q := c.query
		q.Filter = filter
		c.changeQuery(ctx, q)
	})
}

// SetOrder changes the sort order.
func (c *Console) SetOrder(order store.Order) {
	c.do(func(ctx context.Context) {
		q := c.query
		q.Order = order
		c.changeQuery(ctx, q)
	})
}

// SetOnlyPins limits the list to pinned entities.
func (c *Console) SetOnlyPins(only bool) {
	c.do(func(ctx context.Context) {
		q := c.query
		q.OnlyPinned = only
		c.changeQuery(ctx, q)
	})
}

// SetOnlyErrors hides entities below warning.
func (c *Console) SetOnlyErrors(only bool) {
	c.do(func(ctx context.Context) {
		prev := c.onlyErrors
		c.onlyErrors = only
		n, err := c.ctrl.SetQuery(ctx, c.effectiveQuery(c.query))
		if err != nil {
			c.onlyErrors = prev
			c.fail(ctx, err)
			return
		}
		c.apply(ctx, c.list.Apply(n))
	})
}

// SetFollow toggles scrolling to the newest entity on append.
func (c *Console) SetFollow(follow bool) {
	c.do(func(context.Context) {
		c.follow = follow
	})
}

// Activate handles a link from the transcript: "Show all." lifts the entity
// limit, the others open the details of the linked entity.
func (c *Console) Activate(url string) {
	c.do(func(ctx context.Context) {
		link, err := transcript.ParseLink(url)
		if err != nil {
			c.fail(ctx, err)
			return
		}
		if link.Kind == transcript.LinkShowAll {
			opts := c.renderer.Options()
			opts.Limit = 0
			if c.renderer.SetOptions(opts) {
				c.rerender(ctx)
			}
			return
		}
		snap := c.list.Snapshot()
		i, ok := c.renderer.Resolve(link, snap)
		if !ok {
			c.fail(ctx, fmt.Errorf("link %s no longer resolves", url))
			return
		}
		ev := Event{Kind: EventDetails, Index: i, Entity: snap.At(i)}
		if off, ok := c.renderer.Offset(i); ok {
			ev.Offset = off
		}
		c.emit(ctx, ev)
	})
}

// TogglePin flips the pin of the entity at index. The store's change signal
// refreshes the list.
func (c *Console) TogglePin(index int) {
	c.do(func(ctx context.Context) {
		if c.writer == nil {
			c.fail(ctx, ErrReadOnly)
			return
		}
		snap := c.list.Snapshot()
		if index < 0 || index >= snap.Len() {
			return
		}
		e := snap.At(index)
		if err := c.writer.SetPinned(ctx, e.ID, !e.Pinned); err != nil {
			c.fail(ctx, err)
		}
	})
}

// RemoveAll deletes every entity from the store.
func (c *Console) RemoveAll() {
	c.do(func(ctx context.Context) {
		if c.writer == nil {
			c.fail(ctx, ErrReadOnly)
			return
		}
		if err := c.writer.RemoveAll(ctx); err != nil {
			c.fail(ctx, err)
		}
	})
}

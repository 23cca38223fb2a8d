package store

import (
	"context"
	"fmt"

	"github.com/five82/pulsar/internal/entity"
	"github.com/five82/pulsar/internal/snapshot"
)

// Controller fetches query results and reports how they changed since the
// previous fetch. It is not safe for concurrent use.
type Controller struct {
	store Store
	query Query
	ids   []int64
	revs  map[int64]int
}

// NewController returns a controller for q. Call Refresh for the first
// snapshot.
func NewController(s Store, q Query) *Controller {
	return &Controller{store: s, query: q, revs: make(map[int64]int)}
}

// Query returns the active query.
func (c *Controller) Query() Query {
	return c.query
}

// SetQuery validates q, makes it active and refetches. On error the
// previous query stays active.
func (c *Controller) SetQuery(ctx context.Context, q Query) (snapshot.Notification, error) {
	entities, err := c.store.Fetch(ctx, q)
	if err != nil {
		return snapshot.Notification{}, fmt.Errorf("fetch: %w", err)
	}
	c.query = q
	c.remember(entities)
	return snapshot.Notification{Other: true, Snapshot: snapshot.New(entities)}, nil
}

// Refresh refetches the active query and reports a full change.
func (c *Controller) Refresh(ctx context.Context) (snapshot.Notification, error) {
	return c.SetQuery(ctx, c.query)
}

// Sync refetches the active query and diffs the result against the previous
// fetch: new entities are reported as inserts, anything else (removals,
// revisions, reordering) sets Other.
func (c *Controller) Sync(ctx context.Context) (snapshot.Notification, error) {
	entities, err := c.store.Fetch(ctx, c.query)
	if err != nil {
		return snapshot.Notification{}, fmt.Errorf("fetch: %w", err)
	}

	n := snapshot.Notification{Snapshot: snapshot.New(entities)}
	kept := 0
	for i, e := range entities {
		rev, seen := c.revs[e.ID]
		switch {
		case !seen:
			n.Inserts = append(n.Inserts, i)
		case rev != e.Revision:
			n.Other = true
			kept++
		default:
			if kept >= len(c.ids) || c.ids[kept] != e.ID {
				n.Other = true
			}
			kept++
		}
	}
	if kept != len(c.ids) {
		n.Other = true
	}
	c.remember(entities)
	return n, nil
}

func (c *Controller) remember(entities []entity.Entity) {
	c.ids = c.ids[:0]
	clear(c.revs)
	for _, e := range entities {
		c.ids = append(c.ids, e.ID)
		c.revs[e.ID] = e.Revision
	}
}

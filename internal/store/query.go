package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/five82/pulsar/internal/entity"
)

// Order is the sort order of fetched entities.
type Order int

const (
	OrderOldest Order = iota
	OrderNewest
)

func (o Order) String() string {
	if o == OrderNewest {
		return "newest"
	}
	return "oldest"
}

// ParseOrder maps "oldest" or "newest" to an Order. Blank means oldest.
func ParseOrder(name string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "oldest", "asc":
		return OrderOldest, nil
	case "newest", "desc":
		return OrderNewest, nil
	default:
		return OrderOldest, fmt.Errorf("unknown order %q", name)
	}
}

// Query selects and orders the entities a store returns.
type Query struct {
	// Filter is an expression over Env; blank matches everything.
	Filter     string
	Order      Order
	OnlyPinned bool
	// MinLevel drops entities below the given severity.
	MinLevel entity.Level
}

// Validate compiles the filter without fetching.
func (q Query) Validate() error {
	_, err := CompileFilter(q.Filter)
	return err
}

// selector is a compiled query.
type selector struct {
	q Query
	f *Filter
}

func (q Query) compile() (selector, error) {
	f, err := CompileFilter(q.Filter)
	if err != nil {
		return selector{}, err
	}
	return selector{q: q, f: f}, nil
}

func (s selector) match(e entity.Entity) bool {
	if s.q.OnlyPinned && !e.Pinned {
		return false
	}
	if e.Level < s.q.MinLevel {
		return false
	}
	return s.f.Match(e)
}

// sortEntities orders by creation time, then ID.
func sortEntities(entities []entity.Entity, order Order) {
	sort.SliceStable(entities, func(i, j int) bool {
		a, b := entities[i], entities[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if order == OrderNewest {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
		if order == OrderNewest {
			return a.ID > b.ID
		}
		return a.ID < b.ID
	})
}

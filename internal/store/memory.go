package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/five82/pulsar/internal/entity"
)

// Memory is an in-process store. The zero value is not usable; call
// NewMemory.
type Memory struct {
	mu       sync.RWMutex
	entities []entity.Entity
	nextID   int64
	closed   bool
	changes  *notifier
	now      func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{nextID: 1, changes: newNotifier(), now: time.Now}
}

// Fetch implements Store.
func (m *Memory) Fetch(ctx context.Context, q Query) ([]entity.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sel, err := q.compile()
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	out := make([]entity.Entity, 0, len(m.entities))
	for _, e := range m.entities {
		if sel.match(e) {
			out = append(out, cloneEntity(e))
		}
	}
	sortEntities(out, q.Order)
	return out, nil
}

// Changes implements Store.
func (m *Memory) Changes() <-chan struct{} {
	return m.changes.ch
}

// Close implements Store.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.changes.close()
	return nil
}

// Insert implements Writer.
func (m *Memory) Insert(ctx context.Context, e entity.Entity) (entity.Entity, error) {
	if err := ctx.Err(); err != nil {
		return entity.Entity{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return entity.Entity{}, ErrClosed
	}
	e = cloneEntity(e)
	e.ID = m.nextID
	m.nextID++
	if e.CreatedAt.IsZero() {
		e.CreatedAt = m.now()
	}
	e.CreatedAt = e.CreatedAt.UTC()
	e.Revision = 1
	m.entities = append(m.entities, e)
	m.changes.notify()
	return cloneEntity(e), nil
}

// Update implements Writer. ID and CreatedAt of the stored entity are kept.
func (m *Memory) Update(ctx context.Context, e entity.Entity) error {
	return m.mutate(ctx, e.ID, func(stored *entity.Entity) {
		next := cloneEntity(e)
		next.ID = stored.ID
		next.CreatedAt = stored.CreatedAt
		next.Revision = stored.Revision
		*stored = next
	})
}

// SetPinned implements Writer.
func (m *Memory) SetPinned(ctx context.Context, id int64, pinned bool) error {
	return m.mutate(ctx, id, func(stored *entity.Entity) {
		stored.Pinned = pinned
	})
}

// RemoveAll implements Writer.
func (m *Memory) RemoveAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.entities = nil
	m.changes.notify()
	return nil
}

func (m *Memory) mutate(ctx context.Context, id int64, fn func(*entity.Entity)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	for i := range m.entities {
		if m.entities[i].ID == id {
			fn(&m.entities[i])
			m.entities[i].Revision++
			m.changes.notify()
			return nil
		}
	}
	return fmt.Errorf("entity %d: %w", id, ErrNotFound)
}

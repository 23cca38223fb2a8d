package store

import (
	"context"
	"sync"

	"github.com/five82/pulsar/internal/entity"
)

// Store is a queryable source of entities that signals when its contents
// change.
type Store interface {
	// Fetch returns the entities selected by q in q's order.
	Fetch(ctx context.Context, q Query) ([]entity.Entity, error)
	// Changes delivers a coalesced signal after every mutation. It is closed
	// by Close.
	Changes() <-chan struct{}
	Close() error
}

// Writer mutates a store. Inserted entities get an ID and revision from the
// store; every later mutation bumps the revision. Creation times are kept in
// UTC.
type Writer interface {
	Insert(ctx context.Context, e entity.Entity) (entity.Entity, error)
	Update(ctx context.Context, e entity.Entity) error
	SetPinned(ctx context.Context, id int64, pinned bool) error
	RemoveAll(ctx context.Context) error
}

// ReadWriter is a store that can also be written.
type ReadWriter interface {
	Store
	Writer
}

// notifier fans mutations into a one-slot channel so slow readers see a
// single pending signal.
type notifier struct {
	once sync.Once
	ch   chan struct{}
}

func newNotifier() *notifier {
	return &notifier{ch: make(chan struct{}, 1)}
}

func (n *notifier) notify() {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

func (n *notifier) close() {
	n.once.Do(func() { close(n.ch) })
}

func cloneEntity(e entity.Entity) entity.Entity {
	if e.Task != nil {
		task := *e.Task
		if task.ResponseBody != nil {
			task.ResponseBody = append([]byte(nil), task.ResponseBody...)
		}
		e.Task = &task
	}
	return e
}

package snapshot

import (
	"github.com/five82/pulsar/internal/entity"
)

// Snapshot is an ordered, point-in-time view of entities. It is never
// mutated after New returns, so it may be shared by any number of readers.
type Snapshot struct {
	entities []entity.Entity
}

// New copies entities into a new snapshot.
func New(entities []entity.Entity) *Snapshot {
	if len(entities) == 0 {
		return &Snapshot{}
	}
	dup := make([]entity.Entity, len(entities))
	copy(dup, entities)
	return &Snapshot{entities: dup}
}

// Empty returns a snapshot with no entities.
func Empty() *Snapshot {
	return &Snapshot{}
}

// Len returns the number of entities. A nil snapshot is empty.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entities)
}

// At returns the entity at index i. It panics when i is out of range, like a
// slice index.
func (s *Snapshot) At(i int) entity.Entity {
	return s.entities[i]
}

// First returns the first entity, if any.
func (s *Snapshot) First() (entity.Entity, bool) {
	if s.Len() == 0 {
		return entity.Entity{}, false
	}
	return s.entities[0], true
}

// IndexOf returns the index of the entity with the given ID, or -1.
func (s *Snapshot) IndexOf(id int64) int {
	for i := 0; i < s.Len(); i++ {
		if s.entities[i].ID == id {
			return i
		}
	}
	return -1
}

// Slice returns a copy of the entities in [lo, hi), clamped to bounds.
func (s *Snapshot) Slice(lo, hi int) []entity.Entity {
	n := s.Len()
	lo = max(lo, 0)
	hi = min(hi, n)
	if lo >= hi {
		return nil
	}
	dup := make([]entity.Entity, hi-lo)
	copy(dup, s.entities[lo:hi])
	return dup
}

package snapshot

// Notification is one update cycle reported by the entity store: the indices
// inserted into the new snapshot, whether anything else changed, and the new
// snapshot itself.
type Notification struct {
	Inserts  []int
	Other    bool
	Snapshot *Snapshot
}

// List tracks the current snapshot and classifies every transition. It is
// not safe for concurrent use; the console owns it.
type List struct {
	current *Snapshot
}

// NewList starts with an empty snapshot.
func NewList() *List {
	return &List{current: Empty()}
}

// Snapshot returns the current snapshot.
func (l *List) Snapshot() *Snapshot {
	return l.current
}

// Len returns the current entity count.
func (l *List) Len() int {
	return l.current.Len()
}

// Apply classifies n against the current snapshot and publishes n.Snapshot.
func (l *List) Apply(n Notification) ChangeBatch {
	next := n.Snapshot
	if next == nil {
		next = Empty()
	}
	batch := Classify(l.current.Len(), n.Inserts, n.Other, next.Len())
	l.current = next
	return batch
}

// Reload publishes snap unconditionally.
func (l *List) Reload(snap *Snapshot) ChangeBatch {
	if snap == nil {
		snap = Empty()
	}
	l.current = snap
	return Reload()
}

// Package snapshot holds the ordered entity list and classifies how it changes.
//
// # Snapshots
//
// A Snapshot is an immutable, randomly indexable sequence of entities ordered
// by creation time. It is replaced wholesale on every change, never edited in
// place, so observers can keep reading an older snapshot while a new one is
// published.
//
// # Change classification
//
// Every update cycle reported by the store is reduced to a ChangeBatch:
//
//   - Append(range): the new snapshot is the old one plus range at the tail
//   - Reload: anything else
//
// Classification is conservative. An insertion below the previous count, any
// update/delete/move, duplicate or negative indices, gaps, or a range that
// does not end at the new count all force Reload. Zero changes yield an empty
// Append, which consumers treat as a no-op.
//
//	c := snapshot.NewClassifier(list.Len())
//	c.Insert(3)
//	c.Insert(4)
//	batch := c.Batch(5) // append[3, 5)
//
// List keeps the current snapshot and runs the classifier for each
// Notification; it is owned by a single goroutine.
package snapshot

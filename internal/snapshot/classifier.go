package snapshot

// Classifier accumulates the changes reported during one update cycle and
// decides whether they amount to a pure tail append. Any insertion below the
// previous count, or any non-insert change, permanently forces a reload.
type Classifier struct {
	oldCount int
	lo, hi   int
	inserts  int
	seen     map[int]struct{}
	reload   bool
}

// NewClassifier starts a cycle against a snapshot holding oldCount entities.
func NewClassifier(oldCount int) *Classifier {
	return &Classifier{oldCount: oldCount, reload: oldCount < 0}
}

// Insert records an insertion at index i of the new snapshot.
func (c *Classifier) Insert(i int) {
	if c.reload {
		return
	}
	if i < c.oldCount {
		c.reload = true
		return
	}
	if _, dup := c.seen[i]; dup {
		c.reload = true
		return
	}
	if c.seen == nil {
		c.seen = make(map[int]struct{})
	}
	c.seen[i] = struct{}{}
	if c.inserts == 0 {
		c.lo, c.hi = i, i+1
	} else {
		c.lo = min(c.lo, i)
		c.hi = max(c.hi, i+1)
	}
	c.inserts++
}

// Other records a change that is not an insertion (update, delete, move).
func (c *Classifier) Other() {
	c.reload = true
}

// Batch finishes the cycle. newCount is the size of the new snapshot; a range
// that does not start at the old count, has gaps, or does not end at newCount
// is inconsistent and downgrades to a reload.
func (c *Classifier) Batch(newCount int) ChangeBatch {
	if c.reload {
		return Reload()
	}
	if c.inserts == 0 {
		if newCount != c.oldCount {
			return Reload()
		}
		return Append(Range{Lo: c.oldCount, Hi: c.oldCount})
	}
	r := Range{Lo: c.lo, Hi: c.hi}
	if r.Lo != c.oldCount || r.Len() != c.inserts || r.Hi != newCount {
		return Reload()
	}
	return Append(r)
}

// Classify runs a whole cycle at once: inserts are the reported insertion
// indices and other flags any non-insert change.
func Classify(oldCount int, inserts []int, other bool, newCount int) ChangeBatch {
	c := NewClassifier(oldCount)
	if other {
		c.Other()
	}
	for _, i := range inserts {
		c.Insert(i)
	}
	return c.Batch(newCount)
}

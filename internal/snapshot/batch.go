package snapshot

import "fmt"

// Range is a half-open index range [Lo, Hi).
type Range struct {
	Lo int
	Hi int
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	if r.Hi <= r.Lo {
		return 0
	}
	return r.Hi - r.Lo
}

// Empty reports whether the range holds no indices.
func (r Range) Empty() bool {
	return r.Len() == 0
}

// Contains reports whether i lies in the range.
func (r Range) Contains(i int) bool {
	return i >= r.Lo && i < r.Hi
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Lo, r.Hi)
}

// Kind tags a ChangeBatch.
type Kind int

const (
	// KindAppend means the new snapshot equals the old one plus Range
	// appended at the tail.
	KindAppend Kind = iota
	// KindReload means no positional relationship between the snapshots is
	// guaranteed.
	KindReload
)

func (k Kind) String() string {
	if k == KindAppend {
		return "append"
	}
	return "reload"
}

// ChangeBatch describes how one snapshot transitions to the next.
type ChangeBatch struct {
	Kind  Kind
	Range Range
}

// Append builds an append batch for r.
func Append(r Range) ChangeBatch {
	return ChangeBatch{Kind: KindAppend, Range: r}
}

// Reload builds a reload batch.
func Reload() ChangeBatch {
	return ChangeBatch{Kind: KindReload}
}

// IsAppend reports whether the batch is an append.
func (b ChangeBatch) IsAppend() bool {
	return b.Kind == KindAppend
}

// IsNoop reports whether the batch is an append of nothing.
func (b ChangeBatch) IsNoop() bool {
	return b.Kind == KindAppend && b.Range.Empty()
}

func (b ChangeBatch) String() string {
	if b.Kind == KindAppend {
		return "append" + b.Range.String()
	}
	return "reload"
}

package store

import "errors"

var (
	// ErrInvalidFilter wraps a filter expression that does not compile.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrNotFound reports a mutation of an entity the store does not hold.
	ErrNotFound = errors.New("entity not found")
	// ErrClosed reports use of a closed store.
	ErrClosed = errors.New("store closed")
)

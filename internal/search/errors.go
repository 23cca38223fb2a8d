package search

import (
	"errors"
	"fmt"
)

// ErrInvalidPattern indicates that a regex query failed to compile.
var ErrInvalidPattern = errors.New("invalid search pattern")

// PatternError reports a query that could not be compiled. The index keeps
// its previous matches when Refresh returns one.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid search pattern %q: %v", e.Pattern, e.Err)
}

// Unwrap exposes both ErrInvalidPattern and the compiler error.
func (e *PatternError) Unwrap() []error {
	return []error{ErrInvalidPattern, e.Err}
}

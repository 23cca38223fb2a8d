// Package search maintains the text matches of a query over an entity
// snapshot. Appended entities are scanned incrementally; anything else
// rescans. A refresh that is cancelled or fails to compile leaves the
// published matches untouched.
package search

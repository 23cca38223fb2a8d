// Package transcript renders entity snapshots into a single styled text
// buffer. Rendered entities are cached by ID so appends only format the new
// suffix, and links embedded in the text resolve back to entities even after
// the list is reordered.
package transcript

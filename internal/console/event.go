package console

import (
	"github.com/five82/pulsar/internal/entity"
	"github.com/five82/pulsar/internal/search"
	"github.com/five82/pulsar/internal/snapshot"
	"github.com/five82/pulsar/internal/transcript"
)

// EventKind identifies an Event.
type EventKind int

const (
	// EventReload replaces the whole transcript with Text.
	EventReload EventKind = iota
	// EventAppend appends Text to the transcript.
	EventAppend
	// EventSearch publishes the matches of Query.
	EventSearch
	// EventSelect asks the front-end to scroll to Offset.
	EventSelect
	// EventDetails opens Entity after a link was activated.
	EventDetails
	// EventError reports a rejected command; nothing else changed.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventReload:
		return "reload"
	case EventAppend:
		return "append"
	case EventSearch:
		return "search"
	case EventSelect:
		return "select"
	case EventDetails:
		return "details"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Highlight is a displayed match located in the transcript text.
type Highlight struct {
	// Match indexes Event.Matches.
	Match  int
	Offset int
	Length int
}

// Event is published by the console loop. Fields not relevant to Kind are
// zero.
type Event struct {
	Kind EventKind

	// Reload and append.
	Text   transcript.Text
	Range  snapshot.Range
	Count  int
	Follow bool

	// Search.
	Query      string
	Matches    []search.Match
	Highlights []Highlight
	Selected   int

	// Select and details.
	Index  int
	Offset int
	Match  search.Match
	Entity entity.Entity

	Err error
}

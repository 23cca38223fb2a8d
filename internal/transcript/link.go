package transcript

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// LinkKind identifies what activating a link does.
type LinkKind int

const (
	LinkNone LinkKind = iota
	// LinkShowMore expands a message truncated in compact mode.
	LinkShowMore
	// LinkToggleInfo opens the details of a network task.
	LinkToggleInfo
	// LinkShowAll lifts the entity limit.
	LinkShowAll
)

const (
	linkScheme       = "story://"
	showMorePath     = "show-more/"
	toggleInfoPath   = "toggle-info/"
	messageLimitPath = "toggle-message-limit"
)

// ErrUnknownLink indicates a link that is not a transcript link.
var ErrUnknownLink = errors.New("unknown transcript link")

// Link is an opaque, addressable affordance inside the transcript. ID refers
// to a rendered entity and stays valid across snapshots, unlike its index.
type Link struct {
	Kind LinkKind
	ID   uuid.UUID
}

// URL encodes the link, e.g. "story://toggle-info/<uuid>".
func (l Link) URL() string {
	switch l.Kind {
	case LinkShowMore:
		return linkScheme + showMorePath + l.ID.String()
	case LinkToggleInfo:
		return linkScheme + toggleInfoPath + l.ID.String()
	case LinkShowAll:
		return linkScheme + messageLimitPath
	default:
		return ""
	}
}

// ParseLink decodes a URL produced by Link.URL.
func ParseLink(raw string) (Link, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(raw), linkScheme)
	if !ok {
		return Link{}, fmt.Errorf("%w: %q", ErrUnknownLink, raw)
	}
	switch {
	case strings.HasPrefix(rest, messageLimitPath):
		return Link{Kind: LinkShowAll}, nil
	case strings.HasPrefix(rest, showMorePath):
		return parseEntityLink(LinkShowMore, strings.TrimPrefix(rest, showMorePath), raw)
	case strings.HasPrefix(rest, toggleInfoPath):
		return parseEntityLink(LinkToggleInfo, strings.TrimPrefix(rest, toggleInfoPath), raw)
	default:
		return Link{}, fmt.Errorf("%w: %q", ErrUnknownLink, raw)
	}
}

func parseEntityLink(kind LinkKind, id, raw string) (Link, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Link{}, fmt.Errorf("%w: %q: %v", ErrUnknownLink, raw, err)
	}
	return Link{Kind: kind, ID: parsed}, nil
}

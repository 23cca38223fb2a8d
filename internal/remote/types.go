package remote

import (
	"fmt"

	"github.com/five82/pulsar/internal/entity"
)

// EntityBatch is the /api/entities payload. Next is the sequence to pass as
// Since on the following request.
type EntityBatch struct {
	Entities []entity.Record `json:"entities"`
	Next     uint64          `json:"next"`
}

// HealthResponse is the /api/health payload.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	Entities int    `json:"entities,omitempty"`
}

// OK reports whether the relay considers itself healthy.
func (h *HealthResponse) OK() bool {
	return h != nil && (h.Status == "ok" || h.Status == "healthy")
}

// StatusError is returned for HTTP error responses.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
}

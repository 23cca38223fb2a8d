package entity

import (
	"strings"
	"time"
)

const recordTimestampLayout = "2006-01-02 15:04:05"

// Record is the transport form of an entity, used by the remote relay API and
// by NDJSON import files.
type Record struct {
	ID        int64       `json:"id,omitempty"`
	Sequence  uint64      `json:"seq,omitempty"`
	Timestamp string      `json:"ts"`
	Level     string      `json:"level"`
	Label     string      `json:"label"`
	Message   string      `json:"msg"`
	Pinned    bool        `json:"pinned,omitempty"`
	Task      *TaskRecord `json:"task,omitempty"`
}

// TaskRecord mirrors Task in transport-friendly form. ResponseBody is
// base64-encoded by encoding/json.
type TaskRecord struct {
	Method       string  `json:"method"`
	URL          string  `json:"url"`
	State        string  `json:"state"`
	StatusCode   int     `json:"status_code"`
	ErrorCode    int     `json:"error_code,omitempty"`
	DurationMS   float64 `json:"duration_ms,omitempty"`
	ResponseBody []byte  `json:"response_body,omitempty"`
}

// ParsedTime returns the timestamp as time.Time when possible.
func (r Record) ParsedTime() time.Time {
	return parseTime(r.Timestamp)
}

// Entity converts the record. A missing or unparseable timestamp falls back
// to now so that the entity still sorts at the tail.
func (r Record) Entity() Entity {
	created := r.ParsedTime()
	if created.IsZero() {
		created = time.Now()
	}
	level, _ := ParseLevel(r.Level)
	e := Entity{
		ID:        r.ID,
		CreatedAt: created,
		Level:     level,
		Label:     strings.TrimSpace(r.Label),
		Text:      r.Message,
		Pinned:    r.Pinned,
	}
	if r.Task != nil {
		e.Task = &Task{
			Method:       strings.ToUpper(strings.TrimSpace(r.Task.Method)),
			URL:          strings.TrimSpace(r.Task.URL),
			State:        ParseTaskState(r.Task.State),
			StatusCode:   r.Task.StatusCode,
			ErrorCode:    r.Task.ErrorCode,
			Duration:     time.Duration(r.Task.DurationMS * float64(time.Millisecond)),
			ResponseBody: r.Task.ResponseBody,
		}
	}
	return e
}

// RecordOf converts an entity back into its transport form.
func RecordOf(e Entity) Record {
	r := Record{
		ID:        e.ID,
		Timestamp: e.CreatedAt.Format(time.RFC3339Nano),
		Level:     e.Level.String(),
		Label:     e.Label,
		Message:   e.Text,
		Pinned:    e.Pinned,
	}
	if e.Task != nil {
		r.Task = &TaskRecord{
			Method:       e.Task.Method,
			URL:          e.Task.URL,
			State:        e.Task.State.String(),
			StatusCode:   e.Task.StatusCode,
			ErrorCode:    e.Task.ErrorCode,
			DurationMS:   float64(e.Task.Duration) / float64(time.Millisecond),
			ResponseBody: e.Task.ResponseBody,
		}
	}
	return r
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(recordTimestampLayout, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}

package entity

import (
	"strings"
	"time"
)

// Level is the severity of a log entity.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelNotice
	LevelWarning
	LevelError
	LevelCritical
)

var levelNames = [...]string{"trace", "debug", "info", "notice", "warning", "error", "critical"}

// Levels lists every level from least to most severe.
var Levels = []Level{LevelTrace, LevelDebug, LevelInfo, LevelNotice, LevelWarning, LevelError, LevelCritical}

func (l Level) String() string {
	if l < LevelTrace || int(l) >= len(levelNames) {
		return "unknown"
	}
	return levelNames[l]
}

// ParseLevel maps a level name to a Level. Unknown names report false.
func ParseLevel(name string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace, true
	case "debug":
		return LevelDebug, true
	case "info", "":
		return LevelInfo, true
	case "notice":
		return LevelNotice, true
	case "warning", "warn":
		return LevelWarning, true
	case "error", "err":
		return LevelError, true
	case "critical", "fatal":
		return LevelCritical, true
	default:
		return LevelInfo, false
	}
}

// TaskState is the lifecycle state of a captured network task.
type TaskState int

const (
	TaskPending TaskState = iota
	TaskSuccess
	TaskFailure
)

func (s TaskState) String() string {
	switch s {
	case TaskSuccess:
		return "success"
	case TaskFailure:
		return "failure"
	default:
		return "pending"
	}
}

// ParseTaskState maps a state name to a TaskState, defaulting to pending.
func ParseTaskState(name string) TaskState {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "success":
		return TaskSuccess
	case "failure", "failed", "error":
		return TaskFailure
	default:
		return TaskPending
	}
}

// Task holds the network metadata linked to a log entity.
type Task struct {
	Method       string
	URL          string
	State        TaskState
	StatusCode   int
	ErrorCode    int
	Duration     time.Duration
	ResponseBody []byte
}

// Host returns the host component of the task URL, or "".
func (t *Task) Host() string {
	if t == nil {
		return ""
	}
	rest := t.URL
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.LastIndex(rest, "@"); i >= 0 {
		rest = rest[i+1:]
	}
	if i := strings.LastIndex(rest, ":"); i >= 0 && !strings.Contains(rest[i:], "]") {
		rest = rest[:i]
	}
	return rest
}

// Entity is a persisted log line or network task record. ID and CreatedAt
// never change once the entity is stored.
type Entity struct {
	ID        int64
	CreatedAt time.Time
	Level     Level
	Label     string
	Text      string
	Task      *Task
	Pinned    bool
	// Revision is bumped by the store on every mutation.
	Revision int
}

// IsTask reports whether the entity carries network task metadata.
func (e Entity) IsTask() bool {
	return e.Task != nil
}

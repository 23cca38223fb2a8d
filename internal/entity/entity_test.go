package entity

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"trace", LevelTrace, true},
		{" WARN ", LevelWarning, true},
		{"Critical", LevelCritical, true},
		{"", LevelInfo, true},
		{"verbose", LevelInfo, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("ParseLevel(%q) = %v,%v, want %v,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
	if Level(42).String() != "unknown" {
		t.Fatalf("out of range level should be unknown")
	}
}

func TestTaskHost(t *testing.T) {
	tests := map[string]string{
		"https://api.example.com/v1/user?id=1": "api.example.com",
		"http://user:pw@example.com:8080/x":    "example.com",
		"example.com/path":                     "example.com",
		"":                                     "",
	}
	for in, want := range tests {
		task := &Task{URL: in}
		if got := task.Host(); got != want {
			t.Fatalf("Host(%q) = %q, want %q", in, got, want)
		}
	}
	var nilTask *Task
	if nilTask.Host() != "" {
		t.Fatalf("nil task host should be empty")
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00.000"},
		{1234 * time.Millisecond, "00:01.234"},
		{62*time.Second + 5*time.Millisecond, "01:02.005"},
		{time.Hour + 2*time.Second + 345*time.Millisecond, "01:00:02.345"},
		{-1500 * time.Millisecond, "–00:01.500"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.in); got != tt.want {
			t.Fatalf("FormatElapsed(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0ms"},
		{850 * time.Millisecond, "850ms"},
		{1250 * time.Millisecond, "1.25s"},
		{2 * time.Second, "2s"},
		{125 * time.Second, "2m 5s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStatusTitle(t *testing.T) {
	tests := []struct {
		name string
		task *Task
		want string
	}{
		{"pending", &Task{State: TaskPending, StatusCode: 200}, "PENDING"},
		{"success", &Task{State: TaskSuccess, StatusCode: 200}, "200 OK"},
		{"failure with transport error", &Task{State: TaskFailure, ErrorCode: -1001}, "-1001 (Timed Out)"},
		{"failure with status", &Task{State: TaskFailure, StatusCode: 404}, "404 Not Found"},
		{"unknown status code", &Task{State: TaskSuccess, StatusCode: 599}, "599"},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusTitle(tt.task); got != tt.want {
				t.Fatalf("StatusTitle = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecordRoundTripKeepsTaskFields(t *testing.T) {
	payload := `{"ts":"2025-12-13T10:11:12.5Z","level":"warn","label":"network","msg":"GET /user",
	"task":{"method":"get","url":" https://example.com/user ","state":"failure","status_code":500,"error_code":-1009,"duration_ms":1500,"response_body":"e30="}}`
	var rec Record
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	e := rec.Entity()
	if e.Level != LevelWarning || e.Label != "network" {
		t.Fatalf("entity = %#v, want warning/network", e)
	}
	if e.Task == nil || e.Task.Method != "GET" || e.Task.URL != "https://example.com/user" {
		t.Fatalf("task = %#v, want normalized method and url", e.Task)
	}
	if e.Task.State != TaskFailure || e.Task.ErrorCode != -1009 || e.Task.Duration != 1500*time.Millisecond {
		t.Fatalf("task = %#v, want failure -1009 1.5s", e.Task)
	}
	if string(e.Task.ResponseBody) != "{}" {
		t.Fatalf("ResponseBody = %q, want {}", e.Task.ResponseBody)
	}
	if e.CreatedAt.Nanosecond() != 500_000_000 {
		t.Fatalf("CreatedAt = %v, want half second", e.CreatedAt)
	}

	back := RecordOf(e)
	if back.Task == nil || back.Task.State != "failure" || back.Level != "warning" {
		t.Fatalf("RecordOf = %#v", back)
	}
}

func TestParseTimeLayouts(t *testing.T) {
	if parseTime("2025-12-13T10:11:12Z").IsZero() {
		t.Fatalf("parseTime should parse RFC3339")
	}
	got := parseTime("2025-12-13 10:11:12")
	if got.Year() != 2025 || got.Month() != time.December || got.Day() != 13 {
		t.Fatalf("parseTime = %v, want 2025-12-13", got)
	}
	if !parseTime("yesterday").IsZero() {
		t.Fatalf("parseTime should reject unknown layouts")
	}
}

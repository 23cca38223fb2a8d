package entity

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const timeOfDayLayout = "15:04:05.000"

// FormatTimeOfDay renders t as hours, minutes, seconds and milliseconds.
func FormatTimeOfDay(t time.Time) string {
	return t.Format(timeOfDayLayout)
}

// FormatElapsed renders an interval with millisecond precision, e.g.
// "01:02.345" or "01:00:02.345" once it passes an hour.
func FormatElapsed(d time.Duration) string {
	negative := d < 0
	if negative {
		d = -d
	}
	total := int64(d / time.Second)
	ms := int64((d % time.Second) / time.Millisecond)
	seconds := total % 60
	minutes := (total / 60) % 60
	hours := total / 3600

	var out string
	if hours >= 1 {
		out = fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, ms)
	} else {
		out = fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, ms)
	}
	if negative {
		return "–" + out
	}
	return out
}

// FormatDuration renders a task duration compactly: "850ms", "1.25s", "2m 5s".
func FormatDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "0ms"
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d/time.Microsecond)
	case d < time.Second:
		return fmt.Sprintf("%dms", d/time.Millisecond)
	case d < time.Minute:
		s := strconv.FormatFloat(d.Seconds(), 'f', 2, 64)
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
		return s + "s"
	default:
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
}

// FormatStatusCode renders an HTTP status code with its reason phrase.
func FormatStatusCode(code int) string {
	if code == 0 {
		return "–"
	}
	if text := http.StatusText(code); text != "" {
		return fmt.Sprintf("%d %s", code, text)
	}
	return strconv.Itoa(code)
}

var transportErrors = map[int]string{
	-1:    "Unknown",
	-999:  "Cancelled",
	-1000: "Bad URL",
	-1001: "Timed Out",
	-1002: "Unsupported URL",
	-1003: "Cannot Find Host",
	-1004: "Cannot Connect To Host",
	-1005: "Network Connection Lost",
	-1006: "DNS Lookup Failed",
	-1007: "Too Many Redirects",
	-1009: "Not Connected To Internet",
	-1011: "Bad Server Response",
	-1012: "User Cancelled Authentication",
	-1200: "Secure Connection Failed",
	-1202: "Server Certificate Untrusted",
}

// ErrorDescription describes a transport-level error code.
func ErrorDescription(code int) string {
	if desc, ok := transportErrors[code]; ok {
		return desc
	}
	return "Error"
}

// StatusTitle is the status prefix shown for a network task: "PENDING", the
// formatted status code, or the transport error for failed tasks.
func StatusTitle(t *Task) string {
	if t == nil {
		return ""
	}
	switch t.State {
	case TaskPending:
		return "PENDING"
	case TaskFailure:
		if t.ErrorCode != 0 {
			return fmt.Sprintf("%d (%s)", t.ErrorCode, ErrorDescription(t.ErrorCode))
		}
		return FormatStatusCode(t.StatusCode)
	default:
		return FormatStatusCode(t.StatusCode)
	}
}

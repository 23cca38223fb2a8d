// Package entity defines the log and network task records the console shows.
//
// # Overview
//
// An Entity is one persisted log line. Entities that describe an HTTP request
// carry a Task with method, URL, state, status and response body. Entities are
// ordered by CreatedAt; ID and CreatedAt never change after the store assigns
// them, while Revision is bumped on every mutation (pinning, task completion)
// so that change detection can tell updates apart from inserts.
//
// # Formatting
//
// The package also owns the small display formatters shared by the transcript
// renderer and the terminal front-end:
//
//   - FormatTimeOfDay: "15:04:05.000"
//   - FormatElapsed: "MM:SS.mmm", or "HH:MM:SS.mmm" past one hour
//   - FormatDuration: "850ms", "1.25s", "2m 5s"
//   - FormatStatusCode: "404 Not Found"
//   - StatusTitle: "PENDING", a status code, or "-1001 (Timed Out)"
//
// # Transport
//
// Record and TaskRecord are the JSON forms used by the remote relay client and
// NDJSON import files. Timestamps accept RFC 3339 or "2006-01-02 15:04:05" in
// local time.
package entity

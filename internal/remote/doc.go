// Package remote is the HTTP client for a capture relay: a process that
// records log messages and network tasks elsewhere and serves them as JSON.
//
// The relay exposes two endpoints:
//
//	GET /api/entities?since=<seq>&limit=<n>  → {"entities": [...], "next": <seq>}
//	GET /api/health                          → {"status": "ok"}
//
// Entities are returned in entity.Record form. Clients poll with the last
// "next" value to receive only what was recorded since.
package remote

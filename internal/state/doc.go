// Package state shares the relay link status between the background poller
// and the UI.
//
// The poller is the single writer: after each poll it calls Update with the
// new cursor and the number of entities it imported, or with the error that
// stopped it. The UI reads copies through Snapshot on its own schedule to draw
// the status bar. A failed poll keeps the previous cursor so the next
// attempt resumes where the last good one ended; two consecutive failures
// mark the relay offline.
//
// The zero Store is ready to use.
package state

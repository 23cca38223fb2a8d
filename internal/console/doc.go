// Package console runs the event loop behind the log viewer. A single
// goroutine owns the entity list, search index and transcript renderer:
// store change signals, user commands and finished searches are all
// serialized onto it, and the results are published as Events.
//
// Search input is throttled so that only the latest query in each window is
// scanned. Scans run on a private index in the background and are cancelled
// as soon as a newer query arrives.
package console

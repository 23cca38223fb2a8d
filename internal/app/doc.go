// Package app is the composition root of pulsar.
//
// Run loads the config and preferences, starts file logging, opens the
// entity store (SQLite when store_path is set, memory otherwise), optionally
// imports an NDJSON dump or seeds demo data, starts the relay poller when
// api_bind is set, and then runs the console loop next to the terminal UI
// until the user quits.
//
//	Run()
//	  ├── config.Load / logging.Initialize / prefs.Load
//	  ├── openStore()          store.Memory or store.SQLite
//	  ├── importFile / seedDemo
//	  ├── Poller.Start()       relay -> store, link state for the header
//	  ├── console.Run()        store changes -> transcript and search events
//	  └── ui.Run()             blocks until quit
//
// The poller keeps a cursor into the relay feed and backs off exponentially
// while the relay is unreachable; failures only show up in the header and
// the log file.
package app

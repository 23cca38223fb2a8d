// Package config loads pulsar's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/pulsar/config.toml
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or blank, use defaults
//
// # Fields
//
//	store_path          SQLite database; blank keeps entities in memory
//	api_bind            relay to poll (host:port or URL); blank disables polling
//	poll_seconds        relay poll interval, default 2
//	filter              initial filter expression, see store.Env
//	order               "oldest" (default) or "newest"
//	search_throttle_ms  search input settle time, default 330
//	log_file            diagnostics log, default ~/.local/state/pulsar/pulsar.log
//	log_level           debug, info, warn or error
//
// Paths starting with "~" are expanded to the user's home directory and made
// absolute. A filter expression or order that does not parse is reported as a
// "parse config" error so startup fails early rather than in the UI.
package config

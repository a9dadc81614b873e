// Package config holds the settings that shape a sourcebuf session.
//
// Settings are resolved in layers, later layers winning:
//
//  1. Built-in defaults (Default)
//  2. A TOML or YAML file, chosen by extension
//  3. SOURCEBUF_ environment variables
//
// Environment variables follow SOURCEBUF_SECTION_KEY, for example
// SOURCEBUF_HISTORY_MAX_ENTRIES=100. SOURCEBUF_LOG_LEVEL and SOURCEBUF_STORE
// are shorthands for logging.level and store.kind.
//
// Example TOML:
//
//	[store]
//	kind = "paged"
//	bucket_size = 50
//
//	[history]
//	max_entries = 0
//	redo_policy = "preserve"
//
//	[view]
//	initial_window = 50
//	scroll_lines = 1
//
//	[search]
//	algorithm = "linear"
//
//	[logging]
//	level = "info"
package config

// Package config provides configuration loading and management.
package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# taskpad configuration file
# Values can be overridden by TASKPAD_* environment variables or CLI flags

# Storage backend: file (JSON object file), sqlite, or memory
storage_backend = "file"

# Store location (supports ~ expansion and %VAR% on Windows).
# Defaults to ~/.taskpad/storage.json, or ~/.taskpad/storage.db for sqlite.
# storage_path = "~/.taskpad/storage.json"

# Key the task list is stored under
storage_key = "tasks"

# Log directory; one file per run under <log_dir>/<store-slug>/
log_dir = "~/.taskpad/logs"

# Logging: debug, info, warn, error
log_level = "info"

# Log format: text, json, logfmt
log_format = "text"
log_timestamps = true
log_caller = false
`
}

package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# taskboard configuration file
# Values can be overridden by TASKBOARD_* environment variables or CLI flags

# Directory holding the task slot and event journals (supports ~ and $VARS)
data_dir = "~/.taskboard"

# Storage backend: file, sqlite or memory
storage = "file"

# Name of the slot the task list is saved under
storage_key = "taskManagerTasks"

# Priority labels, lowest first, and the one used when none is given
priorities = ["low", "medium", "high"]
default_priority = "medium"

# Initial view filter: all, active or completed
default_filter = "all"

# Terminal UI timings (milliseconds)
toast_ms = 2000
celebrate_ms = 3000

# Append every store event to <data_dir>/journal/<run>.jsonl
journal = true

# Logging
log_level = "info"     # debug, info, warn, error
log_format = "text"    # text, json, logfmt
log_timestamps = false
log_caller = false
`
}

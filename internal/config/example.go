package config

import (
	"io"

	"github.com/BurntSushi/toml"
)

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# today configuration file
# Values can be overridden by TODAY_* environment variables or CLI flags

# Directory containing markdown task files (supports ~ expansion)
dir = "."

# Also show tasks due or reminded within this many days
days = 0

# Number of files parsed concurrently
workers = 4

# Skip files that fail to parse instead of aborting
skip_invalid = false

# File receiving the started task for the status bar
status_file = "/tmp/task"

# Command run after the status file changes
start_hook = "killall -USR1 i3status"

# Default export format (json or yaml)
export_format = "json"

# Logging
log_level = "info"    # debug, info, warn, error
log_format = "text"   # text, json, logfmt
log_timestamps = false
log_caller = false
`
}

// Encode writes the effective configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

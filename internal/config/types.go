package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource

	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultDir          = "."
	DefaultDays         = 0
	DefaultWorkers      = 4
	DefaultStatusFile   = "/tmp/task"
	DefaultStartHook    = "killall -USR1 i3status"
	DefaultExportFormat = "json"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config holds the full configuration for today.
type Config struct {
	// Task directory scanned for markdown files.
	Dir string `toml:"dir"`

	// Days of lookahead added to today when filtering tasks.
	Days int `toml:"days"`

	// TodayOverride replaces the current date (M/D/Y). Only set from
	// flags or the environment.
	TodayOverride string `toml:"-"`

	// Parsing
	Workers     int  `toml:"workers"`
	SkipInvalid bool `toml:"skip_invalid"`

	// Status bar integration used by the start command.
	StatusFile string `toml:"status_file"`
	StartHook  string `toml:"start_hook"`

	ExportFormat string `toml:"export_format"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"dir",
		"days",
		"today",
		"workers",
		"skip_invalid",
		"status_file",
		"start_hook",
		"export_format",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

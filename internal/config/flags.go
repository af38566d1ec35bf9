package config

import (
	"flag"
)

// flagFields maps flag names to source field names.
var flagFields = map[string]string{
	"dir":            "dir",
	"days":           "days",
	"today":          "today",
	"workers":        "workers",
	"skip-invalid":   "skip_invalid",
	"status-file":    "status_file",
	"start-hook":     "start_hook",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines the global CLI flags on fs, bound to cfg, and parses
// args. Flags default to the values loaded so far.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("today", flag.ContinueOnError)
	}

	// Paths
	fs.StringVar(&cfg.Dir, "dir", cfg.Dir, "Directory containing markdown task files")

	// Dates
	fs.IntVar(&cfg.Days, "days", cfg.Days, "Also show tasks due within this many days")
	fs.StringVar(&cfg.TodayOverride, "today", cfg.TodayOverride, "Evaluate tasks as of this date (M/D/Y)")

	// Parsing
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of files parsed concurrently")
	fs.BoolVar(&cfg.SkipInvalid, "skip-invalid", cfg.SkipInvalid, "Skip files that fail to parse instead of aborting")

	// Start command
	fs.StringVar(&cfg.StatusFile, "status-file", cfg.StatusFile, "File receiving the current task for the status bar")
	fs.StringVar(&cfg.StartHook, "start-hook", cfg.StartHook, "Command run after the status file changes")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}

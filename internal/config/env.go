package config

import (
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "TODAY"

// envOverrides mirrors Config for envconfig. Pointer fields stay nil when
// the variable is unset, so only present variables override.
type envOverrides struct {
	Dir           *string `envconfig:"DIR"`
	Days          *int    `envconfig:"DAYS"`
	Today         *string `envconfig:"TODAY"`
	Workers       *int    `envconfig:"WORKERS"`
	SkipInvalid   *bool   `envconfig:"SKIP_INVALID"`
	StatusFile    *string `envconfig:"STATUS_FILE"`
	StartHook     *string `envconfig:"START_HOOK"`
	ExportFormat  *string `envconfig:"EXPORT_FORMAT"`
	LogLevel      *string `envconfig:"LOG_LEVEL"`
	LogFormat     *string `envconfig:"LOG_FORMAT"`
	LogTimestamps *bool   `envconfig:"LOG_TIMESTAMPS"`
	LogCaller     *bool   `envconfig:"LOG_CALLER"`
}

// loadFromEnv overrides config from TODAY_* environment variables.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return err
	}

	apply(&cfg.Dir, env.Dir, "dir", sources)
	apply(&cfg.Days, env.Days, "days", sources)
	apply(&cfg.TodayOverride, env.Today, "today", sources)
	apply(&cfg.Workers, env.Workers, "workers", sources)
	apply(&cfg.SkipInvalid, env.SkipInvalid, "skip_invalid", sources)
	apply(&cfg.StatusFile, env.StatusFile, "status_file", sources)
	apply(&cfg.StartHook, env.StartHook, "start_hook", sources)
	apply(&cfg.ExportFormat, env.ExportFormat, "export_format", sources)
	apply(&cfg.LogLevel, env.LogLevel, "log_level", sources)
	apply(&cfg.LogFormat, env.LogFormat, "log_format", sources)
	apply(&cfg.LogTimestamps, env.LogTimestamps, "log_timestamps", sources)
	apply(&cfg.LogCaller, env.LogCaller, "log_caller", sources)
	return nil
}

func apply[T any](field *T, value *T, name string, sources map[string]ConfigSource) {
	if value == nil {
		return
	}
	*field = *value
	if sources != nil {
		sources[name] = SourceEnv
	}
}

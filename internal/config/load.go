package config

import (
	"flag"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/today-go/internal/parser"
	"github.com/nibzard/today-go/internal/task"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.today/today.toml or OS-specific config dir)
// 3. Project config file (today.toml or .today.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := LoadWithSources(fs, args)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	cws := &ConfigWithSources{
		Config:  &Config{},
		Sources: make(map[string]ConfigSource),
	}
	cfg := cws.Config

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	for _, field := range configFields() {
		cws.Sources[field] = SourceDefault
	}

	// 2. Try to load from user config file
	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, cws.Sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
		cws.Files = append(cws.Files, path)
	}

	// 3. Try to load from project config file (overrides user config)
	if path := findProjectConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, cws.Sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
		cws.Files = append(cws.Files, path)
	}

	// 4. Override from environment
	if err := loadFromEnv(cfg, cws.Sources); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, cws.Sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cws, nil
}

// loadConfigFile decodes the TOML file at path over cfg and records the
// keys it defines.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	for _, field := range configFields() {
		if md.IsDefined(field) {
			sources[field] = source
		}
	}
	return nil
}

// finalizeConfig expands paths and validates values.
func finalizeConfig(cfg *Config) error {
	cfg.Dir = expandPath(cfg.Dir)
	cfg.StatusFile = expandPath(cfg.StatusFile)

	if cfg.Dir == "" {
		cfg.Dir = DefaultDir
	}
	if cfg.Days < 0 {
		return fmt.Errorf("days must not be negative, got %d", cfg.Days)
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}

	cfg.ExportFormat = strings.ToLower(strings.TrimSpace(cfg.ExportFormat))
	if !slices.Contains([]string{FormatJSON, FormatYAML}, cfg.ExportFormat) {
		return fmt.Errorf("unsupported export format %q", cfg.ExportFormat)
	}

	if _, err := cfg.Today(); err != nil {
		return err
	}
	return nil
}

// Today returns the date tasks are evaluated against: the override when
// set, otherwise the current local date.
func (c *Config) Today() (time.Time, error) {
	now := time.Now()
	current := task.Date(now.Year(), now.Month(), now.Day())
	if c.TodayOverride == "" {
		return current, nil
	}
	today, err := parser.ParseDate(c.TodayOverride, current)
	if err != nil {
		return time.Time{}, fmt.Errorf("today override: %w", err)
	}
	return today, nil
}

// TaskDate returns today shifted by the configured lookahead days.
func (c *Config) TaskDate() (time.Time, error) {
	today, err := c.Today()
	if err != nil {
		return time.Time{}, err
	}
	return task.AddDays(today, c.Days), nil
}

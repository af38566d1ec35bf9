// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.today/today.toml or OS-specific config directory)
// 3. Project config file (today.toml or .today.toml in the working directory)
// 4. Environment variables (TODAY_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.today/today.toml (preferred)
// - Windows: %APPDATA%\today\today.toml
// - macOS: ~/Library/Application Support/today/today.toml
// - Linux/BSD: $XDG_CONFIG_HOME/today/today.toml or ~/.config/today/today.toml
//
// Project-level config locations (overrides user config):
// - ./today.toml (preferred)
// - ./.today.toml
package config

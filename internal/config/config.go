// Package config loads the optional YAML configuration used by the
// maestro CLI and servers. Every field has a working default; a missing
// file is not an error.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds host-level settings. The marshaling core itself is not
// configurable beyond the application names; everything else concerns
// the serving surfaces.
type Config struct {
	// EditorApp is the application owning macros, groups, actions and
	// triggers.
	EditorApp string `yaml:"editor_app"`
	// EngineApp is the application that executes macros and exports
	// definitions.
	EngineApp string `yaml:"engine_app"`
	// Osascript is the path of the osascript binary.
	Osascript string `yaml:"osascript"`
	// HTTPPort is the port of the JSON API server.
	HTTPPort int `yaml:"http_port"`
	// RedisAddr enables the explicit listing cache when non-empty.
	RedisAddr string `yaml:"redis_addr"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		EditorApp: "Keyboard Maestro",
		EngineApp: "Keyboard Maestro Engine",
		Osascript: "osascript",
		HTTPPort:  8080,
		LogLevel:  "info",
	}
}

// Load reads path over the defaults. An absent file yields the defaults;
// a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// SlogLevel maps the configured level name onto slog. Unknown names fall
// back to info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "Keyboard Maestro", cfg.EditorApp)
	assert.Equal(t, "Keyboard Maestro Engine", cfg.EngineApp)
	assert.Equal(t, 8080, cfg.HTTPPort)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maestro.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
editor_app: "Editor X"
http_port: 9090
redis_addr: "localhost:6379"
log_level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Editor X", cfg.EditorApp)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	// Untouched fields keep their defaults.
	assert.Equal(t, "Keyboard Maestro Engine", cfg.EngineApp)
	assert.Equal(t, "osascript", cfg.Osascript)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maestro.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for name, want := range cases {
		assert.Equal(t, want, Config{LogLevel: name}.SlogLevel(), "level %q", name)
	}
}

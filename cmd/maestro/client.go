package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/macrokit/maestro"
	"github.com/macrokit/maestro/internal/config"
	"github.com/macrokit/maestro/internal/logging"
	"github.com/macrokit/maestro/internal/presentation/tui"
	"github.com/macrokit/maestro/internal/script"
	"github.com/macrokit/maestro/pkg/adapters/osascript"
	redisadapter "github.com/macrokit/maestro/pkg/adapters/redis"
)

// loadConfig merges the optional config file with flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if v, _ := cmd.Flags().GetString("editor-app"); v != "" {
		cfg.EditorApp = v
	}
	if v, _ := cmd.Flags().GetString("engine-app"); v != "" {
		cfg.EngineApp = v
	}
	if v, _ := cmd.Flags().GetString("osascript"); v != "" {
		cfg.Osascript = v
	}
	if v, _ := cmd.Flags().GetString("cache-addr"); v != "" {
		cfg.RedisAddr = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}

// newClient wires a maestro client from the resolved config.
func newClient(cmd *cobra.Command, opts ...maestro.Option) (*maestro.Client, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.SlogLevel())

	bridge := osascript.New(
		osascript.WithBinary(cfg.Osascript),
		osascript.WithLogger(logger),
	)
	builder := script.NewBuilder(
		script.WithEditorApp(cfg.EditorApp),
		script.WithEngineApp(cfg.EngineApp),
	)

	clientOpts := []maestro.Option{
		maestro.WithBridge(bridge),
		maestro.WithBuilder(builder),
		maestro.WithLogger(logger),
	}
	if cfg.RedisAddr != "" {
		clientOpts = append(clientOpts, maestro.WithListingCache(redisadapter.New(cfg.RedisAddr, "", 0)))
	}
	clientOpts = append(clientOpts, opts...)

	return maestro.New(clientOpts...)
}

// printMarkdown renders markdown through glamour on a terminal, or emits
// it verbatim when piped or when --plain is set.
func printMarkdown(cmd *cobra.Command, markdown string) {
	plain, _ := cmd.Flags().GetBool("plain")
	if plain || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Print(markdown)
		return
	}
	render := tui.NewRenderer()
	out, err := render(markdown)
	if err != nil {
		fmt.Print(markdown)
		return
	}
	fmt.Print(out)
}

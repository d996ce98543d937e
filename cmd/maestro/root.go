package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "maestro",
	Short: "maestro drives a macOS macro engine from the command line",
	Long: `maestro is a typed control bridge for a running macro engine.
It builds the engine's native script commands for you, so macros, groups,
actions and triggers can be listed, edited and executed without touching
the scripting dictionary directly.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "maestro.yaml", "Path of the optional config file")
	rootCmd.PersistentFlags().String("editor-app", "", "Override the editor application name")
	rootCmd.PersistentFlags().String("engine-app", "", "Override the engine application name")
	rootCmd.PersistentFlags().String("osascript", "", "Override the osascript binary path")
	rootCmd.PersistentFlags().String("cache-addr", "", "Redis address enabling the explicit listing cache")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("plain", false, "Disable terminal rendering, print plain output")
}

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/macrokit/maestro"
	"github.com/macrokit/maestro/internal/logging"
	mcpAdapter "github.com/macrokit/maestro/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts maestro as an MCP server.
This allows AI agents to list, edit and execute macros as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		cfg, err := loadConfig(cmd)
		exitOn(err)

		// Logs must stay off Stdout or they corrupt JSON-RPC.
		logger := logging.New(cfg.SlogLevel())
		slog.SetDefault(logger)

		client, err := newClient(cmd)
		exitOn(err)

		srv := mcpAdapter.NewServer(client, func(ctx context.Context, name, payload, group string) (string, error) {
			return client.CreateMacro(ctx, name, maestro.CreateMacroOptions{Payload: payload, Group: group})
		}, maestro.Version)

		switch transport {
		case "stdio":
			log.SetOutput(os.Stderr)
			slog.Info("Starting maestro MCP server (stdio)...")
			if err := srv.ServeStdio(); err != nil {
				slog.Error("MCP server execution failed", "error", err)
				os.Exit(1)
			}
		case "sse":
			slog.Info("Starting maestro MCP server (SSE)", "port", port)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil {
				slog.Error("MCP server execution failed", "error", err)
				os.Exit(1)
			}
		default:
			slog.Error("Unknown transport", "transport", transport)
			os.Exit(1)
		}
	},
}

func init() {
	mcpCmd.Flags().String("transport", "stdio", "Transport: stdio or sse")
	mcpCmd.Flags().Int("port", 8765, "Port for the SSE transport")
	rootCmd.AddCommand(mcpCmd)
}

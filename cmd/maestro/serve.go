package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/macrokit/maestro"
	httpAdapter "github.com/macrokit/maestro/internal/adapters/http"
	"github.com/macrokit/maestro/internal/presentation/tui"
	"github.com/macrokit/maestro/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON API server",
	Long:  `Starts maestro in server mode, exposing every operation as a JSON API over HTTP, with Prometheus metrics on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		exitOn(err)
		if port, _ := cmd.Flags().GetInt("port"); cmd.Flags().Changed("port") {
			cfg.HTTPPort = port
		}

		metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
		client, err := newClient(cmd, maestro.WithLifecycleHooks(metrics.Hooks()))
		exitOn(err)

		handler := httpAdapter.NewHandler(client, func(ctx context.Context, name, payload, group string) (string, error) {
			return client.CreateMacro(ctx, name, maestro.CreateMacroOptions{Payload: payload, Group: group})
		})

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
			Handler: handler,
		}

		tui.PrintBanner()

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting maestro server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Error killing server: %v\n", err)
				}
			}
			fmt.Println("maestro server stopped gracefully")
		}
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

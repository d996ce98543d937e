// Package mcp exposes the maestro operations as Model Context Protocol
// tools, so AI agents can drive the macro engine over stdio or SSE.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"

	"github.com/macrokit/maestro/pkg/domain"
)

// Service is the slice of the maestro client the MCP server needs.
type Service interface {
	ListMacros(ctx context.Context) ([]domain.MacroRecord, error)
	SearchMacros(ctx context.Context, query string) ([]domain.MacroRecord, error)
	GetMacro(ctx context.Context, identifier string) (domain.MacroRecord, error)
	GetMacroDefinition(ctx context.Context, identifier string) (string, error)
	DuplicateMacro(ctx context.Context, identifier, newName string) (string, error)
	DeleteMacro(ctx context.Context, identifier string) (string, error)
	SetMacroEnable(ctx context.Context, identifier string, enabled bool) (string, error)
	ExecuteMacro(ctx context.Context, identifier, parameter string) (string, error)
	ListGroups(ctx context.Context) ([]domain.GroupRecord, error)
	CreateGroup(ctx context.Context, name string) (string, error)
	DeleteGroup(ctx context.Context, identifier string) (string, error)
	SetGroupEnable(ctx context.Context, identifier string, enabled bool) (string, error)
	ListActions(ctx context.Context, macro string) ([]domain.ActionRecord, error)
	GetAction(ctx context.Context, macro string, index int) (string, error)
	AddAction(ctx context.Context, macro, payload string) (string, error)
	SetAction(ctx context.Context, macro string, index int, payload string) (string, error)
	DeleteAction(ctx context.Context, macro string, index int) (string, error)
	MoveAction(ctx context.Context, macro string, index, dest int) (string, error)
	SearchReplaceAction(ctx context.Context, macro string, index int, search, replace string) (string, error)
	ListTriggers(ctx context.Context, macro string) ([]domain.TriggerRecord, error)
	GetTrigger(ctx context.Context, macro string, index int) (string, error)
	AddTrigger(ctx context.Context, macro, payload string) (string, error)
	SetTrigger(ctx context.Context, macro string, index int, payload string) (string, error)
	DeleteTrigger(ctx context.Context, macro string, index int) (string, error)
	MoveTrigger(ctx context.Context, macro string, index, dest int) (string, error)
}

// CreateMacroFn decouples the adapter from the facade's options struct.
type CreateMacroFn func(ctx context.Context, name, payload, group string) (string, error)

// Server wraps the maestro client and exposes it as an MCP server.
type Server struct {
	svc       Service
	create    CreateMacroFn
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance with all tools registered.
func NewServer(svc Service, create CreateMacroFn, version string) *Server {
	s := &Server{
		svc:       svc,
		create:    create,
		mcpServer: server.NewMCPServer("maestro-mcp", version),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// decodeArgs maps a tool's argument map onto a typed struct. Weak typing
// is enabled because JSON numbers arrive as float64 while index fields
// are ints.
func decodeArgs(req mcp.CallToolRequest, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("building argument decoder: %w", err)
	}
	if err := dec.Decode(req.GetArguments()); err != nil {
		return fmt.Errorf("decoding arguments: %w", err)
	}
	return nil
}

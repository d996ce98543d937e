// Package osascript implements ports.Bridge on top of the macOS
// osascript binary. Each call is one synchronous process invocation; the
// engine serializes automation requests internally, so the bridge adds
// no locking of its own.
package osascript

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/macrokit/maestro/pkg/domain"
)

// runFunc invokes a binary and captures its output streams. It exists so
// tests can exercise error normalization without a real osascript.
type runFunc func(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)

// Bridge hands script source to osascript and normalizes failures.
type Bridge struct {
	binary string
	logger *slog.Logger
	run    runFunc
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithBinary overrides the osascript binary path.
func WithBinary(path string) Option {
	return func(b *Bridge) { b.binary = path }
}

// WithLogger sets a structured logger for command tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) { b.logger = logger }
}

// withRunner replaces the process invocation, for tests.
func withRunner(run runFunc) Option {
	return func(b *Bridge) { b.run = run }
}

// New creates a Bridge using /usr/bin/osascript by default.
func New(opts ...Option) *Bridge {
	b := &Bridge{
		binary: "osascript",
		logger: slog.Default(),
		run:    runProcess,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run submits a short ad hoc script via -e and returns its raw output
// with the trailing newline stripped. Leading characters are preserved;
// record content is never trimmed here.
func (b *Bridge) Run(ctx context.Context, source string) (string, error) {
	b.logger.Debug("running script", "bytes", len(source))
	return b.normalize(b.run(ctx, b.binary, "-e", source))
}

// RunFile writes the script to a uniquely named temp file and invokes it
// from there. File-based invocation avoids argv length limits for the
// long repeat-loop listings and keeps multi-line sources intact. The
// script file is removed on every exit path.
func (b *Bridge) RunFile(ctx context.Context, source string) (string, error) {
	f, err := os.CreateTemp("", "maestro-script-*.applescript")
	if err != nil {
		return "", fmt.Errorf("creating script file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(source); err != nil {
		f.Close()
		return "", fmt.Errorf("writing script file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing script file: %w", err)
	}

	b.logger.Debug("running script file", "path", path, "bytes", len(source))
	return b.normalize(b.run(ctx, b.binary, path))
}

// normalize folds every engine-reported failure into a single error
// shape. A non-zero exit means the engine (or its scripting dictionary)
// rejected the command: the stderr message is surfaced verbatim inside a
// domain.EngineError. Anything else is a transport failure of the
// invocation itself. No failure is retried.
func (b *Bridge) normalize(stdout, stderr string, err error) (string, error) {
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr)
			if msg == "" {
				msg = err.Error()
			}
			return "", &domain.EngineError{Message: msg}
		}
		return "", fmt.Errorf("invoking %s: %w", b.binary, err)
	}
	return strings.TrimRight(stdout, "\r\n"), nil
}

func runProcess(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

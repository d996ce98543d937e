package domain

import (
	"context"
	"time"
)

// CommandEvent describes one command submitted to the engine.
type CommandEvent struct {
	Op string
}

// ResultEvent describes the outcome of one engine command.
type ResultEvent struct {
	Op       string
	Duration time.Duration
	Err      error
}

// LifecycleHooks lets hosts observe engine round trips without coupling
// the facade to any metrics or logging backend. Nil hooks are skipped.
type LifecycleHooks struct {
	OnCommand func(ctx context.Context, e *CommandEvent)
	OnResult  func(ctx context.Context, e *ResultEvent)
}

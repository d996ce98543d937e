package observability_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/macrokit/maestro/pkg/domain"
	"github.com/macrokit/maestro/pkg/observability"
)

func TestHooksFeedCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnCommand(ctx, &domain.CommandEvent{Op: "list macros"})
	hooks.OnCommand(ctx, &domain.CommandEvent{Op: "list macros"})
	hooks.OnCommand(ctx, &domain.CommandEvent{Op: "execute macro"})

	hooks.OnResult(ctx, &domain.ResultEvent{Op: "list macros", Duration: 20 * time.Millisecond})
	hooks.OnResult(ctx, &domain.ResultEvent{Op: "execute macro", Duration: time.Millisecond, Err: errors.New("boom")})

	families, err := reg.Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)

	commands, err := testutil.GatherAndCount(reg, "maestro_engine_commands_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, commands, "one series per op")

	failures, err := testutil.GatherAndCount(reg, "maestro_engine_failures_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, failures, "only the failed op has a failure series")
}

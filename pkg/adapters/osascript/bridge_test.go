package osascript

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrokit/maestro/pkg/domain"
)

// exitError produces a real *exec.ExitError by running a command that
// fails. The error's exit code is irrelevant to the bridge; only its
// type matters.
func exitError(t *testing.T) error {
	t.Helper()
	err := exec.Command("false").Run()
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	return err
}

func TestRun_TrimsTrailingNewline(t *testing.T) {
	b := New(withRunner(func(ctx context.Context, name string, args ...string) (string, string, error) {
		return "A1B2-UID\r\n", "", nil
	}))

	out, err := b.Run(context.Background(), `return "x"`)
	require.NoError(t, err)
	assert.Equal(t, "A1B2-UID", out)
}

func TestRun_PreservesLeadingContent(t *testing.T) {
	b := New(withRunner(func(ctx context.Context, name string, args ...string) (string, string, error) {
		return "  leading spaces matter\n", "", nil
	}))

	out, err := b.Run(context.Background(), "src")
	require.NoError(t, err)
	assert.Equal(t, "  leading spaces matter", out)
}

func TestRun_EngineRejection(t *testing.T) {
	b := New(withRunner(func(ctx context.Context, name string, args ...string) (string, string, error) {
		return "", "execution error: Can’t get macro. (-1728)\n", exitError(t)
	}))

	_, err := b.Run(context.Background(), "src")
	require.Error(t, err)

	var engineErr *domain.EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, "execution error: Can’t get macro. (-1728)", engineErr.Message)
}

func TestRun_EngineRejectionWithoutStderr(t *testing.T) {
	b := New(withRunner(func(ctx context.Context, name string, args ...string) (string, string, error) {
		return "", "  \n", exitError(t)
	}))

	_, err := b.Run(context.Background(), "src")

	var engineErr *domain.EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.NotEmpty(t, engineErr.Message)
}

func TestRun_TransportFailure(t *testing.T) {
	boom := errors.New("executable not found")
	b := New(WithBinary("osascript"), withRunner(func(ctx context.Context, name string, args ...string) (string, string, error) {
		return "", "", boom
	}))

	_, err := b.Run(context.Background(), "src")
	require.Error(t, err)

	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "invoking osascript")

	var engineErr *domain.EngineError
	assert.False(t, errors.As(err, &engineErr))
}

func TestRun_PassesSourceInline(t *testing.T) {
	var gotArgs []string
	b := New(withRunner(func(ctx context.Context, name string, args ...string) (string, string, error) {
		gotArgs = args
		return "", "", nil
	}))

	_, err := b.Run(context.Background(), `return "x"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"-e", `return "x"`}, gotArgs)
}

func TestRunFile_WritesAndCleansScript(t *testing.T) {
	var scriptPath string
	b := New(withRunner(func(ctx context.Context, name string, args ...string) (string, string, error) {
		require.Len(t, args, 1)
		scriptPath = args[0]
		data, err := os.ReadFile(scriptPath)
		require.NoError(t, err)
		assert.Equal(t, "tell application \"X\"\nend tell", string(data))
		return "ok\n", "", nil
	}))

	out, err := b.RunFile(context.Background(), "tell application \"X\"\nend tell")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)

	_, err = os.Stat(scriptPath)
	assert.True(t, os.IsNotExist(err), "script file should be removed after the run")
}

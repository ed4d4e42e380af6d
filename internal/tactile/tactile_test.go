//go:build !windows

package tactile

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDirectExecutor_Execute(t *testing.T) {
	executor := NewDirectExecutor()

	result, err := executor.Execute(context.Background(), Command{
		Binary:    "echo",
		Arguments: []string{"hello"},
	})
	require.NoError(t, err)

	assert.True(t, result.Success, result.Error)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "hello\n", result.Stdout)
}

func TestDirectExecutor_OutputCapture(t *testing.T) {
	executor := NewDirectExecutor()

	result, err := executor.Execute(context.Background(), Command{
		Binary:    "sh",
		Arguments: []string{"-c", "echo 'Encoding (MB/sec): 1.5'; echo warn >&2"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Encoding (MB/sec): 1.5\n", result.Stdout)
	assert.Equal(t, "warn\n", result.Stderr)
}

func TestDirectExecutor_NonZeroExit(t *testing.T) {
	executor := NewDirectExecutor()

	result, err := executor.Execute(context.Background(), Command{
		Binary:    "sh",
		Arguments: []string{"-c", "exit 3"},
	})
	require.NoError(t, err)

	assert.True(t, result.Success, "command ran, so infrastructure succeeded")
	assert.True(t, result.IsNonZeroExit())
	assert.Equal(t, 3, result.ExitCode)
}

func TestDirectExecutor_InvalidCommand(t *testing.T) {
	executor := NewDirectExecutor()

	result, err := executor.Execute(context.Background(), Command{
		Binary: "nonexistent_command_12345",
	})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.True(t, result.IsError())
	assert.NotEmpty(t, result.Error)
}

func TestDirectExecutor_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	executor := NewDirectExecutor()

	result, err := executor.Execute(context.Background(), Command{
		Binary:           "sh",
		Arguments:        []string{"-c", "mkdir Coding && ls"},
		WorkingDirectory: dir,
	})
	require.NoError(t, err)

	assert.Contains(t, result.Stdout, "Coding")
	assert.DirExists(t, filepath.Join(dir, "Coding"))
}

func TestDirectExecutor_Timeout(t *testing.T) {
	config := DefaultExecutorConfig()
	config.DefaultTimeout = 300 * time.Millisecond
	executor := NewDirectExecutorWithConfig(config)

	start := time.Now()
	result, err := executor.Execute(context.Background(), Command{
		Binary:    "sleep",
		Arguments: []string{"10"},
	})
	require.NoError(t, err)

	assert.True(t, result.Killed)
	assert.Contains(t, result.KillReason, "timeout")
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestDirectExecutor_NoDefaultTimeout(t *testing.T) {
	cmd := DefaultExecutorConfig().Merge(Command{Binary: "decoder"})
	assert.Zero(t, cmd.TimeoutMs)
	assert.Equal(t, ".", cmd.WorkingDirectory)
}

func TestDirectExecutor_OutputTruncation(t *testing.T) {
	config := DefaultExecutorConfig()
	config.MaxOutputBytes = 50
	executor := NewDirectExecutorWithConfig(config)

	result, err := executor.Execute(context.Background(), Command{
		Binary:    "sh",
		Arguments: []string{"-c", "printf 'A%.0s' $(seq 1 200)"},
	})
	require.NoError(t, err)

	assert.True(t, result.Truncated)
	assert.Len(t, result.Stdout, 50)
	assert.EqualValues(t, 150, result.TruncatedBytes)
}

func TestDirectExecutor_AllowedEnvironment(t *testing.T) {
	t.Setenv("ECBENCH_VISIBLE", "yes")
	t.Setenv("ECBENCH_HIDDEN", "no")

	config := DefaultExecutorConfig()
	config.AllowedEnvironment = []string{"PATH", "ECBENCH_VISIBLE"}
	executor := NewDirectExecutorWithConfig(config)

	result, err := executor.Execute(context.Background(), Command{
		Binary:    "sh",
		Arguments: []string{"-c", "echo ${ECBENCH_VISIBLE:-unset} ${ECBENCH_HIDDEN:-unset}"},
	})
	require.NoError(t, err)
	assert.Equal(t, "yes unset\n", result.Stdout)
}

func TestDirectExecutor_InheritsEnvironmentByDefault(t *testing.T) {
	t.Setenv("ECBENCH_INHERITED", "present")
	executor := NewDirectExecutor()

	result, err := executor.Execute(context.Background(), Command{
		Binary:    "sh",
		Arguments: []string{"-c", "echo $ECBENCH_INHERITED"},
	})
	require.NoError(t, err)
	assert.Equal(t, "present\n", result.Stdout)
}

func TestDirectExecutor_AuditEvents(t *testing.T) {
	executor := NewDirectExecutor()

	var mu sync.Mutex
	var events []AuditEventType
	executor.SetAuditCallback(func(e AuditEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e.Type)
	})

	_, err := executor.Execute(context.Background(), Command{Binary: "true"})
	require.NoError(t, err)
	_, err = executor.Execute(context.Background(), Command{Binary: "nonexistent_command_12345"})
	require.NoError(t, err)

	assert.Equal(t, []AuditEventType{
		AuditEventStart, AuditEventComplete,
		AuditEventStart, AuditEventError,
	}, events)
}

func TestDirectExecutor_Validate(t *testing.T) {
	executor := NewDirectExecutor()
	assert.NoError(t, executor.Validate(Command{Binary: "echo"}))
	assert.Error(t, executor.Validate(Command{}))

	_, err := executor.Execute(context.Background(), Command{})
	assert.Error(t, err)
}

func TestCommandString(t *testing.T) {
	cmd := Command{Binary: "encoder", Arguments: []string{"in.bin", "16", "8"}}
	assert.Equal(t, "encoder in.bin 16 8", cmd.CommandString())
	assert.Equal(t, "decoder", Command{Binary: "decoder"}.CommandString())
}

func TestLimitedWriter(t *testing.T) {
	var sb strings.Builder
	lw := &limitedWriter{w: &sb, max: 4}

	n, err := lw.Write([]byte("abcdef"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, "abcd", sb.String())
	assert.True(t, lw.truncated)
	assert.EqualValues(t, 2, lw.discarded)
}

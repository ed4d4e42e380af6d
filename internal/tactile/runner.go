package tactile

import (
	"context"
	"errors"
	"fmt"
)

// ErrSpawn marks failures to launch a process (not found, permission denied).
var ErrSpawn = errors.New("failed to spawn process")

// Output is what a tool produced. Nothing in it is interpreted here.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner invokes one external executable with a fixed argument list and
// returns its captured output verbatim.
type Runner interface {
	Run(ctx context.Context, name string, args []string) (Output, error)
}

// ProcessRunner adapts an Executor to the Runner contract.
type ProcessRunner struct {
	exec Executor
	dir  string
}

// NewProcessRunner returns a runner executing in dir through exec.
func NewProcessRunner(exec Executor, dir string) *ProcessRunner {
	return &ProcessRunner{exec: exec, dir: dir}
}

// Run blocks until the process exits. A process that could not be started,
// was killed, or was canceled yields an error; a non-zero exit does not.
func (r *ProcessRunner) Run(ctx context.Context, name string, args []string) (Output, error) {
	res, err := r.exec.Execute(ctx, Command{
		Binary:           name,
		Arguments:        args,
		WorkingDirectory: r.dir,
	})
	if err != nil {
		return Output{}, fmt.Errorf("%w: %s: %v", ErrSpawn, name, err)
	}

	out := Output{Stdout: res.Stdout, Stderr: res.Stderr, ExitCode: res.ExitCode}
	switch {
	case !res.Success:
		return out, fmt.Errorf("%w: %s: %s", ErrSpawn, name, res.Error)
	case res.Killed:
		if err := ctx.Err(); err != nil {
			return out, fmt.Errorf("%s killed: %s: %w", name, res.KillReason, err)
		}
		return out, fmt.Errorf("%s killed: %s", name, res.KillReason)
	}
	return out, nil
}

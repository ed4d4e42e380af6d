//go:build windows

package tactile

import (
	"os/exec"
)

// getProcessResourceUsage reports CPU times only; Windows has no rusage.
func getProcessResourceUsage(cmd *exec.Cmd) *ResourceUsage {
	if cmd.ProcessState == nil {
		return nil
	}
	return &ResourceUsage{
		UserTimeMs:   cmd.ProcessState.UserTime().Milliseconds(),
		SystemTimeMs: cmd.ProcessState.SystemTime().Milliseconds(),
	}
}

func setupProcessGroup(cmd *exec.Cmd) {}

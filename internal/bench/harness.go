package bench

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"ecbench/internal/config"
	"ecbench/internal/erasure"
	"ecbench/internal/logging"
	"ecbench/internal/tactile"
)

// ErrInputNotFound means the benchmark input is missing or not a regular file.
var ErrInputNotFound = errors.New("input file not found")

// Options overrides the collaborators of a run. Zero values select the
// production implementations.
type Options struct {
	Runner   tactile.Runner
	Source   erasure.Source
	Reporter Reporter
	Verify   VerifyFunc
	LookPath func(file string) (string, error)
}

// Preflight checks everything a sweep needs before any process is spawned:
// a valid configuration, a regular input file, and four resolvable tools.
func Preflight(cfg *config.Config, input string, lookPath func(string) (string, error)) error {
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	if err := cfg.Validate(); err != nil {
		return &Error{Kind: KindSetup, Err: err}
	}

	info, err := os.Stat(input)
	if err != nil {
		return setupError("%w: %s: %v", ErrInputNotFound, input, err)
	}
	if !info.Mode().IsRegular() {
		return setupError("%w: %s is not a regular file", ErrInputNotFound, input)
	}
	logging.Boot("file is found.......................................[OK].")

	tools := []struct {
		role string
		tool config.ToolConfig
	}{
		{"encoder", cfg.Tools.Encoder},
		{"decoder", cfg.Tools.Decoder},
		{"encoder_mt", cfg.Tools.EncoderMT},
		{"decoder_mt", cfg.Tools.DecoderMT},
	}
	for _, t := range tools {
		path, err := lookPath(toolPath(cfg.Workspace.WorkDir, t.tool.Binary))
		if err != nil {
			return setupError("%s tool %q not found: %v", t.role, t.tool.Binary, err)
		}
		logging.BootDebug("%s tool resolved to %s", t.role, path)
	}
	return nil
}

// toolPath resolves a relative path with a separator against the directory
// the tools run in. Bare names are left for a PATH lookup.
func toolPath(workDir, binary string) string {
	if filepath.IsAbs(binary) || !strings.ContainsRune(binary, filepath.Separator) {
		return binary
	}
	return filepath.Join(workDir, binary)
}

// inputArgument is the input path as the tools must see it from workDir.
func inputArgument(workDir, input string) (string, error) {
	if filepath.IsAbs(input) || filepath.Clean(workDir) == "." {
		return input, nil
	}
	abs, err := filepath.Abs(input)
	if err != nil {
		return "", setupError("failed to resolve input path: %v", err)
	}
	return abs, nil
}

// Run preflights, wires the trial runner and sweeps the whole grid.
func Run(ctx context.Context, cfg *config.Config, input string, opts Options) (*Result, error) {
	if err := Preflight(cfg, input, opts.LookPath); err != nil {
		return nil, err
	}

	arg, err := inputArgument(cfg.Workspace.WorkDir, input)
	if err != nil {
		return nil, err
	}

	codingDir := cfg.CodingDirPath()
	if err := os.MkdirAll(codingDir, 0o755); err != nil {
		return nil, &Error{Kind: KindIO, Err: fmt.Errorf("failed to create coding directory: %w", err)}
	}

	runner := opts.Runner
	if runner == nil {
		execCfg := tactile.DefaultExecutorConfig()
		execCfg.DefaultWorkingDir = cfg.Workspace.WorkDir
		execCfg.DefaultTimeout = cfg.GetExecutionTimeout()
		execCfg.AllowedEnvironment = cfg.Execution.AllowedEnvVars
		executor := tactile.NewDirectExecutorWithConfig(execCfg)
		executor.SetAuditCallback(logProcessUsage)
		runner = tactile.NewProcessRunner(executor, cfg.Workspace.WorkDir)
	}

	src := opts.Source
	if src == nil {
		src = erasure.DefaultSource()
	}

	layout := erasure.NewLayout(codingDir, input, cfg.Workspace.MetadataMarker, cfg.Workspace.DecodedSuffix)
	trials := NewTrialRunner(runner, erasure.NewInjector(src), cfg.Tools, cfg.Coding, layout, arg, input)
	if opts.Verify != nil {
		trials.WithVerifier(opts.Verify)
	}

	logging.Sweep("sweeping %d configurations x %d runs (K=%d M=%d w=%d, policy=%s)",
		len(Configurations(cfg.Sweep)), cfg.Sweep.Runs, cfg.Coding.K, cfg.Coding.M, cfg.Coding.FieldBits, cfg.Sweep.Policy)

	res, err := NewSweeper(trials, cfg.Sweep, opts.Reporter).Run(ctx)
	if res != nil {
		res.Input = input
		res.Coding = cfg.Coding
	}
	return res, err
}

// logProcessUsage records what each finished tool cost the machine.
func logProcessUsage(ev tactile.AuditEvent) {
	if ev.Type != tactile.AuditEventComplete || ev.Result == nil || ev.Result.ResourceUsage == nil {
		return
	}
	ru := ev.Result.ResourceUsage
	logging.TrialDebug("%s: wall=%s cpu=%dms maxrss=%dKiB",
		ev.Command.CommandString(), ev.Result.Duration, ru.TotalCPUTimeMs(), ru.MaxRSSBytes/1024)
}

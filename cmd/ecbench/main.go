// Command ecbench benchmarks a baseline and a multi-threaded erasure-coding
// tool pair over a grid of packet and buffer sizes.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ecbench/internal/bench"
	"ecbench/internal/config"
	"ecbench/internal/erasure"
	"ecbench/internal/logging"
	"ecbench/internal/report"
)

const defaultConfigPath = "ecbench.yaml"

// options holds the flags shared by every subcommand.
type options struct {
	configPath string
	verbose    bool
	policy     string
	seed       int64
	jsonPath   string
	noTable    bool
	timeout    string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "ecbench <input-file>",
		Short: "Erasure-coding throughput benchmark (baseline vs multi-threaded)",
		Long: `ecbench drives an encoder/decoder pair and its multi-threaded counterpart
over a sweep of buffer sizes (outer loop) and packet sizes (inner loop).

Every trial encodes the input, erases shard files, decodes, and checks the
reconstruction byte for byte. Any failure aborts the whole sweep with exit
status 1. One block of rates is printed per buffer size.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("USAGE: %s <filename>", cmd.Root().Name())
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmark(cmd, opts, args[0])
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", defaultConfigPath, "Config file (missing file means defaults)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVar(&opts.policy, "policy", "", "Aggregation policy: best or mean (overrides config)")
	flags.StringVar(&opts.timeout, "timeout", "", "Per-process timeout, e.g. 5m (overrides config)")

	root.Flags().Int64Var(&opts.seed, "seed", 0, "Seed the erasure choice for reproducible runs")
	root.Flags().StringVar(&opts.jsonPath, "json", "", "Write the sweep result as JSON to this path")
	root.Flags().BoolVar(&opts.noTable, "no-table", false, "Do not print the summary table")

	root.AddCommand(newPlanCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	return root
}

// load reads the config, applies flag overrides and initializes logging.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return &bench.Error{Kind: bench.KindSetup, Err: err}
	}

	if o.policy != "" {
		cfg.Sweep.Policy = config.Policy(o.policy)
	}
	if o.timeout != "" {
		cfg.Execution.Timeout = o.timeout
	}
	if o.verbose {
		cfg.Logging.Level = "debug"
	}

	if err := logging.InitializeWithWriter(logging.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Categories: cfg.Logging.Categories,
	}, cmd.ErrOrStderr()); err != nil {
		return &bench.Error{Kind: bench.KindSetup, Err: fmt.Errorf("failed to initialize logging: %w", err)}
	}

	o.cfg = cfg
	logging.BootDebug("config loaded from %s (policy=%s, runs=%d)", o.configPath, cfg.Sweep.Policy, cfg.Sweep.Runs)
	return nil
}

func runBenchmark(cmd *cobra.Command, opts *options, input string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := opts.cfg
	out := cmd.OutOrStdout()

	src := erasure.DefaultSource()
	if cmd.Flags().Changed("seed") {
		src = erasure.SeededSource(opts.seed)
		logging.Boot("erasure choice seeded with %d", opts.seed)
	}

	res, err := bench.Run(ctx, cfg, input, bench.Options{
		Source:   src,
		Reporter: report.NewLinePrinter(out),
	})
	if err != nil {
		return err
	}

	jsonPath := opts.jsonPath
	if jsonPath == "" {
		jsonPath = cfg.Output.JSONPath
	}
	if jsonPath != "" {
		if err := report.WriteJSON(jsonPath, res); err != nil {
			return err
		}
	}

	if cfg.Output.Table && !opts.noTable {
		fmt.Fprint(out, "\n"+report.Summary(res))
	}
	return nil
}

// execute runs the root command and returns the process exit status.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, report.Diagnostic(err))
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

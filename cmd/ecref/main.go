// Command ecref is a Reed-Solomon stand-in for the Jerasure encoder and
// decoder executables. It follows their argument and output contract so
// ecbench can run without a native build:
//
//	ecref encode <input> K M [technique] w packetsize buffersize
//	ecref decode <input> [K M w packetsize buffersize]
//
// With --threads N the shard I/O and reconstruction run concurrently,
// standing in for encoderMT2/decoderMT2.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ecbench/internal/logging"
	"ecbench/internal/refcodec"
)

type options struct {
	codingDir     string
	decodedSuffix string
	threads       int
	verbose       bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "ecref",
		Short:         "Reference erasure-coding encoder/decoder",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			return logging.InitializeWithWriter(logging.Config{Level: level}, cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.codingDir, "coding-dir", "Coding", "Directory holding shards and metadata")
	flags.IntVarP(&opts.threads, "threads", "t", 1, "Concurrent workers (>1 selects the multi-threaded variant)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	encodeCmd := &cobra.Command{
		Use:   "encode <input> K M [technique] w packetsize buffersize",
		Short: "Split a file into data and parity shards",
		Args:  cobra.RangeArgs(6, 7),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, p, err := refcodec.ParseEncodeArgs(args)
			if err != nil {
				return err
			}
			stats, err := refcodec.Encode(cmd.Context(), opts.refOptions(input), p)
			if err != nil {
				return err
			}
			return refcodec.PrintEncodeRates(cmd.OutOrStdout(), stats)
		},
	}

	decodeCmd := &cobra.Command{
		Use:   "decode <input> [K M w packetsize buffersize]",
		Short: "Rebuild a file from its surviving shards",
		Args:  cobra.RangeArgs(1, 6),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := refcodec.ParseDecodeArgs(args)
			if err != nil {
				return err
			}
			stats, err := refcodec.Decode(cmd.Context(), opts.refOptions(input))
			if err != nil {
				return err
			}
			return refcodec.PrintDecodeRates(cmd.OutOrStdout(), stats)
		},
	}
	decodeCmd.Flags().StringVar(&opts.decodedSuffix, "decoded-suffix", "_decoded.txt", "Appended to the input stem to name the output")

	root.AddCommand(encodeCmd, decodeCmd)
	return root
}

func (o *options) refOptions(input string) refcodec.Options {
	return refcodec.Options{
		Input:         input,
		CodingDir:     o.codingDir,
		DecodedSuffix: o.decodedSuffix,
		Threads:       o.threads,
	}
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ecbench/internal/bench"
)

// invocationsPerTrial counts encoder, decoder, encoderMT and decoderMT.
const invocationsPerTrial = 4

func newPlanCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Print the sweep grid without running anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.cfg.Validate(); err != nil {
				return &bench.Error{Kind: bench.KindSetup, Err: err}
			}
			fmt.Fprint(cmd.OutOrStdout(), formatPlan(opts))
			return nil
		},
	}
}

func formatPlan(opts *options) string {
	cfg := opts.cfg
	grid := cfg.Sweep
	buffers := grid.BufferMultipliers()
	packets := grid.PacketMultipliers()
	cells := len(bench.Configurations(grid))
	trials := cells * grid.Runs

	packetSizes := make([]string, len(packets))
	for i, nn := range packets {
		packetSizes[i] = fmt.Sprint(nn * grid.PacketBlockSize)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "coding:       (%d,%d) w=%d %s, %d erasure(s) per decode\n",
		cfg.Coding.K, cfg.Coding.M, cfg.Coding.FieldBits, cfg.Coding.Technique, cfg.Coding.NumErrors)
	fmt.Fprintf(&b, "tools:        %s, %s, %s, %s\n",
		cfg.Tools.Encoder.Binary, cfg.Tools.Decoder.Binary, cfg.Tools.EncoderMT.Binary, cfg.Tools.DecoderMT.Binary)
	fmt.Fprintf(&b, "buffer sizes: %d (X %d..%d step %d, block %d bytes)\n",
		len(buffers), grid.BufferStart, grid.BufferEnd, grid.BufferStep, grid.BufferBlockSize)
	fmt.Fprintf(&b, "packet sizes: %s\n", strings.Join(packetSizes, " "))
	fmt.Fprintf(&b, "runs/cell:    %d (policy %s)\n", grid.Runs, grid.Policy)
	fmt.Fprintf(&b, "trials:       %d\n", trials)
	fmt.Fprintf(&b, "processes:    %d\n", trials*invocationsPerTrial)
	return b.String()
}

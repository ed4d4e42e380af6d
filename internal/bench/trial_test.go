package bench

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecbench/internal/erasure"
	"ecbench/internal/tactile"
	"ecbench/internal/verify"
)

func trialFixture(t *testing.T) (*TrialRunner, *fakeTools, string) {
	t.Helper()
	cfg, input := smallConfig(t)
	fake := newFakeTools(t, cfg, input)
	tr := NewTrialRunner(fake, erasure.NewInjector(erasure.SeededSource(1)), cfg.Tools, cfg.Coding, fake.layout, input, input)
	return tr, fake, input
}

var cell = Configuration{PacketMultiplier: 1, BufferMultiplier: 5, PacketSize: 2000, BufferSize: 50000}

func TestTrialRunner_InvocationContract(t *testing.T) {
	tr, fake, input := trialFixture(t)

	report, err := tr.Run(context.Background(), cell)
	require.NoError(t, err)

	want := []invocation{
		{Name: "encoder", Args: []string{input, "4", "2", "reed_sol_van", "8", "2000", "50000"}},
		{Name: "decoder", Args: []string{input}},
		{Name: "encoderMT2", Args: []string{input, "4", "2", "8", "2000", "50000"}},
		{Name: "decoderMT2", Args: []string{input, "4", "2", "8", "2000", "50000"}},
	}
	if diff := cmp.Diff(want, fake.calls); diff != "" {
		t.Errorf("invocations mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, Rates{Encode: 100, EncodeMT: 100, Decode: 90, DecodeMT: 90}, report.Rates)
	assert.Len(t, report.Erased[ModeBaseline], 2)
	assert.Len(t, report.Erased[ModeMultiThreaded], 2)
	assert.Equal(t, verify.Matched, report.Outcomes[ModeBaseline])
	assert.Equal(t, verify.Matched, report.Outcomes[ModeMultiThreaded])

	// Verified reconstructions are cleaned up.
	_, statErr := os.Stat(fake.layout.DecodedPath())
	assert.True(t, os.IsNotExist(statErr))
}

func TestTrialRunner_ErasesOnlyDataShards(t *testing.T) {
	tr, fake, _ := trialFixture(t)

	report, err := tr.Run(context.Background(), cell)
	require.NoError(t, err)

	for _, name := range append(report.Erased[ModeBaseline], report.Erased[ModeMultiThreaded]...) {
		assert.Contains(t, name, "input_k")
	}
	assert.Contains(t, fake.remainingFiles(), "input_meta.txt")
	assert.Contains(t, fake.remainingFiles(), "input_m1.txt")
}

func TestTrialRunner_PrefixArgsAndLegacyMTDecoder(t *testing.T) {
	tr, fake, input := trialFixture(t)
	tr.tools.EncoderMT.Args = []string{"encode", "--threads", "4"}
	tr.tools.DecoderMTCodingArgs = false

	_, err := tr.Run(context.Background(), cell)
	require.NoError(t, err)

	require.Len(t, fake.calls, 4)
	assert.Equal(t, []string{"encode", "--threads", "4", input, "4", "2", "8", "2000", "50000"}, fake.calls[2].Args)
	assert.Equal(t, []string{input}, fake.calls[3].Args)
}

func TestTrialRunner_BaselineMismatchStopsBeforeMT(t *testing.T) {
	tr, fake, _ := trialFixture(t)
	fake.corrupt["decoder"] = true

	_, err := tr.Run(context.Background(), cell)
	require.Error(t, err)

	assert.Equal(t, KindCorrectness, KindOf(err))
	assert.Equal(t, ModeBaseline, ModeOf(err))
	assert.ErrorIs(t, err, verify.ErrMismatch)
	assert.Equal(t, []string{"encoder", "decoder"}, fake.names())

	// The damaged reconstruction stays for inspection.
	_, statErr := os.Stat(fake.layout.DecodedPath())
	assert.NoError(t, statErr)
}

func TestTrialRunner_MTMismatch(t *testing.T) {
	tr, fake, _ := trialFixture(t)
	fake.corrupt["decoderMT2"] = true

	_, err := tr.Run(context.Background(), cell)
	assert.Equal(t, KindCorrectness, KindOf(err))
	assert.Equal(t, ModeMultiThreaded, ModeOf(err))
}

func TestTrialRunner_MissingReconstructionIsSkipped(t *testing.T) {
	tr, fake, _ := trialFixture(t)
	fake.noDecoded = true

	report, err := tr.Run(context.Background(), cell)
	require.NoError(t, err)
	assert.Equal(t, verify.Skipped, report.Outcomes[ModeBaseline])
	assert.Equal(t, verify.Skipped, report.Outcomes[ModeMultiThreaded])
}

func TestTrialRunner_MalformedOutput(t *testing.T) {
	tr, fake, _ := trialFixture(t)
	fake.decodeOut = "Segmentation fault\n"

	_, err := tr.Run(context.Background(), cell)
	assert.Equal(t, KindParse, KindOf(err))
	assert.ErrorIs(t, err, ErrMalformedOutput)

	var be *Error
	require.True(t, errors.As(err, &be))
	assert.Equal(t, StepDecode, be.Step)
	assert.Equal(t, cell, *be.Config)
}

func TestTrialRunner_SpawnFailure(t *testing.T) {
	tr, fake, _ := trialFixture(t)
	fake.failWith["encoderMT2"] = tactile.ErrSpawn

	_, err := tr.Run(context.Background(), cell)
	assert.Equal(t, KindProcess, KindOf(err))
	assert.Equal(t, ModeMultiThreaded, ModeOf(err))
	assert.ErrorIs(t, err, tactile.ErrSpawn)
}

func TestTrialRunner_InsufficientShards(t *testing.T) {
	tr, fake, _ := trialFixture(t)
	tr.coding.NumErrors = 5 // only four data shards are eligible

	_, err := tr.Run(context.Background(), cell)
	assert.Equal(t, KindInjection, KindOf(err))
	assert.ErrorIs(t, err, erasure.ErrInsufficientShards)
	assert.Equal(t, []string{"encoder"}, fake.names())
}

func TestTrialRunner_Canceled(t *testing.T) {
	tr, fake, _ := trialFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tr.Run(ctx, cell)
	assert.Equal(t, KindCanceled, KindOf(err))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fake.calls)
}

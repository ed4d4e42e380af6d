package bench

import (
	"context"
	"errors"
	"strconv"

	"ecbench/internal/config"
	"ecbench/internal/erasure"
	"ecbench/internal/logging"
	"ecbench/internal/tactile"
	"ecbench/internal/verify"
)

// VerifyFunc compares a reconstruction against the original input.
type VerifyFunc func(decodedPath, originalPath string) (verify.Outcome, error)

// TrialRunner runs one trial: a baseline leg followed by a multi-threaded
// leg, each of which encodes, erases shards, decodes and verifies.
type TrialRunner struct {
	runner   tactile.Runner
	injector *erasure.Injector
	verify   VerifyFunc
	tools    config.ToolsConfig
	coding   config.CodingConfig
	layout   erasure.Layout

	// inputArg is the path handed to the tools, original the path the
	// harness reads for verification. They differ when the tools run in
	// another directory.
	inputArg string
	original string
}

// TrialReport is what one trial observed.
type TrialReport struct {
	Rates    Rates
	Erased   map[Mode][]string
	Outcomes map[Mode]verify.Outcome
}

// NewTrialRunner wires a trial runner. original is the input path as seen
// by the harness, inputArg as seen by the tools.
func NewTrialRunner(
	runner tactile.Runner,
	injector *erasure.Injector,
	tools config.ToolsConfig,
	coding config.CodingConfig,
	layout erasure.Layout,
	inputArg, original string,
) *TrialRunner {
	return &TrialRunner{
		runner:   runner,
		injector: injector,
		verify:   verify.Verify,
		tools:    tools,
		coding:   coding,
		layout:   layout,
		inputArg: inputArg,
		original: original,
	}
}

// WithVerifier replaces the correctness check.
func (t *TrialRunner) WithVerifier(fn VerifyFunc) *TrialRunner {
	t.verify = fn
	return t
}

// Run executes the baseline leg, then the multi-threaded leg. The first
// failure aborts the trial; nothing is retried.
func (t *TrialRunner) Run(ctx context.Context, cfg Configuration) (TrialReport, error) {
	report := TrialReport{
		Erased:   make(map[Mode][]string, 2),
		Outcomes: make(map[Mode]verify.Outcome, 2),
	}

	enc, dec, err := t.leg(ctx, ModeBaseline, cfg, &report)
	if err != nil {
		return report, err
	}
	report.Rates.Encode, report.Rates.Decode = enc, dec

	enc, dec, err = t.leg(ctx, ModeMultiThreaded, cfg, &report)
	if err != nil {
		return report, err
	}
	report.Rates.EncodeMT, report.Rates.DecodeMT = enc, dec

	logging.TrialDebug("%s: encode=%.4f decode=%.4f encodeMT=%.4f decodeMT=%.4f",
		cfg, report.Rates.Encode, report.Rates.Decode, report.Rates.EncodeMT, report.Rates.DecodeMT)
	return report, nil
}

func (t *TrialRunner) leg(ctx context.Context, mode Mode, cfg Configuration, report *TrialReport) (float64, float64, error) {
	fail := func(kind Kind, step Step, err error) error {
		c := cfg
		return &Error{Kind: kind, Mode: mode, Step: step, Config: &c, Err: err}
	}

	encoder, decoder := t.tools.Encoder, t.tools.Decoder
	if mode == ModeMultiThreaded {
		encoder, decoder = t.tools.EncoderMT, t.tools.DecoderMT
	}

	encRate, err := t.measure(ctx, mode, StepEncode, encoder, t.encodeArgs(mode, cfg), fail)
	if err != nil {
		return 0, 0, err
	}

	if err := ctx.Err(); err != nil {
		return 0, 0, fail(KindCanceled, StepInject, err)
	}
	erased, err := t.injector.Inject(t.layout.CodingDir, t.layout.ExcludedPrefix(), t.coding.NumErrors)
	if err != nil {
		return 0, 0, fail(KindInjection, StepInject, err)
	}
	report.Erased[mode] = erased

	decRate, err := t.measure(ctx, mode, StepDecode, decoder, t.decodeArgs(mode, cfg), fail)
	if err != nil {
		return 0, 0, err
	}

	outcome, err := t.verify(t.layout.DecodedPath(), t.original)
	if err != nil {
		if errors.Is(err, verify.ErrMismatch) {
			return 0, 0, fail(KindCorrectness, StepVerify, err)
		}
		return 0, 0, fail(KindIO, StepVerify, err)
	}
	report.Outcomes[mode] = outcome

	return encRate, decRate, nil
}

func (t *TrialRunner) measure(
	ctx context.Context,
	mode Mode,
	step Step,
	tool config.ToolConfig,
	contract []string,
	fail func(Kind, Step, error) error,
) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fail(KindCanceled, step, err)
	}

	args := make([]string, 0, len(tool.Args)+len(contract))
	args = append(args, tool.Args...)
	args = append(args, contract...)

	out, err := t.runner.Run(ctx, tool.Binary, args)
	if err != nil {
		if ctx.Err() != nil {
			return 0, fail(KindCanceled, step, err)
		}
		return 0, fail(KindProcess, step, err)
	}
	if out.ExitCode != 0 {
		logging.TrialDebug("%s %s exited %d: %s", mode, step, out.ExitCode, out.Stderr)
	}

	rate, err := ParseRate(out.Stdout)
	if err != nil {
		return 0, fail(KindParse, step, err)
	}
	return rate, nil
}

// encodeArgs follows the tool contract:
//
//	encoder    <input> K M <technique> w packetsize buffersize
//	encoderMT2 <input> K M w packetsize buffersize
func (t *TrialRunner) encodeArgs(mode Mode, cfg Configuration) []string {
	args := []string{t.inputArg, strconv.Itoa(t.coding.K), strconv.Itoa(t.coding.M)}
	if mode == ModeBaseline {
		args = append(args, t.coding.Technique)
	}
	return append(args, t.codingTail(cfg)...)
}

// decodeArgs follows the tool contract:
//
//	decoder    <input>
//	decoderMT2 <input> [K M w packetsize buffersize]
func (t *TrialRunner) decodeArgs(mode Mode, cfg Configuration) []string {
	args := []string{t.inputArg}
	if mode == ModeMultiThreaded && t.tools.DecoderMTCodingArgs {
		args = append(args, strconv.Itoa(t.coding.K), strconv.Itoa(t.coding.M))
		args = append(args, t.codingTail(cfg)...)
	}
	return args
}

func (t *TrialRunner) codingTail(cfg Configuration) []string {
	return []string{
		strconv.Itoa(t.coding.FieldBits),
		strconv.Itoa(cfg.PacketSize),
		strconv.Itoa(cfg.BufferSize),
	}
}

package report

import (
	"errors"

	"ecbench/internal/bench"
)

// Diagnostic is the one-line message printed before exiting on err.
func Diagnostic(err error) string {
	if errors.Is(err, bench.ErrInputNotFound) {
		return "File does not exist. Check the file name."
	}
	switch bench.KindOf(err) {
	case bench.KindCorrectness:
		return "Incorrect decoding..............[" + bench.ModeOf(err).Label() + "]"
	case bench.KindProcess, bench.KindParse, bench.KindInjection, bench.KindIO:
		return "Error in encoding/decoding module. Check file size. (" + err.Error() + ")"
	case bench.KindCanceled:
		return "Benchmark interrupted. (" + err.Error() + ")"
	default:
		return err.Error()
	}
}

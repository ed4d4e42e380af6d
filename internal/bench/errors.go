package bench

import (
	"errors"
	"fmt"
)

// Kind classifies why a benchmark run stopped.
type Kind int

const (
	KindUnknown     Kind = iota
	KindSetup            // missing input, bad config, tool not on PATH
	KindProcess          // a tool could not be launched or was killed
	KindParse            // a tool's output did not carry a rate
	KindInjection        // too few shard files to erase
	KindCorrectness      // reconstruction differs from the input
	KindIO               // coding directory I/O outside injection
	KindCanceled         // context canceled between steps
)

func (k Kind) String() string {
	switch k {
	case KindSetup:
		return "setup"
	case KindProcess:
		return "process"
	case KindParse:
		return "parse"
	case KindInjection:
		return "injection"
	case KindCorrectness:
		return "correctness"
	case KindIO:
		return "io"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Mode names the implementation variant a leg of a trial exercises.
type Mode string

const (
	ModeBaseline      Mode = "baseline"
	ModeMultiThreaded Mode = "multi-threaded"
)

// Label is the short tag used in report lines.
func (m Mode) Label() string {
	if m == ModeMultiThreaded {
		return "MTJ2.0"
	}
	return "ORJ2.0"
}

// Step names the stage of a trial leg.
type Step string

const (
	StepEncode Step = "encode"
	StepInject Step = "inject"
	StepDecode Step = "decode"
	StepVerify Step = "verify"
)

// Error is the failure returned by every component boundary in a run.
type Error struct {
	Kind   Kind
	Mode   Mode
	Step   Step
	Config *Configuration
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.String() + " error"
	if e.Mode != "" {
		msg += fmt.Sprintf(" [%s %s]", e.Mode, e.Step)
	}
	if e.Config != nil {
		msg += fmt.Sprintf(" at %s", e.Config)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindUnknown
}

// ModeOf returns the Mode of the first *Error in err's chain.
func ModeOf(err error) Mode {
	var be *Error
	if errors.As(err, &be) {
		return be.Mode
	}
	return ""
}

func setupError(format string, args ...interface{}) error {
	return &Error{Kind: KindSetup, Err: fmt.Errorf(format, args...)}
}

package bench

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedOutput means a tool's stdout did not have the expected shape.
var ErrMalformedOutput = errors.New("malformed tool output")

// rateField is the zero-based index of the rate token in the first line,
// e.g. "Encoding (MB/sec): 1234.5678901234".
const rateField = 2

// ParseRate extracts the throughput from a tool's stdout: the third
// whitespace-separated token of the first line, as a finite float.
func ParseRate(stdout string) (float64, error) {
	line, _, _ := strings.Cut(stdout, "\n")
	line = strings.TrimRight(line, "\r")

	fields := strings.Fields(line)
	if len(fields) <= rateField {
		return 0, fmt.Errorf("%w: first line %q has %d field(s), want at least %d",
			ErrMalformedOutput, line, len(fields), rateField+1)
	}

	rate, err := strconv.ParseFloat(fields[rateField], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: rate token %q: %v", ErrMalformedOutput, fields[rateField], err)
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, fmt.Errorf("%w: rate token %q is not finite", ErrMalformedOutput, fields[rateField])
	}
	return rate, nil
}

package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"ecbench/internal/bench"
	"ecbench/internal/logging"
)

// LinePrinter writes one block of lines per aggregated buffer size in the
// historical harness format. It implements bench.Reporter.
type LinePrinter struct {
	w io.Writer
}

// NewLinePrinter creates a printer writing to w.
func NewLinePrinter(w io.Writer) *LinePrinter {
	return &LinePrinter{w: w}
}

// Point prints the block for p.
func (lp *LinePrinter) Point(p bench.Point) {
	if _, err := io.WriteString(lp.w, FormatPoint(p)); err != nil {
		logging.Get(logging.CategoryReport).Warn("failed to write result lines: %v", err)
	}
}

// FormatPoint renders p as:
//
//	-- BSIZE:50000 (BLOCKSIZE X 5)
//	Avg. Encode Rate (ORJ2.0): 100.0 MB/sec
//	Avg. Encode Rate (MTJ2.0):100.0 MB/sec
//	Avg. Decode Rate (ORJ2.0): 90.0 MB/sec
//	Avg. Decode Rate (MTJ2.0):90.0 MB/sec
//
// The missing space after the multi-threaded labels is part of the format.
func FormatPoint(p bench.Point) string {
	var b strings.Builder
	fmt.Fprintf(&b, "-- BSIZE:%d (BLOCKSIZE X %d)\n", p.BufferSize, p.BufferMultiplier)
	fmt.Fprintf(&b, "Avg. Encode Rate (ORJ2.0): %s MB/sec\n", FormatRate(p.Rates.Encode))
	fmt.Fprintf(&b, "Avg. Encode Rate (MTJ2.0):%s MB/sec\n", FormatRate(p.Rates.EncodeMT))
	fmt.Fprintf(&b, "Avg. Decode Rate (ORJ2.0): %s MB/sec\n", FormatRate(p.Rates.Decode))
	fmt.Fprintf(&b, "Avg. Decode Rate (MTJ2.0):%s MB/sec\n", FormatRate(p.Rates.DecodeMT))
	return b.String()
}

// FormatRate prints a rate with twelve significant digits, always showing a
// fractional part for integral values (100 -> "100.0").
func FormatRate(v float64) string {
	s := strconv.FormatFloat(v, 'g', 12, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

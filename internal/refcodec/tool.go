package refcodec

import (
	"fmt"
	"io"
	"strconv"
)

// ParseEncodeArgs reads the encoder contract:
//
//	<input> K M <technique> w packetsize buffersize
//	<input> K M w packetsize buffersize
//
// The second form implies reed_sol_van.
func ParseEncodeArgs(args []string) (string, Params, error) {
	var p Params
	var nums []string
	switch len(args) {
	case 7:
		p.Technique = args[3]
		nums = []string{args[1], args[2], args[4], args[5], args[6]}
	case 6:
		p.Technique = "reed_sol_van"
		nums = args[1:]
	default:
		return "", p, fmt.Errorf("usage: inputfile k m [technique] w packetsize buffersize (got %d args)", len(args))
	}

	dst := []*int{&p.K, &p.M, &p.FieldBits, &p.PacketSize, &p.BufferSize}
	names := []string{"k", "m", "w", "packetsize", "buffersize"}
	for i, s := range nums {
		v, err := strconv.Atoi(s)
		if err != nil {
			return "", p, fmt.Errorf("invalid value for %s: %q", names[i], s)
		}
		*dst[i] = v
	}
	return args[0], p, p.Validate()
}

// ParseDecodeArgs reads the decoder contract: the input path, optionally
// followed by K M w packetsize buffersize. The trailing parameters are
// accepted for compatibility; the metadata file is authoritative.
func ParseDecodeArgs(args []string) (string, error) {
	if len(args) != 1 && len(args) != 6 {
		return "", fmt.Errorf("usage: inputfile [k m w packetsize buffersize] (got %d args)", len(args))
	}
	return args[0], nil
}

// PrintEncodeRates writes the encoder's report. The first line carries the
// rate the benchmark parses.
func PrintEncodeRates(w io.Writer, s Stats) error {
	_, err := fmt.Fprintf(w, "Encoding (MB/sec): %0.10f\nEn_Total (MB/sec): %0.10f\n", s.CodingRate(), s.TotalRate())
	return err
}

// PrintDecodeRates writes the decoder's report.
func PrintDecodeRates(w io.Writer, s Stats) error {
	_, err := fmt.Fprintf(w, "Decoding (MB/sec): %0.10f\nDe_Total (MB/sec): %0.10f\n\n", s.CodingRate(), s.TotalRate())
	return err
}

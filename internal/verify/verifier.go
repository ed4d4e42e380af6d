// Package verify checks a decoder's reconstruction against the original input.
package verify

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"ecbench/internal/logging"
)

// ErrMismatch means the decoded file is not byte-identical to the original.
var ErrMismatch = errors.New("decoded output differs from original")

// Outcome distinguishes a confirmed match from a vacuous pass.
type Outcome int

const (
	// Matched: the decoded file existed, matched, and was removed.
	Matched Outcome = iota
	// Skipped: no decoded file was found, so nothing could be compared.
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Matched:
		return "matched"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

const chunkSize = 64 * 1024

// Verify compares decodedPath to originalPath byte for byte. A missing
// decoded file passes as Skipped. On a match the decoded file is deleted so
// the next trial starts from a clean directory; on a mismatch it is left in
// place for inspection.
func Verify(decodedPath, originalPath string) (Outcome, error) {
	if _, err := os.Stat(decodedPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.VerifyWarn("no decoded output at %s; verification skipped", decodedPath)
			return Skipped, nil
		}
		return Skipped, fmt.Errorf("failed to stat decoded output: %w", err)
	}

	if err := compareFiles(decodedPath, originalPath); err != nil {
		if errors.Is(err, ErrMismatch) {
			logging.VerifyError("%s does not match %s: %v", decodedPath, originalPath, err)
		}
		return Matched, err
	}

	if err := os.Remove(decodedPath); err != nil {
		return Matched, fmt.Errorf("failed to remove decoded output: %w", err)
	}
	logging.VerifyDebug("%s matches %s; removed", decodedPath, originalPath)
	return Matched, nil
}

func compareFiles(aPath, bPath string) error {
	a, err := os.Open(aPath)
	if err != nil {
		return fmt.Errorf("failed to open decoded output: %w", err)
	}
	defer a.Close()

	b, err := os.Open(bPath)
	if err != nil {
		return fmt.Errorf("failed to open original: %w", err)
	}
	defer b.Close()

	aInfo, err := a.Stat()
	if err != nil {
		return err
	}
	bInfo, err := b.Stat()
	if err != nil {
		return err
	}
	if aInfo.Size() != bInfo.Size() {
		return fmt.Errorf("%w: size %d, want %d", ErrMismatch, aInfo.Size(), bInfo.Size())
	}

	ra := bufio.NewReaderSize(a, chunkSize)
	rb := bufio.NewReaderSize(b, chunkSize)
	bufA := make([]byte, chunkSize)
	bufB := make([]byte, chunkSize)
	var offset int64
	for {
		na, errA := io.ReadFull(ra, bufA)
		nb, errB := io.ReadFull(rb, bufB)
		if na != nb {
			return fmt.Errorf("%w: short read at byte %d", ErrMismatch, offset+int64(min(na, nb)))
		}
		if !bytes.Equal(bufA[:na], bufB[:nb]) {
			for i := 0; i < na; i++ {
				if bufA[i] != bufB[i] {
					return fmt.Errorf("%w: first difference at byte %d", ErrMismatch, offset+int64(i))
				}
			}
		}
		offset += int64(na)

		aDone := errA == io.EOF || errors.Is(errA, io.ErrUnexpectedEOF)
		bDone := errB == io.EOF || errors.Is(errB, io.ErrUnexpectedEOF)
		switch {
		case errA != nil && !aDone:
			return fmt.Errorf("failed to read decoded output: %w", errA)
		case errB != nil && !bDone:
			return fmt.Errorf("failed to read original: %w", errB)
		case aDone && bDone:
			return nil
		case aDone != bDone:
			return fmt.Errorf("%w: length differs after byte %d", ErrMismatch, offset)
		}
	}
}

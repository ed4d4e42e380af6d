package verify

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestVerifyMatchRemovesDecodedFile(t *testing.T) {
	dir := t.TempDir()
	data := bytes.Repeat([]byte("erasure"), 50_000) // spans several chunks
	original := writeFile(t, dir, "input.bin", data)
	decoded := writeFile(t, dir, "input_decoded.txt", data)

	outcome, err := Verify(decoded, original)
	require.NoError(t, err)
	assert.Equal(t, Matched, outcome)
	assert.NoFileExists(t, decoded)
	assert.FileExists(t, original)
}

func TestVerifyMissingDecodedIsSkipped(t *testing.T) {
	dir := t.TempDir()
	original := writeFile(t, dir, "input.bin", []byte("abc"))

	outcome, err := Verify(filepath.Join(dir, "input_decoded.txt"), original)
	require.NoError(t, err)
	assert.Equal(t, Skipped, outcome)
	assert.Equal(t, "skipped", outcome.String())
}

func TestVerifyOneByteDifference(t *testing.T) {
	dir := t.TempDir()
	data := bytes.Repeat([]byte{0xAB}, 3*chunkSize+17)
	corrupt := append([]byte(nil), data...)
	corrupt[2*chunkSize+5] ^= 0x01

	original := writeFile(t, dir, "input.bin", data)
	decoded := writeFile(t, dir, "input_decoded.txt", corrupt)

	_, err := Verify(decoded, original)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMismatch))
	assert.Contains(t, err.Error(), "byte 131077")
	assert.FileExists(t, decoded, "mismatching output is kept for inspection")
}

func TestVerifySizeDifference(t *testing.T) {
	dir := t.TempDir()
	original := writeFile(t, dir, "input.bin", []byte("abcdef"))
	decoded := writeFile(t, dir, "input_decoded.txt", []byte("abcdef\x00\x00"))

	_, err := Verify(decoded, original)
	assert.ErrorIs(t, err, ErrMismatch)
	assert.Contains(t, err.Error(), "size 8, want 6")
}

func TestVerifyMissingOriginal(t *testing.T) {
	dir := t.TempDir()
	decoded := writeFile(t, dir, "input_decoded.txt", []byte("x"))

	_, err := Verify(decoded, filepath.Join(dir, "input.bin"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMismatch))
}

func TestVerifyEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	original := writeFile(t, dir, "empty.bin", nil)
	decoded := writeFile(t, dir, "empty_decoded.txt", nil)

	outcome, err := Verify(decoded, original)
	require.NoError(t, err)
	assert.Equal(t, Matched, outcome)
}

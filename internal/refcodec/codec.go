// Package refcodec is a reference implementation of the coding tool
// contract on top of klauspost/reedsolomon. It lets the benchmark run end
// to end without a native Jerasure build.
//
// The input is processed in buffers of BufferSize bytes. Each buffer is
// split into K data pieces (padded up to a multiple of PacketSize), M
// parity pieces are computed, and piece i of every buffer is appended to
// shard file i.
package refcodec

import (
	"errors"
	"fmt"
	"time"

	"github.com/klauspost/reedsolomon"
)

var (
	// ErrTooManyErasures means fewer than K shard files survived.
	ErrTooManyErasures = errors.New("too many shards missing to reconstruct")
	// ErrBadMetadata means the metadata file could not be understood.
	ErrBadMetadata = errors.New("metadata file - bad format")
)

// Params are the coding parameters shared by encoder and decoder.
type Params struct {
	K          int
	M          int
	FieldBits  int
	PacketSize int
	BufferSize int
	Technique  string
}

// Validate checks p the way the native tools do.
func (p Params) Validate() error {
	switch {
	case p.K <= 0:
		return fmt.Errorf("invalid value for k: %d", p.K)
	case p.M < 0:
		return fmt.Errorf("invalid value for m: %d", p.M)
	case p.K+p.M > 256:
		return fmt.Errorf("k+m must be <= 256, got %d", p.K+p.M)
	case p.FieldBits != 8 && p.FieldBits != 16 && p.FieldBits != 32:
		return fmt.Errorf("w must be one of {8, 16, 32}, got %d", p.FieldBits)
	case p.PacketSize <= 0:
		return fmt.Errorf("invalid value for packetsize: %d", p.PacketSize)
	case p.BufferSize <= 0:
		return fmt.Errorf("invalid value for buffersize: %d", p.BufferSize)
	}
	return nil
}

// PieceSize is the number of bytes each buffer contributes to one shard.
func (p Params) PieceSize() int {
	piece := (p.BufferSize + p.K - 1) / p.K
	if rem := piece % p.PacketSize; rem != 0 {
		piece += p.PacketSize - rem
	}
	return piece
}

// ChunkSize is the number of input bytes consumed per buffer.
func (p Params) ChunkSize() int {
	return p.PieceSize() * p.K
}

// Stats describes one encode or decode.
type Stats struct {
	Bytes      int64
	Readins    int
	CodingTime time.Duration // time spent in the Reed-Solomon math
	TotalTime  time.Duration // including file I/O
}

// CodingRate is the throughput of the coding math in MB/sec.
func (s Stats) CodingRate() float64 {
	return rate(s.Bytes, s.CodingTime)
}

// TotalRate is the end-to-end throughput in MB/sec.
func (s Stats) TotalRate() float64 {
	return rate(s.Bytes, s.TotalTime)
}

func rate(n int64, d time.Duration) float64 {
	secs := max(d.Seconds(), 1e-9)
	return float64(n) / 1024.0 / 1024.0 / secs
}

func newEncoder(p Params, threads int) (reedsolomon.Encoder, error) {
	opts := []reedsolomon.Option{}
	if threads > 1 {
		opts = append(opts, reedsolomon.WithMaxGoroutines(threads))
	}
	enc, err := reedsolomon.New(p.K, p.M, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create reed-solomon coder: %w", err)
	}
	return enc, nil
}

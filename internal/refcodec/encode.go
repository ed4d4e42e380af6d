package refcodec

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"ecbench/internal/erasure"
	"ecbench/internal/logging"
)

// Options locate the files of one coding run.
type Options struct {
	Input         string // path to the original file
	CodingDir     string // where shards and metadata live
	DecodedSuffix string // appended to the stem to name the reconstruction
	Threads       int    // >1 codes and writes shards concurrently
}

func (o Options) layout() erasure.Layout {
	suffix := o.DecodedSuffix
	if suffix == "" {
		suffix = "_decoded.txt"
	}
	return erasure.NewLayout(o.CodingDir, o.Input, "_m", suffix)
}

// Encode splits opts.Input into K data and M parity shard files plus a
// metadata file inside opts.CodingDir.
func Encode(ctx context.Context, opts Options, p Params) (Stats, error) {
	start := time.Now()
	var stats Stats

	if err := p.Validate(); err != nil {
		return stats, err
	}
	enc, err := newEncoder(p, opts.Threads)
	if err != nil {
		return stats, err
	}

	in, err := os.Open(opts.Input)
	if err != nil {
		return stats, fmt.Errorf("unable to open file: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(opts.CodingDir, 0o755); err != nil {
		return stats, fmt.Errorf("unable to create coding directory: %w", err)
	}

	layout := opts.layout()
	files, writers, err := createShards(layout, p)
	if err != nil {
		return stats, err
	}
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	piece := p.PieceSize()
	buf := make([]byte, p.ChunkSize())
	parity := make([][]byte, p.M)
	for i := range parity {
		parity[i] = make([]byte, piece)
	}

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		n, err := io.ReadFull(in, buf)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
			return stats, fmt.Errorf("failed to read input: %w", err)
		}
		clear(buf[n:])
		stats.Bytes += int64(n)
		stats.Readins++

		shards := make([][]byte, 0, p.K+p.M)
		for i := 0; i < p.K; i++ {
			shards = append(shards, buf[i*piece:(i+1)*piece])
		}
		shards = append(shards, parity...)

		codingStart := time.Now()
		if err := enc.Encode(shards); err != nil {
			return stats, fmt.Errorf("failed to encode buffer %d: %w", stats.Readins, err)
		}
		stats.CodingTime += time.Since(codingStart)

		if err := writePieces(ctx, writers, shards, opts.Threads); err != nil {
			return stats, err
		}

		if n < len(buf) {
			break
		}
	}

	for i, w := range writers {
		if err := w.Flush(); err != nil {
			return stats, fmt.Errorf("failed to flush shard %d: %w", i+1, err)
		}
	}

	md := Metadata{Input: opts.Input, Size: stats.Bytes, Params: p, Readins: stats.Readins}
	if err := writeMetadata(layout.MetadataPath(), md); err != nil {
		return stats, err
	}

	stats.TotalTime = time.Since(start)
	logging.RefCodecDebug("encoded %d bytes into %d+%d shards (%d readins, piece=%d)",
		stats.Bytes, p.K, p.M, stats.Readins, piece)
	return stats, nil
}

func createShards(layout erasure.Layout, p Params) ([]*os.File, []*bufio.Writer, error) {
	files := make([]*os.File, 0, p.K+p.M)
	writers := make([]*bufio.Writer, 0, p.K+p.M)
	for i := 0; i < p.K+p.M; i++ {
		path := shardPath(layout, p, i)
		f, err := os.Create(path)
		if err != nil {
			for _, opened := range files {
				opened.Close()
			}
			return nil, nil, fmt.Errorf("failed to create shard %s: %w", path, err)
		}
		files = append(files, f)
		writers = append(writers, bufio.NewWriter(f))
	}
	return files, writers, nil
}

// shardPath maps a zero-based shard index to its file: data shards first.
func shardPath(layout erasure.Layout, p Params, i int) string {
	if i < p.K {
		return layout.DataShardPath(i+1, p.K)
	}
	return layout.ParityShardPath(i-p.K+1, p.K)
}

// writePieces appends shards[i] to writers[i]. With threads > 1 the writes
// run concurrently, one goroutine per shard, at most threads at a time.
func writePieces(ctx context.Context, writers []*bufio.Writer, shards [][]byte, threads int) error {
	if threads <= 1 {
		for i, w := range writers {
			if _, err := w.Write(shards[i]); err != nil {
				return fmt.Errorf("failed to write shard %d: %w", i+1, err)
			}
		}
		return nil
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	for i, w := range writers {
		g.Go(func() error {
			if _, err := w.Write(shards[i]); err != nil {
				return fmt.Errorf("failed to write shard %d: %w", i+1, err)
			}
			return nil
		})
	}
	return g.Wait()
}

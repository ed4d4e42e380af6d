package refcodec

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"ecbench/internal/logging"
)

// Decode rebuilds opts.Input from the surviving shard files described by the
// metadata file and writes it to the decoded path.
func Decode(ctx context.Context, opts Options) (Stats, error) {
	start := time.Now()
	var stats Stats

	layout := opts.layout()
	md, err := ReadMetadata(layout.MetadataPath())
	if err != nil {
		return stats, err
	}
	p := md.Params

	enc, err := newEncoder(p, opts.Threads)
	if err != nil {
		return stats, err
	}

	piece := p.PieceSize()
	want := int64(md.Readins) * int64(piece)

	shardData := make([][]byte, p.K+p.M)
	var missing []int
	for i := range shardData {
		path := shardPath(layout, p, i)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			missing = append(missing, i)
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("failed to read shard %s: %w", path, err)
		}
		if int64(len(data)) != want {
			logging.Get(logging.CategoryRefCodec).Warn("shard %s has %d bytes, want %d; treating as erased", path, len(data), want)
			missing = append(missing, i)
			continue
		}
		shardData[i] = data
	}
	if len(missing) > p.M {
		return stats, fmt.Errorf("%w: %d missing, at most %d tolerated", ErrTooManyErasures, len(missing), p.M)
	}

	out, err := os.Create(layout.DecodedPath())
	if err != nil {
		return stats, fmt.Errorf("error opening the file %s: %w", layout.DecodedPath(), err)
	}
	defer out.Close()

	chunk := int64(p.ChunkSize())
	decodeOne := func(r int) error {
		shards := make([][]byte, p.K+p.M)
		for i, data := range shardData {
			if data != nil {
				shards[i] = data[r*piece : (r+1)*piece]
			}
		}

		if len(missing) > 0 {
			if err := enc.ReconstructData(shards); err != nil {
				return fmt.Errorf("decoding cannot be terminated successfully: buffer %d: %w", r+1, err)
			}
		}

		offset := int64(r) * chunk
		for i := 0; i < p.K && offset < md.Size; i++ {
			n := min(int64(piece), md.Size-offset)
			if _, err := out.WriteAt(shards[i][:n], offset); err != nil {
				return fmt.Errorf("failed to write decoded output: %w", err)
			}
			offset += n
		}
		return nil
	}

	codingStart := time.Now()
	if opts.Threads > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Threads)
		for r := 0; r < md.Readins; r++ {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return decodeOne(r)
			})
		}
		if err := g.Wait(); err != nil {
			return stats, err
		}
	} else {
		for r := 0; r < md.Readins; r++ {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			if err := decodeOne(r); err != nil {
				return stats, err
			}
		}
	}

	stats.CodingTime = time.Since(codingStart)

	if err := out.Truncate(md.Size); err != nil {
		return stats, fmt.Errorf("failed to size decoded output: %w", err)
	}

	stats.Bytes = md.Size
	stats.Readins = md.Readins
	stats.TotalTime = time.Since(start)
	logging.RefCodecDebug("decoded %d bytes from %d surviving shards (%d erased) into %s",
		md.Size, p.K+p.M-len(missing), len(missing), layout.DecodedPath())
	return stats, nil
}

package blockcodec

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// EncodeBlocks splits data into blockSize chunks and encodes them concurrently.
// At most workers blocks are compressed at a time (unbounded if workers <= 0).
// The returned blocks are in input order.
func EncodeBlocks(ctx context.Context, data []byte, blockSize int, c Compression, workers int) ([][]byte, error) {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	if blockSize > MaxBlockSize {
		return nil, fmt.Errorf("%w: block size %d exceeds %d", ErrCorrupt, blockSize, MaxBlockSize)
	}

	n := BlockCount(len(data), blockSize)
	out := make([][]byte, n)

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i := range n {
		start := i * blockSize
		end := min(start+blockSize, len(data))

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			block, err := EncodeBlock(data[start:end], c)
			if err != nil {
				return fmt.Errorf("block %d: %w", i, err)
			}
			out[i] = block
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

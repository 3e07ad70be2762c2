// Package batcher provides a generic chunked batch processor with rate limiting.
package batcher

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// Batcher splits items into chunks of at most size and hands them to a callback,
// taking one rate limiter slot per chunk.
type Batcher[T any] struct {
	size   int
	rl     ratelimit.Limiter
	logger *zap.Logger
}

// New constructs a Batcher. A non-positive rps disables rate limiting.
func New[T any](logger *zap.Logger, size, rps int) (*Batcher[T], error) {
	if size <= 0 {
		return nil, errors.New("chunk size must be positive")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	rl := ratelimit.NewUnlimited()
	if rps > 0 {
		rl = ratelimit.New(rps)
	}
	return &Batcher[T]{size: size, rl: rl, logger: logger}, nil
}

// Run calls flush for each consecutive chunk of items and stops at the first error.
func (b *Batcher[T]) Run(ctx context.Context, items []T, flush func(context.Context, []T) error) error {
	for start := 0; start < len(items); start += b.size {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+b.size, len(items))

		b.rl.Take()
		if err := flush(ctx, items[start:end]); err != nil {
			return fmt.Errorf("flush chunk [%d,%d): %w", start, end, err)
		}
		b.logger.Debug("batch flushed", zap.Int("size", end-start))
	}
	return nil
}

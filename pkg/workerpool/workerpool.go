// Package workerpool runs bounded concurrent work over a slice of items.
package workerpool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Process calls process for every item on at most workers goroutines. The first error
// cancels the context seen by the remaining calls, stops scheduling and is returned.
// If ctx is cancelled, its error is returned once running calls have finished.
func Process[T any](
	ctx context.Context,
	workers int,
	items []T,
	process func(context.Context, T) error,
) error {
	if workers < 1 {
		workers = 1
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, item := range items {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			return process(gCtx, item)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

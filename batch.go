package xlcull

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Batch produces one filtered copy of a workbook per key.
type Batch struct {
	Keys    []any
	Workers int // concurrent copies; <= 0 means one at a time
	Build   func(key any) (Job, error)
}

// RunBatch runs batch.Build(key) through CopyCull for every key. Each key
// works on its own copy, so up to batch.Workers copies are processed at
// once. Results are returned in key order. The first error cancels the
// keys not yet started.
func RunBatch(ctx context.Context, src string, batch Batch) ([]*Result, error) {
	if batch.Build == nil {
		return nil, fmt.Errorf("run batch: no job builder")
	}
	workers := batch.Workers
	if workers <= 0 {
		workers = 1
	}

	results := make([]*Result, len(batch.Keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, key := range batch.Keys {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			job, err := batch.Build(key)
			if err != nil {
				return fmt.Errorf("build job for key %v: %w", key, err)
			}
			res, err := CopyCull(src, job)
			if err != nil {
				return fmt.Errorf("key %v: %w", key, err)
			}
			res.Key = key
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

package asr

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
)

// MaxRecommendedParallel is the recommended upper limit for concurrent
// engine invocations when batching multiple files.
const MaxRecommendedParallel = 4

// TranscribeAll transcribes multiple audio files, at most maxParallel at a
// time. Results are returned in input order. Each file's own pipeline stays
// sequential; only independent files run concurrently. The first failure
// aborts the batch.
func TranscribeAll(ctx context.Context, paths []string, engine Engine, maxParallel int) ([]Result, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	if maxParallel < 1 {
		maxParallel = 1
	}

	results := make([]Result, len(paths))
	sem := make(chan struct{}, maxParallel)

	g, ctx := errgroup.WithContext(ctx)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			defer func() { <-sem }()

			start := time.Now()
			res, err := engine.Transcribe(ctx, path)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(path), err)
			}
			res.Elapsed = time.Since(start)
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

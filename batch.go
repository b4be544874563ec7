package pcfg

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of parsing one sentence of a batch
type Result struct {
	Index int
	Tree  *Tree
	Err   error
}

// BatchOption configures ParseAll
type BatchOption func(*batchOptions)

type batchOptions struct {
	metrics *Metrics
}

// WithMetrics records every parse of the batch in metrics
func WithMetrics(metrics *Metrics) BatchOption {
	return func(o *batchOptions) { o.metrics = metrics }
}

// ParseAll parses sentences on up to workers goroutines. Parse failures are
// reported in the results, in input order, and do not stop the batch; only
// the cancellation of ctx does. parser must be safe for concurrent calls to
// BestParse, which holds for trained PCFGParser and BaselineParser
func ParseAll(ctx context.Context, parser Parser, sentences [][]string, workers int, opts ...BatchOption) ([]Result, error) {
	options := batchOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(sentences))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i, sentence := range sentences {
		if groupCtx.Err() != nil {
			break
		}
		i, sentence := i, sentence
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			start := time.Now()
			tree, err := parser.BestParse(sentence)
			if options.metrics != nil {
				options.metrics.Observe(err, time.Since(start))
			}
			results[i] = Result{Index: i, Tree: tree, Err: err}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

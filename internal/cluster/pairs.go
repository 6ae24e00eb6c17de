package cluster

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"photosift/internal/fingerprint"
	"photosift/internal/logging"
)

// FindSimilarPairs compares every item against every other and returns the
// unordered pairs whose fingerprint distance is at or below the threshold.
// Comparisons are read-only, so the outer loop fans out across the worker
// pool; results are gathered per outer index to keep the output order
// independent of scheduling. Distance failures (mixed fingerprint types)
// are logged per pair and skipped.
func (e *Engine) FindSimilarPairs(ctx context.Context, items []Item) ([]Pair, error) {
	if len(items) < 2 {
		return nil, nil
	}

	perIndex := make([][]Pair, len(items))
	var warnMu sync.Mutex

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(e.workers)

	for i := range items {
		i := i
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var local []Pair
			for j := i + 1; j < len(items); j++ {
				match, err := fingerprint.Similar(items[i].Fingerprint, items[j].Fingerprint, e.threshold)
				if err != nil {
					warnMu.Lock()
					e.logger.Warn("fingerprint comparison failed",
						logging.String("a", items[i].ID),
						logging.String("b", items[j].ID),
						logging.Error(err))
					warnMu.Unlock()
					continue
				}
				if match {
					local = append(local, Pair{A: items[i].ID, B: items[j].ID})
				}
			}
			perIndex[i] = local
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var pairs []Pair
	for _, local := range perIndex {
		pairs = append(pairs, local...)
	}
	return pairs, nil
}

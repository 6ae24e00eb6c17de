package cluster

import (
	"context"

	"photosift/internal/logging"
)

// Cluster runs the full pipeline: pair search, connected-component
// grouping, and oversized-group splitting. An empty result is a normal
// outcome, not an error.
func (e *Engine) Cluster(ctx context.Context, items []Item) ([]Group, error) {
	pairs, err := e.FindSimilarPairs(ctx, items)
	if err != nil {
		return nil, err
	}
	e.logger.Info("similarity search finished",
		logging.Int("items", len(items)),
		logging.Int("pairs", len(pairs)),
		logging.Int("threshold", e.threshold))
	if len(pairs) == 0 {
		return nil, nil
	}

	groups := e.BuildGroups(pairs)
	split := e.SplitOversized(groups, pairs)
	e.logger.Info("grouping finished",
		logging.Int("groups", len(groups)),
		logging.Int("after_split", len(split)))
	return split, nil
}

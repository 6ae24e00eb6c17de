package cluster

import (
	"log/slog"

	"photosift/internal/fingerprint"
	"photosift/internal/logging"
)

// Item pairs an image identifier (its absolute path) with the fingerprint
// the similarity engine compares. Identifiers must be unique within a run.
type Item struct {
	ID          string
	Fingerprint fingerprint.Fingerprint
}

// Pair records two distinct items found within the similarity threshold.
// The pair is unordered; the engine never emits both (a,b) and (b,a).
type Pair struct {
	A string
	B string
}

// Group is a set of item identifiers believed to show the same subject.
// Groups returned by the engine always have at least two members.
type Group []string

// Engine holds the clustering parameters for one run.
type Engine struct {
	threshold    int
	maxGroupSize int
	workers      int
	logger       *slog.Logger
}

// NewEngine constructs a clustering engine. workers bounds the parallelism
// of the pair search; values below 1 are treated as 1.
func NewEngine(threshold, maxGroupSize, workers int, logger *slog.Logger) *Engine {
	if workers < 1 {
		workers = 1
	}
	if maxGroupSize < 2 {
		maxGroupSize = 2
	}
	return &Engine{
		threshold:    threshold,
		maxGroupSize: maxGroupSize,
		workers:      workers,
		logger:       logging.WithComponent(logger, "cluster"),
	}
}

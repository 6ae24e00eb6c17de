package tracker

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"photosift/internal/logging"
)

// CleanSummary reports the outcome of applying a deletion list.
type CleanSummary struct {
	Deleted        int
	Skipped        int
	Failed         int
	BytesReclaimed uint64
}

// Cleaner deletes the originals named by the persisted deletion list.
type Cleaner struct {
	store  *Store
	logger *slog.Logger
}

// NewCleaner constructs a cleaner over the given store.
func NewCleaner(store *Store, logger *slog.Logger) *Cleaner {
	return &Cleaner{
		store:  store,
		logger: logging.WithComponent(logger, "cleaner"),
	}
}

// Pending returns the deletion list without touching anything, for
// confirmation prompts and dry runs.
func (c *Cleaner) Pending() []string {
	return c.store.LoadDeletionList()
}

// Run deletes each listed file. Already-absent files are skipped, failed
// removals are counted and reported, and neither stops the pass.
func (c *Cleaner) Run(dryRun bool) CleanSummary {
	var summary CleanSummary
	for _, path := range c.store.LoadDeletionList() {
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				c.logger.Warn("already gone", logging.String("path", path))
			} else {
				c.logger.Warn("cannot inspect file", logging.String("path", path), logging.Error(err))
			}
			summary.Skipped++
			continue
		}
		if dryRun {
			summary.Deleted++
			summary.BytesReclaimed += uint64(info.Size())
			continue
		}
		if err := os.Remove(path); err != nil {
			c.logger.Warn("delete failed", logging.String("path", path), logging.Error(err))
			summary.Failed++
			continue
		}
		summary.Deleted++
		summary.BytesReclaimed += uint64(info.Size())
		c.logger.Info("deleted", logging.String("path", path))
	}
	return summary
}

package tracker

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"photosift/internal/logging"
)

// Reconciler compares the persisted mapping against what actually remains in
// the output tree and derives the originals whose copies the user removed.
type Reconciler struct {
	store      *Store
	outputRoot string
	logger     *slog.Logger
}

// NewReconciler constructs a reconciler over the given store and output root.
func NewReconciler(store *Store, outputRoot string, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		store:      store,
		outputRoot: outputRoot,
		logger:     logging.WithComponent(logger, "reconcile"),
	}
}

// Run enumerates the output tree fresh, never trusting any cached state, and
// returns the original paths whose destinations no longer exist, sorted.
// When at least one deletion is inferred the list is also persisted for the
// cleaner; an empty result writes nothing.
func (r *Reconciler) Run() ([]string, error) {
	mapping := r.store.LoadMapping()
	if len(mapping) == 0 {
		r.logger.Warn("nothing to reconcile, mapping is empty or absent")
		return nil, nil
	}

	if _, err := os.Stat(r.outputRoot); err != nil {
		r.logger.Warn("output tree is not accessible",
			logging.String("path", r.outputRoot),
			logging.Error(err))
		return nil, nil
	}

	existing := r.enumerateOutput()

	var doomed []string
	for original, destination := range mapping {
		if _, ok := existing[normalizePath(destination)]; !ok {
			doomed = append(doomed, original)
		}
	}
	sort.Strings(doomed)

	if len(doomed) == 0 {
		r.logger.Info("output tree matches the mapping, nothing to delete")
		return nil, nil
	}

	if err := r.store.SaveDeletionList(doomed); err != nil {
		return nil, err
	}
	r.logger.Info("deletion list written",
		logging.String("path", r.store.DeleteListPath()),
		logging.Int("files", len(doomed)))
	return doomed, nil
}

// enumerateOutput walks the output tree and collects every regular file as a
// normalized absolute path. Unreadable subtrees log and are skipped.
func (r *Reconciler) enumerateOutput() map[string]struct{} {
	existing := make(map[string]struct{})
	err := filepath.WalkDir(r.outputRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			r.logger.Warn("skipping unreadable output entry", logging.String("path", path), logging.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			existing[normalizePath(path)] = struct{}{}
		}
		return nil
	})
	if err != nil {
		r.logger.Warn("output enumeration incomplete", logging.Error(err))
	}
	return existing
}

// normalizePath resolves a path to cleaned absolute form so that mapping
// entries and walked paths compare reliably.
func normalizePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

package scanner

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"photosift/internal/cluster"
	"photosift/internal/fingerprint"
	"photosift/internal/logging"
	"photosift/internal/services"
)

// Scanner finds and fingerprints image files under a root directory.
type Scanner struct {
	extensions map[string]struct{}
	workers    int
	progress   bool
	logger     *slog.Logger
}

// New constructs a scanner. extensions is a lookup set of lowercase
// extensions including the leading dot; progress enables a terminal
// progress bar during hashing.
func New(extensions map[string]struct{}, workers int, progress bool, logger *slog.Logger) *Scanner {
	if workers < 1 {
		workers = 1
	}
	return &Scanner{
		extensions: extensions,
		workers:    workers,
		progress:   progress,
		logger:     logging.WithComponent(logger, "scanner"),
	}
}

// FindImageFiles walks root recursively and returns every regular file with
// a configured image extension, in traversal order. A missing or
// non-directory root is an error; unreadable subtrees are logged and
// skipped.
func (s *Scanner) FindImageFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "scan", "locate input", "Input directory does not exist: "+root, nil)
		}
		return nil, services.Wrap(services.ErrIO, "scan", "inspect input", "Cannot inspect input directory", err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "scan", "locate input", "Input path is not a directory: "+root, nil)
	}

	var files []string
	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("skipping unreadable path", logging.String("path", path), logging.Error(err))
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := s.extensions[ext]; ok {
			files = append(files, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, services.Wrap(services.ErrIO, "scan", "walk input", "Directory walk failed", walkErr)
	}
	return files, nil
}

// Process fingerprints the given files on the worker pool and returns the
// successfully hashed items in input order. Decode failures are logged per
// file and skipped.
func (s *Scanner) Process(ctx context.Context, files []string) ([]cluster.Item, error) {
	if len(files) == 0 {
		return nil, nil
	}

	var bar *progressbar.ProgressBar
	if s.progress {
		bar = progressbar.Default(int64(len(files)), "hashing images")
	}

	results := make([]cluster.Item, len(files))
	ok := make([]bool, len(files))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.workers)
	for i, path := range files {
		i, path := i, path
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			hash, err := fingerprint.HashFile(path)
			if bar != nil {
				_ = bar.Add(1)
			}
			if err != nil {
				s.logger.Warn("cannot fingerprint image", logging.String("path", path), logging.Error(err))
				return nil
			}
			results[i] = cluster.Item{ID: path, Fingerprint: hash}
			ok[i] = true
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if bar != nil {
		_ = bar.Finish()
	}

	items := make([]cluster.Item, 0, len(files))
	for i := range results {
		if ok[i] {
			items = append(items, results[i])
		}
	}
	s.logger.Info("hashing finished",
		logging.Int("files", len(files)),
		logging.Int("hashed", len(items)),
		logging.Int("skipped", len(files)-len(items)))
	return items, nil
}

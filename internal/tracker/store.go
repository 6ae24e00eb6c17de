package tracker

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"photosift/internal/logging"
)

// Store persists the mapping and the deletion list under the data
// directory.
type Store struct {
	mappingPath    string
	deleteListPath string
	logger         *slog.Logger
}

// NewStore constructs a store over the given file locations.
func NewStore(mappingPath, deleteListPath string, logger *slog.Logger) *Store {
	return &Store{
		mappingPath:    mappingPath,
		deleteListPath: deleteListPath,
		logger:         logging.WithComponent(logger, "tracker"),
	}
}

// MappingPath returns the mapping file location.
func (s *Store) MappingPath() string { return s.mappingPath }

// DeleteListPath returns the deletion list location.
func (s *Store) DeleteListPath() string { return s.deleteListPath }

// SaveMapping writes the mapping as one indented JSON object, fully
// replacing any previous mapping. Parent directories are created as needed.
func (s *Store) SaveMapping(mapping map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.mappingPath), 0o755); err != nil {
		return fmt.Errorf("create mapping directory: %w", err)
	}
	data, err := json.MarshalIndent(mapping, "", "  ")
	if err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}
	if err := os.WriteFile(s.mappingPath, data, 0o644); err != nil {
		return fmt.Errorf("write mapping %s: %w", s.mappingPath, err)
	}
	s.logger.Info("mapping saved",
		logging.String("path", s.mappingPath),
		logging.Int("entries", len(mapping)))
	return nil
}

// LoadMapping reads the persisted mapping. A missing, unreadable, or
// malformed file is reported as a warning and loads as "no mapping"; the
// caller simply cannot reconcile productively.
func (s *Store) LoadMapping() map[string]string {
	data, err := os.ReadFile(s.mappingPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("no mapping found", logging.String("path", s.mappingPath))
		} else {
			s.logger.Warn("cannot read mapping", logging.String("path", s.mappingPath), logging.Error(err))
		}
		return nil
	}
	var mapping map[string]string
	if err := json.Unmarshal(data, &mapping); err != nil {
		s.logger.Warn("mapping is malformed, treating as absent",
			logging.String("path", s.mappingPath),
			logging.Error(err))
		return nil
	}
	return mapping
}

// SaveDeletionList writes the paths newline-delimited, replacing any
// previous list.
func (s *Store) SaveDeletionList(paths []string) error {
	if err := os.MkdirAll(filepath.Dir(s.deleteListPath), 0o755); err != nil {
		return fmt.Errorf("create deletion list directory: %w", err)
	}
	var b strings.Builder
	for _, path := range paths {
		b.WriteString(path)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(s.deleteListPath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write deletion list %s: %w", s.deleteListPath, err)
	}
	return nil
}

// LoadDeletionList reads the persisted deletion list, skipping blank
// lines. A missing file loads as an empty list with a warning.
func (s *Store) LoadDeletionList() []string {
	file, err := os.Open(s.deleteListPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("no deletion list found", logging.String("path", s.deleteListPath))
		} else {
			s.logger.Warn("cannot read deletion list", logging.String("path", s.deleteListPath), logging.Error(err))
		}
		return nil
	}
	defer file.Close()

	var paths []string
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			paths = append(paths, line)
		}
	}
	if err := sc.Err(); err != nil {
		s.logger.Warn("deletion list truncated while reading", logging.Error(err))
	}
	return paths
}

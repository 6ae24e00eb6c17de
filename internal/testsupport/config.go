package testsupport

import (
	"path/filepath"
	"testing"

	"photosift/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.InputDir = filepath.Join(base, "input")
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Scan.Workers = 2

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithThreshold overrides the similarity threshold on the test config.
func WithThreshold(threshold int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Cluster.Threshold = threshold
	}
}

// WithMaxGroupSize overrides the group size cap on the test config.
func WithMaxGroupSize(limit int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Cluster.MaxGroupSize = limit
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.InputDir)
}

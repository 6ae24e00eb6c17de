package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Error("exists = true for missing file")
	}
	if cfg.Cluster.Threshold != defaultThreshold {
		t.Errorf("threshold = %d, want default %d", cfg.Cluster.Threshold, defaultThreshold)
	}
	if cfg.Cluster.MaxGroupSize != defaultMaxGroupSize {
		t.Errorf("max group size = %d, want default %d", cfg.Cluster.MaxGroupSize, defaultMaxGroupSize)
	}
	if cfg.Scan.Workers != runtime.GOMAXPROCS(0) {
		t.Errorf("workers = %d, want GOMAXPROCS", cfg.Scan.Workers)
	}
	if !filepath.IsAbs(cfg.Paths.OutputDir) {
		t.Errorf("output dir not absolute: %s", cfg.Paths.OutputDir)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
input_dir = "` + filepath.Join(dir, "in") + `"
output_dir = "` + filepath.Join(dir, "out") + `"
data_dir = "` + filepath.Join(dir, "data") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[scan]
extensions = [".JPG", "png", " "]
workers = 3

[cluster]
threshold = 7
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Errorf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Cluster.Threshold != 7 {
		t.Errorf("threshold = %d, want 7", cfg.Cluster.Threshold)
	}
	if got := cfg.Scan.Extensions; len(got) != 2 || got[0] != "jpg" || got[1] != "png" {
		t.Errorf("extensions = %v, want [jpg png]", got)
	}
	if cfg.Scan.Workers != 3 {
		t.Errorf("workers = %d, want 3", cfg.Scan.Workers)
	}
}

func TestValidateRejectsNestedOutput(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Paths.InputDir = filepath.Join(dir, "photos")
	cfg.Paths.OutputDir = filepath.Join(dir, "photos", "groups")
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Scan.Workers = 1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for output inside input")
	}
	if !strings.Contains(err.Error(), "output_dir") {
		t.Errorf("error does not mention output_dir: %v", err)
	}
}

func TestValidateRejectsBadThreshold(t *testing.T) {
	tests := []struct {
		name      string
		threshold int
	}{
		{"negative", -1},
		{"over hash size", 65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			cfg := Default()
			cfg.Paths.InputDir = filepath.Join(dir, "in")
			cfg.Paths.OutputDir = filepath.Join(dir, "out")
			cfg.Paths.DataDir = filepath.Join(dir, "data")
			cfg.Paths.LogDir = filepath.Join(dir, "logs")
			cfg.Cluster.Threshold = tt.threshold
			if err := cfg.Validate(); err == nil {
				t.Errorf("threshold %d passed validation", tt.threshold)
			}
		})
	}
}

func TestExtensionSet(t *testing.T) {
	cfg := Default()
	cfg.Scan.Extensions = []string{"jpg", "PNG"}
	set := cfg.ExtensionSet()
	for _, want := range []string{".jpg", ".png"} {
		if _, ok := set[want]; !ok {
			t.Errorf("extension set missing %s (set: %v)", want, set)
		}
	}
	if len(set) != 2 {
		t.Errorf("extension set size = %d, want 2", len(set))
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[cluster]") {
		t.Error("sample config missing [cluster] section")
	}
}

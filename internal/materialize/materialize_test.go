package materialize

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"photosift/internal/cluster"
	"photosift/internal/logging"
	"photosift/internal/testsupport"
)

func TestRunMaterializesGroups(t *testing.T) {
	base := t.TempDir()
	a := filepath.Join(base, "src", "a.jpg")
	b := filepath.Join(base, "src", "b.jpg")
	c := filepath.Join(base, "src", "deep", "c.jpg")
	for _, path := range []string{a, b, c} {
		testsupport.WriteFile(t, path, 128)
	}

	outputRoot := filepath.Join(base, "out")
	m := New(outputRoot, 2, false, logging.NewNop())

	mapping, summary, err := m.Run(context.Background(), []cluster.Group{{a, b}, {c}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Copied != 3 || summary.Missing != 0 || summary.Failed != 0 {
		t.Errorf("summary = %+v, want 3 copies", summary)
	}
	if len(mapping) != 3 {
		t.Fatalf("mapping has %d entries, want 3", len(mapping))
	}

	for _, source := range []string{a, b} {
		dest := mapping[source]
		if filepath.Dir(dest) != filepath.Join(outputRoot, "1") {
			t.Errorf("destination for %s = %s, want inside group 1", source, dest)
		}
		if _, err := os.Stat(dest); err != nil {
			t.Errorf("destination missing: %v", err)
		}
	}
	if dest := mapping[c]; filepath.Dir(dest) != filepath.Join(outputRoot, "2") {
		t.Errorf("destination for %s = %s, want inside group 2", c, dest)
	}
}

func TestRunResolvesNameCollisions(t *testing.T) {
	base := t.TempDir()
	// Encoded full paths only collide after the base-name fallback kicks
	// in, so both sources sit under directories long enough to exceed the
	// safe-name cap.
	longA := strings.Repeat("aa/", 80)
	longB := strings.Repeat("bb/", 80)
	deep := filepath.Join(base, filepath.FromSlash(longA), "photo.jpg")
	deeper := filepath.Join(base, filepath.FromSlash(longB), "photo.jpg")
	testsupport.WriteFile(t, deep, 64)
	testsupport.WriteFile(t, deeper, 64)

	outputRoot := filepath.Join(base, "out")
	m := New(outputRoot, 1, false, logging.NewNop())

	// Pre-reserve through the planner directly to assert suffix layout.
	reserved := map[string]struct{}{}
	first := reserveName(reserved, "photo.jpg")
	second := reserveName(reserved, "photo.jpg")
	third := reserveName(reserved, "photo.jpg")
	if first != "photo.jpg" || second != "photo_1.jpg" || third != "photo_2.jpg" {
		t.Errorf("reserveName sequence = %s, %s, %s", first, second, third)
	}

	mapping, summary, err := m.Run(context.Background(), []cluster.Group{{deep, deeper}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Copied != 2 {
		t.Fatalf("summary = %+v, want 2 copies", summary)
	}
	if mapping[deep] == mapping[deeper] {
		t.Errorf("collision not resolved: both map to %s", mapping[deep])
	}
	names := map[string]bool{
		filepath.Base(mapping[deep]):   true,
		filepath.Base(mapping[deeper]): true,
	}
	if !names["photo.jpg"] || !names["photo_1.jpg"] {
		t.Errorf("destination names = %v, want photo.jpg and photo_1.jpg", names)
	}
}

func TestRunSkipsMissingSources(t *testing.T) {
	base := t.TempDir()
	present := filepath.Join(base, "src", "present.jpg")
	ghost := filepath.Join(base, "src", "ghost.jpg")
	other := filepath.Join(base, "src", "other.jpg")
	testsupport.WriteFile(t, present, 64)
	testsupport.WriteFile(t, other, 64)

	m := New(filepath.Join(base, "out"), 2, false, logging.NewNop())
	mapping, summary, err := m.Run(context.Background(), []cluster.Group{{present, ghost, other}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Copied != 2 || summary.Missing != 1 {
		t.Errorf("summary = %+v, want 2 copied 1 missing", summary)
	}
	if _, ok := mapping[ghost]; ok {
		t.Error("missing source must not appear in mapping")
	}
}

func TestRunRecreatesOutputRoot(t *testing.T) {
	base := t.TempDir()
	source := filepath.Join(base, "src", "a.jpg")
	testsupport.WriteFile(t, source, 64)

	outputRoot := filepath.Join(base, "out")
	stale := filepath.Join(outputRoot, "99", "stale.jpg")
	testsupport.WriteFile(t, stale, 64)

	m := New(outputRoot, 1, false, logging.NewNop())
	if _, _, err := m.Run(context.Background(), []cluster.Group{{source}}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("previous run's output survived the rebuild")
	}
	if _, err := os.Stat(filepath.Join(outputRoot, "1")); err != nil {
		t.Errorf("group directory missing: %v", err)
	}
}

func TestRunEmptyGroups(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), "out"), 1, false, logging.NewNop())
	mapping, summary, err := m.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(mapping) != 0 || summary.Copied != 0 {
		t.Errorf("expected empty result, got mapping %v summary %+v", mapping, summary)
	}
}

func TestRunVerifiedCopies(t *testing.T) {
	base := t.TempDir()
	source := filepath.Join(base, "src", "a.jpg")
	testsupport.WriteFile(t, source, 4096)

	m := New(filepath.Join(base, "out"), 1, true, logging.NewNop())
	mapping, summary, err := m.Run(context.Background(), []cluster.Group{{source}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Copied != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	info, err := os.Stat(mapping[source])
	if err != nil {
		t.Fatalf("stat destination: %v", err)
	}
	if info.Size() != 4096 {
		t.Errorf("destination size = %d, want 4096", info.Size())
	}
}

package tracker

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"photosift/internal/logging"
	"photosift/internal/testsupport"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	base := t.TempDir()
	store := NewStore(
		filepath.Join(base, "data", "mapping.json"),
		filepath.Join(base, "data", "to-delete.txt"),
		logging.NewNop(),
	)
	return store, base
}

func TestMappingRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)

	mapping := map[string]string{
		"/photos/a.jpg": "/out/1/photos_a.jpg",
		"/photos/b.jpg": "/out/1/photos_b.jpg",
	}
	if err := store.SaveMapping(mapping); err != nil {
		t.Fatalf("SaveMapping: %v", err)
	}
	loaded := store.LoadMapping()
	if !reflect.DeepEqual(loaded, mapping) {
		t.Errorf("loaded mapping = %v, want %v", loaded, mapping)
	}
}

func TestMappingOverwritesPreviousRun(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.SaveMapping(map[string]string{"/old.jpg": "/out/1/old.jpg"}); err != nil {
		t.Fatalf("SaveMapping: %v", err)
	}
	fresh := map[string]string{"/new.jpg": "/out/1/new.jpg"}
	if err := store.SaveMapping(fresh); err != nil {
		t.Fatalf("SaveMapping: %v", err)
	}
	loaded := store.LoadMapping()
	if !reflect.DeepEqual(loaded, fresh) {
		t.Errorf("loaded mapping = %v, want only the fresh entries", loaded)
	}
}

func TestLoadMappingMissingFile(t *testing.T) {
	store, _ := newTestStore(t)
	if loaded := store.LoadMapping(); loaded != nil {
		t.Errorf("missing mapping loaded as %v, want nil", loaded)
	}
}

func TestLoadMappingMalformed(t *testing.T) {
	store, _ := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(store.MappingPath()), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(store.MappingPath(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if loaded := store.LoadMapping(); loaded != nil {
		t.Errorf("malformed mapping loaded as %v, want nil", loaded)
	}
}

func TestDeletionListRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)

	paths := []string{"/photos/a.jpg", "/photos/b.jpg"}
	if err := store.SaveDeletionList(paths); err != nil {
		t.Fatalf("SaveDeletionList: %v", err)
	}
	if loaded := store.LoadDeletionList(); !reflect.DeepEqual(loaded, paths) {
		t.Errorf("loaded list = %v, want %v", loaded, paths)
	}
}

func TestReconcileFindsRemovedDestinations(t *testing.T) {
	store, base := newTestStore(t)
	outputRoot := filepath.Join(base, "out")

	destA := filepath.Join(outputRoot, "1", "a.jpg")
	destB := filepath.Join(outputRoot, "1", "b.jpg")
	testsupport.WriteFile(t, destA, 32)
	testsupport.WriteFile(t, destB, 32)

	origA := filepath.Join(base, "photos", "a.jpg")
	origB := filepath.Join(base, "photos", "b.jpg")
	if err := store.SaveMapping(map[string]string{origA: destA, origB: destB}); err != nil {
		t.Fatalf("SaveMapping: %v", err)
	}

	// The user keeps b and removes a.
	if err := os.Remove(destA); err != nil {
		t.Fatal(err)
	}

	r := NewReconciler(store, outputRoot, logging.NewNop())
	doomed, err := r.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(doomed, []string{origA}) {
		t.Errorf("doomed = %v, want [%s]", doomed, origA)
	}
	if loaded := store.LoadDeletionList(); !reflect.DeepEqual(loaded, []string{origA}) {
		t.Errorf("persisted list = %v, want [%s]", loaded, origA)
	}
}

func TestReconcileNothingRemoved(t *testing.T) {
	store, base := newTestStore(t)
	outputRoot := filepath.Join(base, "out")

	dest := filepath.Join(outputRoot, "1", "a.jpg")
	testsupport.WriteFile(t, dest, 32)
	orig := filepath.Join(base, "photos", "a.jpg")
	if err := store.SaveMapping(map[string]string{orig: dest}); err != nil {
		t.Fatalf("SaveMapping: %v", err)
	}

	r := NewReconciler(store, outputRoot, logging.NewNop())
	doomed, err := r.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if doomed != nil {
		t.Errorf("doomed = %v, want nil", doomed)
	}
	if _, err := os.Stat(store.DeleteListPath()); !os.IsNotExist(err) {
		t.Error("no deletion list file should be written when nothing was removed")
	}
}

func TestReconcileWithoutMapping(t *testing.T) {
	store, base := newTestStore(t)
	r := NewReconciler(store, filepath.Join(base, "out"), logging.NewNop())
	doomed, err := r.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if doomed != nil {
		t.Errorf("doomed = %v, want nil without a mapping", doomed)
	}
}

func TestReconcileMissingOutputTree(t *testing.T) {
	store, base := newTestStore(t)
	orig := filepath.Join(base, "photos", "a.jpg")
	if err := store.SaveMapping(map[string]string{orig: filepath.Join(base, "out", "1", "a.jpg")}); err != nil {
		t.Fatalf("SaveMapping: %v", err)
	}

	r := NewReconciler(store, filepath.Join(base, "out"), logging.NewNop())
	doomed, err := r.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if doomed != nil {
		t.Errorf("a vanished output tree must not schedule deletions, got %v", doomed)
	}
}

func TestReconcileOutputSortsResults(t *testing.T) {
	store, base := newTestStore(t)
	outputRoot := filepath.Join(base, "out")
	testsupport.WriteFile(t, filepath.Join(outputRoot, "keep.jpg"), 16)

	mapping := map[string]string{
		filepath.Join(base, "z.jpg"): filepath.Join(outputRoot, "gone-z.jpg"),
		filepath.Join(base, "a.jpg"): filepath.Join(outputRoot, "gone-a.jpg"),
		filepath.Join(base, "m.jpg"): filepath.Join(outputRoot, "gone-m.jpg"),
	}
	if err := store.SaveMapping(mapping); err != nil {
		t.Fatalf("SaveMapping: %v", err)
	}

	r := NewReconciler(store, outputRoot, logging.NewNop())
	doomed, err := r.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{
		filepath.Join(base, "a.jpg"),
		filepath.Join(base, "m.jpg"),
		filepath.Join(base, "z.jpg"),
	}
	if !reflect.DeepEqual(doomed, want) {
		t.Errorf("doomed = %v, want sorted %v", doomed, want)
	}
}

func TestCleanerDeletesListedFiles(t *testing.T) {
	store, base := newTestStore(t)

	victim := filepath.Join(base, "photos", "victim.jpg")
	gone := filepath.Join(base, "photos", "gone.jpg")
	testsupport.WriteFile(t, victim, 2048)
	if err := store.SaveDeletionList([]string{victim, gone}); err != nil {
		t.Fatalf("SaveDeletionList: %v", err)
	}

	c := NewCleaner(store, logging.NewNop())
	summary := c.Run(false)
	if summary.Deleted != 1 || summary.Skipped != 1 || summary.Failed != 0 {
		t.Errorf("summary = %+v, want 1 deleted 1 skipped", summary)
	}
	if summary.BytesReclaimed != 2048 {
		t.Errorf("bytes reclaimed = %d, want 2048", summary.BytesReclaimed)
	}
	if _, err := os.Stat(victim); !os.IsNotExist(err) {
		t.Error("listed file survived the clean")
	}
}

func TestCleanerDryRunTouchesNothing(t *testing.T) {
	store, base := newTestStore(t)

	victim := filepath.Join(base, "photos", "victim.jpg")
	testsupport.WriteFile(t, victim, 512)
	if err := store.SaveDeletionList([]string{victim}); err != nil {
		t.Fatalf("SaveDeletionList: %v", err)
	}

	c := NewCleaner(store, logging.NewNop())
	summary := c.Run(true)
	if summary.Deleted != 1 || summary.BytesReclaimed != 512 {
		t.Errorf("summary = %+v, want the would-be deletion counted", summary)
	}
	if _, err := os.Stat(victim); err != nil {
		t.Errorf("dry run removed the file: %v", err)
	}
}

func TestCleanerWithoutList(t *testing.T) {
	store, _ := newTestStore(t)
	c := NewCleaner(store, logging.NewNop())
	summary := c.Run(false)
	if summary != (CleanSummary{}) {
		t.Errorf("summary = %+v, want all zero without a list", summary)
	}
}

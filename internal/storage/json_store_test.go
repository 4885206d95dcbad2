package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/eternalglow/internal/models"
)

func TestJSONStoreInitAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	store := NewJSONStore(path)

	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("state file not created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("state file mode = %v, want 0600", info.Mode().Perm())
	}

	if err := NewJSONStore(path).Init(); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("second Init() = %v, want ErrAlreadyInitialized", err)
	}

	reopened := NewJSONStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	state, err := reopened.LoadState()
	if err != nil {
		t.Fatalf("LoadState() failed: %v", err)
	}
	if len(state.Tasks) != len(models.SeedTasks()) {
		t.Errorf("fresh store should hold seed tasks, got %d", len(state.Tasks))
	}
}

func TestJSONStoreLoadUninitialized(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))
	if err := store.Load(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Load() = %v, want ErrNotInitialized", err)
	}
	if _, err := store.LoadState(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("LoadState() before Load = %v, want ErrNotLoaded", err)
	}
	if err := store.SaveState(models.DefaultState()); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("SaveState() before Load = %v, want ErrNotLoaded", err)
	}
}

func TestJSONStoreSaveState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	state := models.DefaultState()
	state.Partner1Name = "Ana"
	state.Partner2Name = "Ben"
	state.Tasks = nil

	if err := store.SaveState(state); err != nil {
		t.Fatalf("SaveState() failed: %v", err)
	}

	got, err := store.LoadState()
	if err != nil {
		t.Fatalf("LoadState() failed: %v", err)
	}
	if got.Partner1Name != "Ana" || got.Partner2Name != "Ben" {
		t.Errorf("names not persisted: %q %q", got.Partner1Name, got.Partner2Name)
	}

	// No temp files left behind
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected only the state file, found %d entries", len(entries))
	}
	if store.GetConfigPath() != path {
		t.Errorf("GetConfigPath() = %q", store.GetConfigPath())
	}
}

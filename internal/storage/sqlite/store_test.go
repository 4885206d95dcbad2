package sqlite

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/julianstephens/eternalglow/internal/models"
	"github.com/julianstephens/eternalglow/internal/storage"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInitSeedsDefaultState(t *testing.T) {
	store := setupStore(t)

	state, err := store.LoadState()
	if err != nil {
		t.Fatalf("LoadState() failed: %v", err)
	}
	if len(state.Tasks) != len(models.SeedTasks()) {
		t.Errorf("expected seed tasks, got %d", len(state.Tasks))
	}
	if state.Language != "en" {
		t.Errorf("Language = %q, want en", state.Language)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	state := models.DefaultState()
	state.Partner1Name = "Ana"
	if err := store.SaveState(state); err != nil {
		t.Fatalf("SaveState() failed: %v", err)
	}
	store.Close()

	again := NewStore(path)
	if err := again.Init(); err != nil {
		t.Fatalf("second Init() failed: %v", err)
	}
	defer again.Close()

	got, err := again.LoadState()
	if err != nil {
		t.Fatalf("LoadState() failed: %v", err)
	}
	if got.Partner1Name != "Ana" {
		t.Error("re-running Init should not reset existing state")
	}
}

func TestSaveAndReloadState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	state := models.DefaultState()
	state.WeddingDate = models.StringPtr("2026-09-12")
	state.IsTrialActive = true
	state.TrialStartDate = models.StringPtr("2026-01-01T10:00:00Z")
	for i := 0; i < 3; i++ {
		if err := store.SaveState(state); err != nil {
			t.Fatalf("SaveState() #%d failed: %v", i, err)
		}
	}
	store.Close()

	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.LoadState()
	if err != nil {
		t.Fatalf("LoadState() failed: %v", err)
	}
	if models.Deref(got.WeddingDate) != "2026-09-12" || !got.IsTrialActive {
		t.Errorf("state not persisted: %+v", got)
	}

	var rows int
	if err := reopened.GetDB().QueryRow("SELECT COUNT(*) FROM app_state").Scan(&rows); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if rows != 1 {
		t.Errorf("expected a single state row, got %d", rows)
	}
}

func TestLoadUninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("Load() = %v, want ErrNotInitialized", err)
	}
	if _, err := store.LoadState(); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("LoadState() = %v, want ErrNotLoaded", err)
	}
}

func TestLoadStateRejectsNewerEnvelope(t *testing.T) {
	store := setupStore(t)
	if _, err := store.GetDB().Exec(`UPDATE app_state SET data = '{"version":42,"state":{}}'`); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if _, err := store.LoadState(); !errors.Is(err, storage.ErrUnsupportedVersion) {
		t.Errorf("LoadState() = %v, want ErrUnsupportedVersion", err)
	}
}

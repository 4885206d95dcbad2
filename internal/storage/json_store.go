package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/julianstephens/eternalglow/internal/models"
)

// JSONStore keeps the envelope in a single file on disk.
type JSONStore struct {
	path   string
	mu     sync.Mutex
	loaded bool
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("%w at %s", ErrAlreadyInitialized, s.path)
	}

	s.loaded = true
	return s.SaveState(models.DefaultState())
}

func (s *JSONStore) Load() error {
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}
	s.loaded = true
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) LoadState() (models.State, error) {
	if !s.loaded {
		return models.State{}, ErrNotLoaded
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.DefaultState(), nil
		}
		return models.State{}, fmt.Errorf("failed to read storage: %w", err)
	}
	return DecodeState(data)
}

// SaveState replaces the file through a rename so readers never see a
// partially written blob.
func (s *JSONStore) SaveState(state models.State) error {
	if !s.loaded {
		return ErrNotLoaded
	}

	data, err := EncodeState(state)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

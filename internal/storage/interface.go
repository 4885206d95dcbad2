// Package storage persists the application state as a single versioned blob.
//
// Every backend stores the same JSON envelope under constants.StorageKey, so
// a state file can move between the JSON, SQLite and Postgres providers
// without conversion.
package storage

import (
	"errors"

	"github.com/julianstephens/eternalglow/internal/models"
)

var (
	ErrNotInitialized     = errors.New("storage not initialized, run 'eternalglow init' first")
	ErrAlreadyInitialized = errors.New("storage already initialized")
	ErrUnsupportedVersion = errors.New("unsupported state version")
	ErrNotLoaded          = errors.New("storage not loaded")
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// State blob. LoadState returns models.DefaultState when nothing has
	// been written yet.
	LoadState() (models.State, error)
	SaveState(models.State) error

	// Utils
	GetConfigPath() string
}

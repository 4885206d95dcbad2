package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/eternalglow/internal/constants"
	"github.com/julianstephens/eternalglow/internal/models"
)

// Envelope is the persisted wrapper around the state blob.
type Envelope struct {
	Version int             `json:"version"`
	State   json.RawMessage `json:"state"`
}

// EncodeState wraps s in an envelope at the current version.
func EncodeState(s models.State) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize state: %w", err)
	}
	data, err := json.MarshalIndent(Envelope{Version: constants.StateVersion, State: raw}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize state envelope: %w", err)
	}
	return data, nil
}

// DecodeState unwraps an envelope. Fields absent from the blob keep their
// DefaultState values; a saved task list replaces the seed list outright. An envelope without a version is read as version 1.
func DecodeState(data []byte) (models.State, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return models.State{}, fmt.Errorf("failed to parse state envelope: %w", err)
	}
	if env.Version > constants.StateVersion {
		return models.State{}, fmt.Errorf("%w: stored version %d, supported %d", ErrUnsupportedVersion, env.Version, constants.StateVersion)
	}

	state := models.DefaultState()
	raw := bytes.TrimSpace(env.State)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return state, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return models.State{}, fmt.Errorf("failed to parse state: %w", err)
	}
	_, hasTasks := fields["tasks"]

	// Decoding into the seeded slice would merge saved tasks into the seeds.
	state.Tasks = nil
	if err := json.Unmarshal(raw, &state); err != nil {
		return models.State{}, fmt.Errorf("failed to parse state: %w", err)
	}
	if !hasTasks {
		state.Tasks = models.SeedTasks()
	} else if state.Tasks == nil {
		state.Tasks = []models.Task{}
	}
	return state, nil
}

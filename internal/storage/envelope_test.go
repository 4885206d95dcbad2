package storage

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/julianstephens/eternalglow/internal/constants"
	"github.com/julianstephens/eternalglow/internal/models"
)

func TestEncodeStateWrapsEnvelope(t *testing.T) {
	state := models.DefaultState()
	state.Partner1Name = "Ana"

	data, err := EncodeState(state)
	if err != nil {
		t.Fatalf("EncodeState() failed: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("envelope is not valid JSON: %v", err)
	}
	if string(raw["version"]) != "1" {
		t.Errorf("version = %s, want 1", raw["version"])
	}

	var inner map[string]any
	if err := json.Unmarshal(raw["state"], &inner); err != nil {
		t.Fatalf("state is not an object: %v", err)
	}
	if inner["partner1Name"] != "Ana" {
		t.Errorf("partner1Name = %v, want Ana", inner["partner1Name"])
	}
}

func TestDecodeStateRoundTrip(t *testing.T) {
	state := models.DefaultState()
	state.WeddingDate = models.StringPtr("2026-06-20")
	state.IsPremium = true
	state.Tasks = append(state.Tasks, models.Task{ID: "x", Title: "Cake", Completed: true})

	data, err := EncodeState(state)
	if err != nil {
		t.Fatalf("EncodeState() failed: %v", err)
	}
	got, err := DecodeState(data)
	if err != nil {
		t.Fatalf("DecodeState() failed: %v", err)
	}

	if models.Deref(got.WeddingDate) != "2026-06-20" || !got.IsPremium {
		t.Errorf("decoded state lost fields: %+v", got)
	}
	if len(got.Tasks) != len(state.Tasks) || got.Tasks[len(got.Tasks)-1].Title != "Cake" {
		t.Errorf("decoded tasks = %+v", got.Tasks)
	}
}

func TestDecodeStateMissingFieldsUseDefaults(t *testing.T) {
	got, err := DecodeState([]byte(`{"version":1,"state":{"partner2Name":"Ben"}}`))
	if err != nil {
		t.Fatalf("DecodeState() failed: %v", err)
	}
	if got.Partner2Name != "Ben" {
		t.Errorf("Partner2Name = %q", got.Partner2Name)
	}
	if !got.DailySentenceEnabled || got.CountdownPosition != constants.DefaultCountdownPosition {
		t.Errorf("defaults not applied: %+v", got.OnboardingFlags)
	}
	if got.Language != constants.DefaultLanguage {
		t.Errorf("Language = %q", got.Language)
	}
	if len(got.Tasks) != len(models.SeedTasks()) {
		t.Errorf("expected seed tasks when none stored, got %d", len(got.Tasks))
	}
}

func TestDecodeStateEmptyOrNullState(t *testing.T) {
	for _, in := range []string{`{"version":1}`, `{"version":1,"state":null}`, `{}`} {
		got, err := DecodeState([]byte(in))
		if err != nil {
			t.Fatalf("DecodeState(%s) failed: %v", in, err)
		}
		if got.Language != constants.DefaultLanguage {
			t.Errorf("DecodeState(%s) did not return defaults", in)
		}
	}
}

func TestDecodeStateRejectsNewerVersion(t *testing.T) {
	_, err := DecodeState([]byte(`{"version":99,"state":{}}`))
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("DecodeState() error = %v, want ErrUnsupportedVersion", err)
	}
}

func TestDecodeStateMalformed(t *testing.T) {
	if _, err := DecodeState([]byte(`not json`)); err == nil {
		t.Error("expected error for malformed envelope")
	}
	if _, err := DecodeState([]byte(`{"version":1,"state":"oops"}`)); err == nil {
		t.Error("expected error for non-object state")
	}
}

func TestDecodeStateSavedTasksReplaceSeeds(t *testing.T) {
	state := models.DefaultState()
	state.Tasks = state.Tasks[2:]

	data, err := EncodeState(state)
	if err != nil {
		t.Fatalf("EncodeState() failed: %v", err)
	}
	got, err := DecodeState(data)
	if err != nil {
		t.Fatalf("DecodeState() failed: %v", err)
	}

	if len(got.Tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(got.Tasks))
	}
	for i, task := range got.Tasks {
		if task.ID != state.Tasks[i].ID || task.Title != state.Tasks[i].Title {
			t.Errorf("task %d = %+v, want %+v", i, task, state.Tasks[i])
		}
		if task.IsPriority() {
			t.Errorf("task %q came back starred", task.Title)
		}
	}
}

func TestDecodeStateEmptyTaskList(t *testing.T) {
	for _, in := range []string{`{"version":1,"state":{"tasks":[]}}`, `{"version":1,"state":{"tasks":null}}`} {
		got, err := DecodeState([]byte(in))
		if err != nil {
			t.Fatalf("DecodeState(%s) failed: %v", in, err)
		}
		if got.Tasks == nil || len(got.Tasks) != 0 {
			t.Errorf("DecodeState(%s) tasks = %v, want empty list", in, got.Tasks)
		}
	}
}

package postgres

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/julianstephens/eternalglow/internal/constants"
	"github.com/julianstephens/eternalglow/internal/migration"
	"github.com/julianstephens/eternalglow/internal/models"
	"github.com/julianstephens/eternalglow/internal/storage"
)

const selectStateSQL = "SELECT data::text FROM app_state WHERE key = $1"

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sqlmock expectations: %v", err)
		}
		db.Close()
	})
	return &Store{connStr: "postgres://localhost/glow", db: db}, mock
}

func TestSaveStateUpserts(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO app_state (key, version, data, updated_at)")).
		WithArgs(constants.StorageKey, constants.StateVersion, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	state := models.DefaultState()
	state.Partner1Name = "Ana"
	if err := s.SaveState(state); err != nil {
		t.Fatalf("SaveState() failed: %v", err)
	}
}

func TestSaveStateExecError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO app_state")).
		WillReturnError(errors.New("connection reset"))

	if err := s.SaveState(models.DefaultState()); err == nil {
		t.Error("expected SaveState() to fail")
	}
}

func TestLoadStateRoundTrip(t *testing.T) {
	s, mock := newMockStore(t)

	saved := models.DefaultState()
	saved.Partner1Name = "Ana"
	saved.Tasks = saved.Tasks[2:]
	data, err := storage.EncodeState(saved)
	if err != nil {
		t.Fatalf("EncodeState() failed: %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta(selectStateSQL)).
		WithArgs(constants.StorageKey).
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(string(data)))

	got, err := s.LoadState()
	if err != nil {
		t.Fatalf("LoadState() failed: %v", err)
	}
	if got.Partner1Name != "Ana" {
		t.Errorf("Partner1Name = %q, want Ana", got.Partner1Name)
	}
	if len(got.Tasks) != 2 || got.Tasks[0].IsPriority() {
		t.Errorf("tasks = %+v, want the two unstarred saved tasks", got.Tasks)
	}
}

func TestLoadStateNoRowsReturnsDefaults(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectStateSQL)).
		WithArgs(constants.StorageKey).
		WillReturnRows(sqlmock.NewRows([]string{"data"}))

	got, err := s.LoadState()
	if err != nil {
		t.Fatalf("LoadState() failed: %v", err)
	}
	if got.Language != constants.DefaultLanguage || len(got.Tasks) != len(models.SeedTasks()) {
		t.Errorf("LoadState() = %+v, want defaults", got)
	}
}

func TestLoadStateRejectsNewerVersion(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectStateSQL)).
		WithArgs(constants.StorageKey).
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(`{"version":99,"state":{}}`))

	if _, err := s.LoadState(); !errors.Is(err, storage.ErrUnsupportedVersion) {
		t.Errorf("LoadState() error = %v, want ErrUnsupportedVersion", err)
	}
}

func TestStateAccessBeforeLoad(t *testing.T) {
	s := New("postgres://localhost/glow")
	if _, err := s.LoadState(); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("LoadState() error = %v, want ErrNotLoaded", err)
	}
	if err := s.SaveState(models.DefaultState()); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("SaveState() error = %v, want ErrNotLoaded", err)
	}
}

func expectSchemaVersion(mock sqlmock.Sqlmock, rows *sqlmock.Rows) {
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_version")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT version FROM schema_version")).
		WillReturnRows(rows)
}

func TestValidateSchemaVersion(t *testing.T) {
	t.Run("fresh database", func(t *testing.T) {
		s, mock := newMockStore(t)
		expectSchemaVersion(mock, sqlmock.NewRows([]string{"version"}))

		if err := s.validateSchemaVersion(); !errors.Is(err, storage.ErrNotInitialized) {
			t.Errorf("validateSchemaVersion() error = %v, want ErrNotInitialized", err)
		}
	})

	t.Run("current", func(t *testing.T) {
		s, mock := newMockStore(t)
		expectSchemaVersion(mock, sqlmock.NewRows([]string{"version"}).AddRow(1))
		expectSchemaVersion(mock, sqlmock.NewRows([]string{"version"}).AddRow(1))

		if err := s.validateSchemaVersion(); err != nil {
			t.Errorf("validateSchemaVersion() failed: %v", err)
		}
	})

	t.Run("newer than build", func(t *testing.T) {
		s, mock := newMockStore(t)
		expectSchemaVersion(mock, sqlmock.NewRows([]string{"version"}).AddRow(5))
		expectSchemaVersion(mock, sqlmock.NewRows([]string{"version"}).AddRow(5))

		if err := s.validateSchemaVersion(); !errors.Is(err, migration.ErrSchemaTooNew) {
			t.Errorf("validateSchemaVersion() error = %v, want ErrSchemaTooNew", err)
		}
	})
}

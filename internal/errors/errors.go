// Package errors prints command failures for the terminal, adding a next
// step for the failures a couple can fix themselves.
package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/eternalglow/internal/logger"
	"github.com/julianstephens/eternalglow/internal/migration"
	"github.com/julianstephens/eternalglow/internal/state"
	"github.com/julianstephens/eternalglow/internal/storage"
	"github.com/julianstephens/eternalglow/internal/storage/postgres"
)

var hints = []struct {
	err  error
	hint string
}{
	{postgres.ErrEmbeddedCredentials, "save the connection string with 'eternalglow key set database' or use ~/.pgpass"},
	{postgres.ErrInvalidConnectionString, "use postgres://user@host/db or a key=value DSN"},
	{migration.ErrSchemaTooNew, "this database was written by a newer eternalglow; upgrade to open it"},
	{storage.ErrUnsupportedVersion, "this state was saved by a newer eternalglow; upgrade to open it"},
	{state.ErrTrialAlreadyStarted, "turn on premium with 'eternalglow premium on'"},
}

// Hint returns the suggested next step for err, or "".
func Hint(err error) string {
	for _, h := range hints {
		if errors.Is(err, h.err) {
			return h.hint
		}
	}
	return ""
}

// Format renders err with an "Error: " prefix and, when known, a hint line.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\nHint: " + hint
	}
	return msg
}

// Fatal logs err and exits with status 1. A nil err is ignored.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(1)
}

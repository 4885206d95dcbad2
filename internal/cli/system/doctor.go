package system

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/julianstephens/eternalglow/internal/cli"
	"github.com/julianstephens/eternalglow/internal/keyring"
	"github.com/julianstephens/eternalglow/internal/migration"
	"github.com/julianstephens/eternalglow/internal/models"
	"github.com/julianstephens/eternalglow/internal/storage/migrations"
	"github.com/julianstephens/eternalglow/internal/storage/sqlite"
	"github.com/julianstephens/eternalglow/internal/utils"
)

type DoctorCmd struct{}

type check struct {
	name     string
	run      func(*cli.Context) error
	needsDB  bool
	optional bool
}

var checks = []check{
	{name: "Store reachable", run: checkStoreReachable},
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "State integrity", run: checkStateIntegrity, needsDB: true},
	{name: "Config", run: checkConfig},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Share cache", run: checkShareCache, optional: true},
	{name: "OS keyring", run: checkKeyring, optional: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := true

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (store not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.optional:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
			if c.name == "Store reachable" {
				dbReachable = false
			}
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	if err := ctx.Provider.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	if s, ok := ctx.Provider.(*sqlite.Store); ok {
		db := s.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	s, ok := ctx.Provider.(*sqlite.Store)
	if !ok {
		// JSON and Postgres stores validate their schema while loading
		return nil
	}
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return err
	}

	runner := migration.NewRunner(s.GetDB(), subFS)
	current, err := runner.GetCurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err := runner.GetLatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}
	if current != latest {
		return fmt.Errorf("database schema version (%d) does not match expected version (%d)", current, latest)
	}
	return nil
}

func checkStateIntegrity(ctx *cli.Context) error {
	st, err := ctx.Provider.LoadState()
	if err != nil {
		return fmt.Errorf("failed to decode state: %w", err)
	}
	return validateState(st)
}

func validateState(st models.State) error {
	if st.WeddingDate != nil {
		if _, err := utils.ParseWeddingDate(*st.WeddingDate, time.Local); err != nil {
			return err
		}
	}
	if st.Style != nil && !st.Style.Valid() {
		return fmt.Errorf("unknown style %q", *st.Style)
	}
	pairs := []struct {
		name string
		day  *string
	}{
		{"lastDailyImageDate", st.LastDailyImageDate},
		{"lastRecreatedDate", st.LastRecreatedDate},
	}
	for _, p := range pairs {
		if p.day != nil && !utils.ValidateDayString(*p.day) {
			return fmt.Errorf("%s %q is not a YYYY-MM-DD day", p.name, *p.day)
		}
	}
	if (st.DailyImageURL == nil) != (st.LastDailyImageDate == nil) {
		return fmt.Errorf("daily image url and date are out of sync")
	}
	if st.HasRecreatedToday && st.LastRecreatedDate == nil {
		return fmt.Errorf("recreate flag set without a recreate date")
	}

	seen := make(map[string]bool, len(st.Tasks))
	for _, t := range st.Tasks {
		if t.ID == "" || t.Title == "" {
			return fmt.Errorf("task %q is missing an id or title", t.ID)
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate task id %q", t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}

func checkConfig(ctx *cli.Context) error {
	if ctx.Config == nil {
		return fmt.Errorf("config not loaded")
	}
	return ctx.Config.Validate()
}

func checkClockTimezone(*cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkShareCache(ctx *cli.Context) error {
	dir := ctx.Config.Share.CacheDir
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("share cache directory not writable: %w", err)
	}
	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("share cache directory not writable: %w", err)
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(filepath.Clean(name))
}

func checkKeyring(*cli.Context) error {
	if !keyring.IsAvailable() {
		return fmt.Errorf("OS keyring not available; API keys fall back to environment variables")
	}
	return nil
}

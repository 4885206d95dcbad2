package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/eternalglow/internal/cli"
	"github.com/julianstephens/eternalglow/internal/config"
	"github.com/julianstephens/eternalglow/internal/storage"
	"github.com/julianstephens/eternalglow/internal/storage/postgres"
)

type InitCmd struct {
	Force     bool   `help:"Delete the existing state file before initializing."`
	ConfigDir string `help:"Directory to write config.yaml into." type:"path"`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	path := ctx.Provider.GetConfigPath()

	if c.Force && !postgres.IsConnString(path) {
		if _, err := os.Stat(path); err == nil {
			if err := ctx.Provider.Close(); err != nil {
				return fmt.Errorf("failed to close existing store: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing store: %w", err)
			}
			fmt.Printf("Deleted existing store at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing store: %w", err)
		}
	}

	err := ctx.Provider.Init()
	switch {
	case errors.Is(err, storage.ErrAlreadyInitialized):
		fmt.Printf("Storage already initialized at: %s\n", path)
	case err != nil:
		return err
	default:
		fmt.Printf("Initialized eternalglow storage at: %s\n", path)
	}

	dir := c.ConfigDir
	if dir == "" {
		dir = cli.ConfigDir(path)
	}
	cfg := ctx.Config
	if cfg == nil {
		cfg = config.Default(dir)
	}
	if written, err := config.Save(dir, cfg); err == nil {
		fmt.Printf("Wrote default config to: %s\n", written)
	}
	return nil
}

package system

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/eternalglow/internal/cli"
	"github.com/julianstephens/eternalglow/internal/keyring"
	"github.com/julianstephens/eternalglow/internal/storage/postgres"
)

func secretNames() string {
	names := make([]string, 0, len(keyring.Secrets))
	for name := range keyring.Secrets {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func lookupSecret(name string) (keyring.Secret, error) {
	s, ok := keyring.Secrets[name]
	if !ok {
		return keyring.Secret{}, fmt.Errorf("unknown secret %q (expected one of: %s)", name, secretNames())
	}
	return s, nil
}

// KeySetCmd stores an API key or connection string in the OS keyring
type KeySetCmd struct {
	Name  string `arg:"" help:"Secret name (daily-image, text, image, database, s3-access, s3-secret)."`
	Value string `arg:"" help:"Secret value."`
}

func (cmd *KeySetCmd) Run(ctx *cli.Context) error {
	secret, err := lookupSecret(cmd.Name)
	if err != nil {
		return err
	}

	if secret == keyring.DatabaseConn {
		if _, err := postgres.ValidateConnString(cmd.Value); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("invalid connection string: %w", err)
			}
			fmt.Println("⚠️  Warning: Connection string contains embedded credentials.")
			fmt.Println("   It will be stored as-is in the encrypted OS keyring.")
		}
	}

	if err := keyring.Set(secret, cmd.Value); err != nil {
		return err
	}
	fmt.Printf("✓ %s stored in OS keyring\n", cmd.Name)
	return nil
}

// KeyDeleteCmd removes a secret from the OS keyring
type KeyDeleteCmd struct {
	Name string `arg:"" help:"Secret name."`
}

func (cmd *KeyDeleteCmd) Run(ctx *cli.Context) error {
	secret, err := lookupSecret(cmd.Name)
	if err != nil {
		return err
	}
	if err := keyring.Delete(secret); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s secret found in keyring", cmd.Name)
		}
		return err
	}
	fmt.Printf("✓ %s deleted from OS keyring\n", cmd.Name)
	return nil
}

// KeyStatusCmd shows which secrets are configured
type KeyStatusCmd struct{}

func (cmd *KeyStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}
	fmt.Println("✓ OS keyring is available")

	names := strings.Split(secretNames(), ", ")
	for _, name := range names {
		if keyring.Lookup(keyring.Secrets[name]) != "" {
			fmt.Printf("  ✓ %s\n", name)
		} else {
			fmt.Printf("  · %s (not set)\n", name)
		}
	}
	return nil
}

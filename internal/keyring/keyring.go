package keyring

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/eternalglow/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored for the requested user
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Secret names a credential kept in the OS keyring, with an optional
// environment variable consulted when the keyring has nothing.
type Secret struct {
	User   string
	EnvVar string
}

var (
	DailyImageKey = Secret{User: constants.KeyringUserDailyImage, EnvVar: "ETERNALGLOW_DAILY_IMAGE_KEY"}
	TextGenKey    = Secret{User: constants.KeyringUserTextGen, EnvVar: "ETERNALGLOW_TEXT_KEY"}
	ImageGenKey   = Secret{User: constants.KeyringUserImageGen, EnvVar: "ETERNALGLOW_IMAGE_KEY"}
	DatabaseConn  = Secret{User: constants.KeyringUserDatabase, EnvVar: "ETERNALGLOW_DB_CONNECTION"}
	S3AccessKey   = Secret{User: constants.KeyringUserS3Access, EnvVar: "ETERNALGLOW_S3_ACCESS_KEY"}
	S3SecretKey   = Secret{User: constants.KeyringUserS3Secret, EnvVar: "ETERNALGLOW_S3_SECRET_KEY"}
)

// Secrets maps the names accepted by `key set|delete` to their secrets.
var Secrets = map[string]Secret{
	"daily-image": DailyImageKey,
	"text":        TextGenKey,
	"image":       ImageGenKey,
	"database":    DatabaseConn,
	"s3-access":   S3AccessKey,
	"s3-secret":   S3SecretKey,
}

// Get retrieves the secret from the OS keyring.
// Returns ErrNotFound if nothing is stored.
func Get(s Secret) (string, error) {
	value, err := keyring.Get(constants.AppName, s.User)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

// Lookup returns the secret from the keyring, falling back to its environment
// variable. An empty string means the secret is not configured anywhere.
func Lookup(s Secret) string {
	if value, err := Get(s); err == nil && value != "" {
		return value
	}
	if s.EnvVar != "" {
		return os.Getenv(s.EnvVar)
	}
	return ""
}

// Set stores the secret in the OS keyring.
func Set(s Secret, value string) error {
	if value == "" {
		return errors.New("secret value cannot be empty")
	}
	if err := keyring.Set(constants.AppName, s.User, value); err != nil {
		return fmt.Errorf("failed to store secret in keyring: %w", err)
	}
	return nil
}

// Delete removes the secret from the OS keyring.
func Delete(s Secret) error {
	err := keyring.Delete(constants.AppName, s.User)
	if err != nil {
		if err == keyring.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete secret from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || err == keyring.ErrNotFound
}

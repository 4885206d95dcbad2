package keyring

import (
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGet(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(TextGenKey, "sk-test"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	got, err := Get(TextGenKey)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != "sk-test" {
		t.Errorf("Get() = %q, want %q", got, "sk-test")
	}
}

func TestSetEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(DailyImageKey, ""); err == nil {
		t.Error("Set(\"\") should return an error")
	}
}

func TestGetNotFound(t *testing.T) {
	gokeyring.MockInit()
	_ = Delete(ImageGenKey)

	if _, err := Get(ImageGenKey); err != ErrNotFound {
		t.Errorf("Get() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDelete(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(DatabaseConn, "postgres://glow@localhost/glow"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := Delete(DatabaseConn); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := Get(DatabaseConn); err != ErrNotFound {
		t.Errorf("After Delete(), Get() error = %v, want %v", err, ErrNotFound)
	}
	if err := Delete(DatabaseConn); err != ErrNotFound {
		t.Errorf("second Delete() error = %v, want %v", err, ErrNotFound)
	}
}

func TestLookupFallsBackToEnv(t *testing.T) {
	gokeyring.MockInit()
	_ = Delete(DailyImageKey)
	t.Setenv(DailyImageKey.EnvVar, "from-env")

	if got := Lookup(DailyImageKey); got != "from-env" {
		t.Errorf("Lookup() = %q, want from-env", got)
	}

	if err := Set(DailyImageKey, "from-keyring"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if got := Lookup(DailyImageKey); got != "from-keyring" {
		t.Errorf("Lookup() = %q, want keyring value to win", got)
	}
}

func TestSecretsRegistry(t *testing.T) {
	for name, s := range Secrets {
		if s.User == "" || s.EnvVar == "" {
			t.Errorf("secret %q is incomplete: %+v", name, s)
		}
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("IsAvailable() = false, want true in mock mode")
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/eternalglow/internal/config"
	"github.com/julianstephens/eternalglow/internal/gate"
	"github.com/julianstephens/eternalglow/internal/genai"
	"github.com/julianstephens/eternalglow/internal/keyring"
	"github.com/julianstephens/eternalglow/internal/logger"
	"github.com/julianstephens/eternalglow/internal/share"
	"github.com/julianstephens/eternalglow/internal/state"
	"github.com/julianstephens/eternalglow/internal/storage"
	"github.com/julianstephens/eternalglow/internal/storage/postgres"
	"github.com/julianstephens/eternalglow/internal/storage/sqlite"
)

// Context is shared by every command. Provider and Config are set by main;
// Store is opened by Open. The generator and text model fields replace the
// remote clients when set.
type Context struct {
	Provider storage.Provider
	Store    *state.Store
	Config   *config.Config
	Now      func() time.Time

	Generator gate.Generator
	Text      *genai.TextClient
	Images    *genai.ImageClient
	Targets   []share.Target

	gate     *gate.Gate
	pipeline *share.Pipeline
}

// NewProvider picks the storage backend from the --config value: a .json
// path, a PostgreSQL connection string, or a SQLite database path.
func NewProvider(configPath string) (storage.Provider, error) {
	switch {
	case postgres.IsConnString(configPath):
		if valid, err := postgres.ValidateConnString(configPath); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w: store the connection string with `key set database` or use .pgpass", err)
			}
			return nil, err
		}
		return postgres.New(configPath), nil
	case strings.EqualFold(filepath.Ext(configPath), ".json"):
		return storage.NewJSONStore(configPath), nil
	default:
		return sqlite.NewStore(configPath), nil
	}
}

// ConfigDir is where config.yaml and logs live for a given store location.
func ConfigDir(configPath string) string {
	if postgres.IsConnString(configPath) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".config", "eternalglow")
		}
		return "."
	}
	return filepath.Dir(configPath)
}

func (c *Context) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Location is the configured local timezone.
func (c *Context) Location() *time.Location {
	if c.Config == nil {
		return time.Local
	}
	return c.Config.Location()
}

func (c *Context) timeout() time.Duration {
	if c.Config == nil || c.Config.RequestTimeout <= 0 {
		return time.Minute
	}
	return c.Config.RequestTimeout
}

// WithTimeout bounds a remote call by the configured request timeout.
func (c *Context) WithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, c.timeout())
}

// Open loads the backend and starts the state store.
func (c *Context) Open() error {
	if c.Store != nil {
		return nil
	}
	if err := c.Provider.Load(); err != nil {
		return err
	}
	store, err := state.Open(c.Provider,
		state.WithLocation(c.Location()),
		state.WithClock(c.now),
	)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	c.Store = store
	return nil
}

// Close flushes pending writes and releases the backend. A failed final
// write is returned so the command can report it.
func (c *Context) Close() error {
	var errs []error
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to save state: %w", err))
		}
	}
	if c.Provider != nil {
		if err := c.Provider.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Gate returns the daily content gate, creating the remote client on first use.
func (c *Context) Gate() *gate.Gate {
	if c.gate != nil {
		return c.gate
	}
	gen := c.Generator
	if gen == nil {
		gen = genai.NewDailyImageClient(
			c.Config.DailyImage.URL,
			keyring.Lookup(keyring.DailyImageKey),
			c.timeout(),
		)
	}
	c.gate = gate.New(c.Store, gen,
		gate.WithClock(c.now),
		gate.WithLocation(c.Location()),
	)
	return c.gate
}

// TextClient returns the text generation client. When no model can be
// configured the client serves the local fallbacks.
func (c *Context) TextClient() *genai.TextClient {
	if c.Text != nil {
		return c.Text
	}
	client, err := genai.NewOpenAITextClient(
		c.Config.Text.BaseURL,
		c.Config.Text.Model,
		keyring.Lookup(keyring.TextGenKey),
	)
	if err != nil {
		logger.Warn("Text generation unavailable", "error", err)
		client = genai.NewTextClient(nil)
	}
	c.Text = client
	return client
}

// ImageClient returns the scene image client.
func (c *Context) ImageClient() *genai.ImageClient {
	if c.Images == nil {
		c.Images = genai.NewImageClient(
			c.Config.ImageGen.URL,
			keyring.Lookup(keyring.ImageGenKey),
			c.timeout(),
		)
	}
	return c.Images
}

// Pipeline builds the share pipeline from the share configuration.
func (c *Context) Pipeline(ctx context.Context) (*share.Pipeline, error) {
	if c.pipeline != nil {
		return c.pipeline, nil
	}
	sc := c.Config.Share

	targets := c.Targets
	if targets == nil {
		var uploader share.LinkUploader = share.FileLinker{}
		if sc.S3.Bucket != "" {
			s3u, err := share.NewS3Uploader(ctx, share.S3Options{
				Bucket:    sc.S3.Bucket,
				Region:    sc.S3.Region,
				Endpoint:  sc.S3.Endpoint,
				Prefix:    sc.S3.Prefix,
				AccessKey: keyring.Lookup(keyring.S3AccessKey),
				SecretKey: keyring.Lookup(keyring.S3SecretKey),
				Expiry:    sc.S3.LinkExpiry,
			})
			if err != nil {
				return nil, err
			}
			uploader = s3u
		}
		targets = []share.Target{
			share.NewStoryTarget(sc.StoryWebhook, sc.AppLink, uploader, c.timeout()),
			share.NewMessageTarget(sc.MessageWebhook, uploader, c.timeout()),
			share.NewLibraryTarget(sc.PicturesDir),
			share.NewGenericTarget(),
		}
	}

	c.pipeline = share.NewPipeline(
		share.NewPNGRenderer(),
		share.NewCache(sc.CacheDir, sc.MaxCachedCards),
		sc.AppName,
		sc.AppLink,
		targets...,
	)
	return c.pipeline, nil
}

// Card captures the share card for the current state.
func (c *Context) Card() share.Card {
	return share.CardFromState(c.Store.Snapshot(), c.now(), c.Location())
}

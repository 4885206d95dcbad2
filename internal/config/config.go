// Package config loads the YAML runtime configuration.
//
// Values are layered: built-in defaults, then the YAML file (if present), then
// ETERNALGLOW_* environment variables. Command-line flags are applied by the
// caller on top of the returned Config. Secrets are never read from here; see
// the keyring package.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/eternalglow/internal/constants"
	"github.com/julianstephens/eternalglow/internal/utils"
)

// FileName is the config file looked up next to the state store.
const FileName = "config.yaml"

type Config struct {
	Timezone       string         `yaml:"timezone"`
	RequestTimeout time.Duration  `yaml:"request_timeout"`
	DailyImage     EndpointConfig `yaml:"daily_image"`
	Text           TextConfig     `yaml:"text"`
	ImageGen       EndpointConfig `yaml:"image_generation"`
	Share          ShareConfig    `yaml:"share"`
}

type EndpointConfig struct {
	URL string `yaml:"url"`
}

type TextConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type ShareConfig struct {
	AppName        string   `yaml:"app_name"`
	AppLink        string   `yaml:"app_link"`
	CacheDir       string   `yaml:"cache_dir"`
	MaxCachedCards int      `yaml:"max_cached_cards"`
	PicturesDir    string   `yaml:"pictures_dir"`
	StoryWebhook   string   `yaml:"story_webhook"`
	MessageWebhook string   `yaml:"message_webhook"`
	S3             S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket     string        `yaml:"bucket"`
	Region     string        `yaml:"region"`
	Endpoint   string        `yaml:"endpoint"`
	Prefix     string        `yaml:"prefix"`
	LinkExpiry time.Duration `yaml:"link_expiry"`
}

// Default returns the configuration used when no file exists. Directories are
// resolved relative to configDir.
func Default(configDir string) *Config {
	timeout, _ := time.ParseDuration(constants.DefaultRequestTimeout)
	expiry, _ := time.ParseDuration(constants.DefaultLinkExpiry)

	pictures := ""
	if home, err := os.UserHomeDir(); err == nil {
		pictures = filepath.Join(home, "Pictures", constants.AppDisplayName)
	}

	return &Config{
		Timezone:       constants.DefaultTimezone,
		RequestTimeout: timeout,
		DailyImage:     EndpointConfig{URL: constants.DefaultDailyImageURL},
		Text: TextConfig{
			BaseURL: constants.DefaultTextBaseURL,
			Model:   constants.DefaultTextModel,
		},
		ImageGen: EndpointConfig{URL: constants.DefaultImageGenURL},
		Share: ShareConfig{
			AppName:        constants.AppDisplayName,
			AppLink:        constants.AppLink,
			CacheDir:       filepath.Join(configDir, constants.ShareCacheDirName),
			MaxCachedCards: constants.MaxCachedCards,
			PicturesDir:    pictures,
			S3:             S3Config{LinkExpiry: expiry},
		},
	}
}

// Load reads the config file in configDir, overlays the environment and
// validates the result. A missing file is not an error.
func Load(configDir string) (*Config, error) {
	cfg := Default(configDir)

	path := filepath.Join(configDir, FileName)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML into configDir, refusing to overwrite an existing file.
func Save(configDir string, cfg *Config) (string, error) {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	path := filepath.Join(configDir, FileName)
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("config already exists at %s", path)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return path, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"ETERNALGLOW_TIMEZONE":        &c.Timezone,
		"ETERNALGLOW_DAILY_IMAGE_URL": &c.DailyImage.URL,
		"ETERNALGLOW_TEXT_BASE_URL":   &c.Text.BaseURL,
		"ETERNALGLOW_TEXT_MODEL":      &c.Text.Model,
		"ETERNALGLOW_IMAGE_URL":       &c.ImageGen.URL,
		"ETERNALGLOW_SHARE_CACHE_DIR": &c.Share.CacheDir,
		"ETERNALGLOW_PICTURES_DIR":    &c.Share.PicturesDir,
		"ETERNALGLOW_STORY_WEBHOOK":   &c.Share.StoryWebhook,
		"ETERNALGLOW_MESSAGE_WEBHOOK": &c.Share.MessageWebhook,
		"ETERNALGLOW_S3_BUCKET":       &c.Share.S3.Bucket,
		"ETERNALGLOW_S3_REGION":       &c.Share.S3.Region,
		"ETERNALGLOW_S3_ENDPOINT":     &c.Share.S3.Endpoint,
	}
	for env, dst := range strs {
		if v, ok := os.LookupEnv(env); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	if v, ok := os.LookupEnv("ETERNALGLOW_REQUEST_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid ETERNALGLOW_REQUEST_TIMEOUT %q: %w", v, err)
		}
		c.RequestTimeout = d
	}
	if v, ok := os.LookupEnv("ETERNALGLOW_MAX_CACHED_CARDS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ETERNALGLOW_MAX_CACHED_CARDS %q: %w", v, err)
		}
		c.Share.MaxCachedCards = n
	}
	return nil
}

// Validate checks the configuration for values the application cannot run with.
func (c *Config) Validate() error {
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone: %q", c.Timezone)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.Share.MaxCachedCards < 1 {
		return fmt.Errorf("share.max_cached_cards must be at least 1, got %d", c.Share.MaxCachedCards)
	}
	if c.Share.S3.Bucket != "" && c.Share.S3.LinkExpiry <= 0 {
		return fmt.Errorf("share.s3.link_expiry must be positive when a bucket is set")
	}
	return nil
}

// Location returns the configured timezone location.
func (c *Config) Location() *time.Location {
	loc, err := utils.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

package share

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/eternalglow/internal/constants"
	"github.com/julianstephens/eternalglow/internal/logger"
)

// CardInfo describes a cached card file.
type CardInfo struct {
	Key     string
	Path    string
	ModTime time.Time
	Size    int64
}

// Cache keeps rendered cards on disk keyed by BuildCacheKey and retains only
// the newest maxCards of them.
type Cache struct {
	dir      string
	maxCards int
	now      func() time.Time
}

func NewCache(dir string, maxCards int) *Cache {
	if maxCards < 1 {
		maxCards = constants.MaxCachedCards
	}
	return &Cache{
		dir:      dir,
		maxCards: maxCards,
		now:      time.Now,
	}
}

// Dir returns the cache directory path
func (c *Cache) Dir() string {
	return c.dir
}

func (c *Cache) ensureDir() error {
	return os.MkdirAll(c.dir, 0700)
}

func validKey(key string) error {
	if key == "" || key != filepath.Base(key) || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("invalid cache key %q", key)
	}
	return nil
}

// Lookup returns the path of a cached card, if present.
func (c *Cache) Lookup(key string) (string, bool) {
	if validKey(key) != nil {
		return "", false
	}
	path := filepath.Join(c.dir, key)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() == 0 {
		return "", false
	}
	return path, true
}

// Store writes data under key and prunes old cards. A failed prune is
// logged but does not fail the store.
func (c *Cache) Store(key string, data []byte) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}
	if err := c.ensureDir(); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	path := filepath.Join(c.dir, key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write card: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to write card: %w", err)
	}

	// Make the newest card win ties during pruning even on coarse clocks.
	now := c.now()
	_ = os.Chtimes(path, now, now)

	if err := c.Prune(); err != nil {
		logger.Warn("Failed to prune share card cache", "error", err)
	}
	return path, nil
}

// List returns cached cards, newest first.
func (c *Cache) List() ([]CardInfo, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []CardInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	var cards []CardInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, constants.ShareCardFilePrefix) || !strings.HasSuffix(name, constants.ShareCardFileSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		cards = append(cards, CardInfo{
			Key:     name,
			Path:    filepath.Join(c.dir, name),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}

	sort.Slice(cards, func(i, j int) bool {
		if cards[i].ModTime.Equal(cards[j].ModTime) {
			return cards[i].Key > cards[j].Key
		}
		return cards[i].ModTime.After(cards[j].ModTime)
	})
	return cards, nil
}

// Prune removes cards beyond the retention limit
func (c *Cache) Prune() error {
	cards, err := c.List()
	if err != nil {
		return err
	}
	if len(cards) <= c.maxCards {
		return nil
	}
	for _, card := range cards[c.maxCards:] {
		if err := os.Remove(card.Path); err != nil {
			return fmt.Errorf("failed to remove old card %s: %w", card.Path, err)
		}
	}
	return nil
}

package protocol

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultCacheMaxAge is the default maximum age for a persisted service index.
const DefaultCacheMaxAge = 24 * time.Hour

// cachedIndex is the on-disk form of a resolved service index.
type cachedIndex struct {
	URL       string        `json:"url"`
	Index     *ServiceIndex `json:"index"`
	CheckedAt time.Time     `json:"checked_at"`
}

// cachePath returns the file used to persist the service index of url.
func cachePath(dir, url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(dir, "service-index", hex.EncodeToString(sum[:8])+".json")
}

// loadCache reads a persisted service index.
// Returns nil, nil if the cache file does not exist.
func loadCache(dir, url string) (*cachedIndex, error) {
	data, err := os.ReadFile(cachePath(dir, url))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading service index cache: %w", err)
	}

	var cache cachedIndex
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("parsing service index cache: %w", err)
	}
	if cache.URL != url || cache.Index == nil {
		return nil, nil
	}
	return &cache, nil
}

// saveCache writes a resolved service index to disk.
func saveCache(dir, url string, idx *ServiceIndex) error {
	path := cachePath(dir, url)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.MarshalIndent(cachedIndex{URL: url, Index: idx, CheckedAt: time.Now()}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling service index cache: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing service index cache: %w", err)
	}
	return nil
}

// isCacheStale returns true if the cache is older than maxAge or nil.
func isCacheStale(cache *cachedIndex, maxAge time.Duration) bool {
	if cache == nil {
		return true
	}
	return time.Since(cache.CheckedAt) > maxAge
}

package llm

import (
	"sync"
	"time"

	"github.com/KigoJomo/privacy-peek/internal/model"
)

// cacheEntry represents a cached metadata resolution.
type cacheEntry struct {
	expiry   time.Time
	metadata model.SiteMetadata
}

// MetadataCache provides thread-safe short-term caching of site
// metadata resolutions keyed by raw user input, so repeated requests
// for the same input within the TTL skip the resolution completion.
// This is distinct from the 14-day staleness window, which lives in
// the engine and gates whole analyses.
type MetadataCache struct {
	entries map[string]cacheEntry
	stopCh  chan struct{}
	ttl     time.Duration
	mu      sync.RWMutex
}

// NewMetadataCache creates a new cache with the specified TTL.
func NewMetadataCache(ttl time.Duration) *MetadataCache {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}

	cache := &MetadataCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}

	go cache.cleanup()

	return cache
}

// Get retrieves metadata from the cache if present and unexpired.
func (c *MetadataCache) Get(key string) (model.SiteMetadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return model.SiteMetadata{}, false
	}

	if time.Now().After(entry.expiry) {
		return model.SiteMetadata{}, false
	}

	return entry.metadata, true
}

// Set stores metadata in the cache.
func (c *MetadataCache) Set(key string, metadata model.SiteMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		metadata: metadata,
		expiry:   time.Now().Add(c.ttl),
	}
}

// cleanup periodically removes expired entries.
func (c *MetadataCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.entries {
				if now.After(entry.expiry) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// Size returns the number of entries in the cache.
func (c *MetadataCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine.
func (c *MetadataCache) Close() {
	close(c.stopCh)
}

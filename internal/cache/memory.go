package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// VerdictCache keeps provider verdicts in process memory. Expired entries
// are swept on the cleanup interval rather than on read.
type VerdictCache struct {
	entries *gocache.Cache
}

// NewMemoryCache returns a VerdictCache with the given default TTL.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *VerdictCache {
	return &VerdictCache{
		entries: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get returns the verdict stored under key, if it has not expired.
func (c *VerdictCache) Get(key string) ([]byte, bool) {
	if val, found := c.entries.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores a verdict under key. A zero ttl uses the cache default.
func (c *VerdictCache) Set(key string, value []byte, ttl time.Duration) error {
	c.entries.Set(key, value, ttl)
	return nil
}

package translate

import (
	"sync"
	"time"
)

type cacheEntry struct {
	text      string
	createdAt time.Time
}

// cache is a TTL map of translations. A zero TTL disables it.
type cache struct {
	ttl     time.Duration
	entries map[string]cacheEntry
	mu      sync.RWMutex
	now     func() time.Time
}

func newCache(ttl time.Duration) *cache {
	return &cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *cache) get(key string) (string, bool) {
	if c.ttl <= 0 {
		return "", false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || c.now().Sub(entry.createdAt) > c.ttl {
		return "", false
	}
	return entry.text, true
}

func (c *cache) set(key, text string) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	// Sweep expired entries on write so the map does not grow without bound.
	for k, e := range c.entries {
		if now.Sub(e.createdAt) > c.ttl {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{text: text, createdAt: now}
}

func (c *cache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

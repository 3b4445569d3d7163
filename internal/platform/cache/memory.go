package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryEntry struct {
	raw       []byte
	expiresAt time.Time
}

type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory returns an in-process TTL cache. Suitable for single-instance
// deployments and tests; expired entries are dropped lazily on read.
func NewMemory() Cache {
	return &memoryCache{
		entries: map[string]memoryEntry{},
		now:     time.Now,
	}
}

func (c *memoryCache) GetJSON(_ context.Context, key string, out any) error {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return ErrMiss
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return ErrMiss
	}
	return json.Unmarshal(entry.raw, out)
}

func (c *memoryCache) SetJSON(_ context.Context, key string, val any, ttl time.Duration) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.entries[key] = memoryEntry{raw: raw, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

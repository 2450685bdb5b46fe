package recurrence

import (
	"sync"
	"time"
)

// CacheConfig holds configuration for the expansion cache
type CacheConfig struct {
	TTL        time.Duration // How long entries stay valid
	MaxEntries int           // Maximum number of entries kept
}

// DefaultCacheConfig provides sensible defaults for a status bar refresh loop
var DefaultCacheConfig = CacheConfig{
	TTL:        15 * time.Minute,
	MaxEntries: 1000,
}

type cacheKey struct {
	id      string
	version string
	start   int64
	end     int64
}

type cacheEntry struct {
	dates      []time.Time
	expiresAt  time.Time
	accessedAt time.Time
}

// Cache memoizes Series.Expand results by event id, rule fingerprint and
// window. It is safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	entries    map[cacheKey]*cacheEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	hits   int
	misses int
}

func NewCache(config CacheConfig) *Cache {
	if config.TTL <= 0 {
		config.TTL = DefaultCacheConfig.TTL
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = DefaultCacheConfig.MaxEntries
	}
	return &Cache{
		entries:    make(map[cacheKey]*cacheEntry),
		ttl:        config.TTL,
		maxEntries: config.MaxEntries,
		now:        time.Now,
	}
}

// Expand returns the same dates as s.Expand(windowStart, windowEnd), served
// from the cache when possible. The returned slice is owned by the caller.
func (c *Cache) Expand(id string, s Series, windowStart, windowEnd time.Time) []time.Time {
	key := cacheKey{
		id:      id,
		version: s.Fingerprint(),
		start:   windowStart.UnixNano(),
		end:     windowEnd.UnixNano(),
	}

	c.mu.Lock()
	now := c.now()
	if entry, ok := c.entries[key]; ok && now.Before(entry.expiresAt) {
		entry.accessedAt = now
		c.hits++
		dates := cloneDates(entry.dates)
		c.mu.Unlock()
		return dates
	}
	c.misses++
	c.mu.Unlock()

	dates := s.Expand(windowStart, windowEnd)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.makeRoom(now)
	c.entries[key] = &cacheEntry{
		dates:      cloneDates(dates),
		expiresAt:  now.Add(c.ttl),
		accessedAt: now,
	}
	return dates
}

// Invalidate drops every cached window of the event.
func (c *Cache) Invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.id == id {
			delete(c.entries, key)
		}
	}
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]*cacheEntry)
}

// Stats reports entry count and hit/miss counters.
func (c *Cache) Stats() (entries, hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries), c.hits, c.misses
}

// makeRoom drops expired entries and, if the cache is still full, the least
// recently used one. Caller holds c.mu.
func (c *Cache) makeRoom(now time.Time) {
	if len(c.entries) < c.maxEntries {
		return
	}

	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
		}
	}

	for len(c.entries) >= c.maxEntries {
		var (
			oldestKey cacheKey
			oldest    time.Time
			found     bool
		)
		for key, entry := range c.entries {
			if !found || entry.accessedAt.Before(oldest) {
				oldestKey, oldest, found = key, entry.accessedAt, true
			}
		}
		delete(c.entries, oldestKey)
	}
}

func cloneDates(dates []time.Time) []time.Time {
	if dates == nil {
		return nil
	}
	out := make([]time.Time, len(dates))
	copy(out, dates)
	return out
}

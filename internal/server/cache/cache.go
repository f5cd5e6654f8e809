// Package cache provides the response cache of the HTTP server.
// Entries are keyed by the state cell they were read from so a committed
// change can drop exactly the entries it made stale.
package cache

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Key prefixes, one per state cell.
const (
	catalogPrefix = "catalog:"
	libraryPrefix = "library:"
	runtimePrefix = "runtime:"
)

// ProvidersKey caches the provider list.
func ProvidersKey() string { return catalogPrefix + "providers" }

// ItemsKey caches a filtered item listing.
func ItemsKey(query, provider string) string {
	return catalogPrefix + "items?q=" + strings.ToLower(strings.TrimSpace(query)) +
		"&provider=" + strings.ToLower(strings.TrimSpace(provider))
}

// ItemKey caches a single catalog item.
func ItemKey(id string) string { return catalogPrefix + "item:" + id }

// LibraryKey caches the library listing.
func LibraryKey() string { return libraryPrefix + "entries" }

// RuntimeKey caches the runtime overview, which also reads library counts.
func RuntimeKey() string { return runtimePrefix + "overview" }

// Cache wraps go-cache with hit accounting and cell invalidation.
//
// Each cell prefix carries a generation that every invalidation of the cell
// bumps. A reader takes the generation before reading the client and stores
// with SetIfCurrent, so a value read before a committed change is never
// cached after the change invalidated the cell.
type Cache struct {
	store  *gocache.Cache
	hits   atomic.Uint64
	misses atomic.Uint64

	mu   sync.Mutex
	gens map[string]uint64
}

// New creates a new cache with the given TTL and cleanup interval.
// defaultTTL is the default expiration time for cache entries.
// cleanupInterval is how often expired items are removed from memory.
func New(defaultTTL, cleanupInterval time.Duration) *Cache {
	return &Cache{
		store: gocache.New(defaultTTL, cleanupInterval),
		gens:  make(map[string]uint64),
	}
}

// Get retrieves a value from the cache.
func (c *Cache) Get(key string) (any, bool) {
	v, ok := c.store.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Set stores a value in the cache with default TTL.
func (c *Cache) Set(key string, value any) {
	c.store.Set(key, value, gocache.DefaultExpiration)
}

// Generation returns the current generation of the cell key belongs to.
func (c *Cache) Generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[cellOf(key)]
}

// SetIfCurrent stores value only if the cell of key has not been
// invalidated since gen was taken. It reports whether the value was stored.
func (c *Cache) SetIfCurrent(key string, value any, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[cellOf(key)] != gen {
		return false
	}
	c.store.Set(key, value, gocache.DefaultExpiration)
	return true
}

// SetWithTTL stores a value in the cache with custom TTL.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.store.Set(key, value, ttl)
}

// Delete removes a value from the cache.
func (c *Cache) Delete(key string) {
	c.store.Delete(key)
}

// InvalidateCatalog drops entries read from the catalog.
func (c *Cache) InvalidateCatalog() int {
	return c.deletePrefix(catalogPrefix)
}

// InvalidateLibrary drops entries that read library state, including the
// runtime overview.
func (c *Cache) InvalidateLibrary() int {
	return c.deletePrefix(libraryPrefix) + c.deletePrefix(runtimePrefix)
}

// InvalidateRuntime drops the runtime overview.
func (c *Cache) InvalidateRuntime() int {
	return c.deletePrefix(runtimePrefix)
}

func (c *Cache) deletePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[prefix]++

	n := 0
	for key := range c.store.Items() {
		if strings.HasPrefix(key, prefix) {
			c.store.Delete(key)
			n++
		}
	}
	return n
}

// Clear removes all items from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, prefix := range []string{catalogPrefix, libraryPrefix, runtimePrefix} {
		c.gens[prefix]++
	}
	c.store.Flush()
}

// cellOf returns the cell prefix of key, including the colon.
func cellOf(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i+1]
	}
	return ""
}

// ItemCount returns the number of items in the cache.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}

// Stats returns cache statistics.
type Stats struct {
	ItemCount int    `json:"itemCount"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
}

// GetStats returns current cache statistics.
func (c *Cache) GetStats() Stats {
	return Stats{
		ItemCount: c.store.ItemCount(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
	}
}

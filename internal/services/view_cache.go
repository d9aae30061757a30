package services

import (
	"sync"
	"time"

	"github.com/ornithedex/server/internal/models"
)

// Cache TTLs per view. The gallery projection is offset-sensitive and is
// never cached.
const (
	FullCacheTTL     = 300 * time.Second
	LightCacheTTL    = 300 * time.Second
	MetadataCacheTTL = 120 * time.Second
	CatalogCacheTTL  = 600 * time.Second
)

// ProjectionCache memoizes per-user read projections. Implementations
// are best-effort: a miss or a lost entry is never an error, reads fall
// back to the store. Writes must go through Invalidate, never Set, so a
// read after a write always recomputes.
type ProjectionCache interface {
	Get(view, userID string) (interface{}, bool)
	Set(view, userID string, projection interface{}, ttl time.Duration)
	Invalidate(userID string)
}

// ViewCache is a thread-safe in-memory ProjectionCache
type ViewCache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
}

type cacheEntry struct {
	projection interface{}
	expiresAt  time.Time
}

// userViews are the per-user views cleared by Invalidate
var userViews = []string{
	models.ViewFull,
	models.ViewMetadata,
	models.ViewLight,
	models.ViewGallery,
}

// NewViewCache creates a new view cache
func NewViewCache() *ViewCache {
	cache := &ViewCache{
		items: make(map[string]*cacheEntry),
	}

	// Start background cleanup goroutine
	go cache.cleanupExpired()

	return cache
}

// Get retrieves a cached projection if it exists and hasn't expired
func (c *ViewCache) Get(view, userID string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.items[cacheKey(view, userID)]
	if !exists {
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		return nil, false
	}

	return entry.projection, true
}

// Set stores a projection with a TTL
func (c *ViewCache) Set(view, userID string, projection interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[cacheKey(view, userID)] = &cacheEntry{
		projection: projection,
		expiresAt:  time.Now().Add(ttl),
	}
}

// Invalidate removes the user's entries across all views
func (c *ViewCache) Invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, view := range userViews {
		delete(c.items, cacheKey(view, userID))
	}
}

// Size returns the number of cached entries
func (c *ViewCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

func cacheKey(view, userID string) string {
	return view + ":" + userID
}

// cleanupExpired runs periodically to remove expired entries
func (c *ViewCache) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()

		for key, entry := range c.items {
			if now.After(entry.expiresAt) {
				delete(c.items, key)
			}
		}

		c.mu.Unlock()
	}
}

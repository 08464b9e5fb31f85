package videos

import (
	"sync"
	"time"

	"github.com/clipstream/backend/internal/models"
)

type cacheEntry struct {
	videos  []models.Video
	expires time.Time
}

// FeedCache keeps recently served feed pages in memory for a short TTL so a
// burst of feed reads does not hit the database once per request. Entries are
// keyed by the owner filter; the unfiltered feed uses the empty key.
type FeedCache struct {
	ttl time.Duration

	mu    sync.RWMutex
	items map[string]cacheEntry
}

// NewFeedCache returns a cache holding feed results for the provided TTL.
func NewFeedCache(ttl time.Duration) *FeedCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &FeedCache{
		ttl:   ttl,
		items: make(map[string]cacheEntry),
	}
}

// Get returns the cached feed for the owner filter, if still fresh.
func (c *FeedCache) Get(ownerID string) ([]models.Video, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	entry, ok := c.items[ownerID]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expires) {
		return nil, false
	}
	return entry.videos, true
}

// Put stores a feed result for the owner filter.
func (c *FeedCache) Put(ownerID string, videos []models.Video) {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.items[ownerID] = cacheEntry{videos: videos, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate drops the owner's cached feed and the unfiltered feed. Called
// after any mutation that changes what a feed read would return.
func (c *FeedCache) Invalidate(ownerID string) {
	if c == nil {
		return
	}

	c.mu.Lock()
	delete(c.items, ownerID)
	delete(c.items, "")
	c.mu.Unlock()
}

package search

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/studyloop/tutorbridge/pkg/queryclass"
)

// Cache is a bounded TTL store for search outcomes shared by concurrent
// chat turns. Expired entries are dropped lazily on access; when the store
// still exceeds capacity the entries expiring soonest are evicted first.
// Races between identical misses are benign: last writer wins.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*cacheEntry
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

type cacheEntry struct {
	outcome   Outcome
	expiresAt time.Time
}

// NewCache creates a cache with the given TTL and capacity, enforcing the
// minimum floors.
func NewCache(ttl time.Duration, capacity int) *Cache {
	if ttl < MinCacheTTLSecs*time.Second {
		ttl = MinCacheTTLSecs * time.Second
	}
	if capacity < MinCacheCapacity {
		capacity = MinCacheCapacity
	}
	return &Cache{
		entries:  make(map[string]*cacheEntry),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

// CacheKey derives the deterministic cache key for a lookup. The query is
// normalized so that different user phrasings of the same text share one
// cache line.
func CacheKey(query string, limit int, depth queryclass.Depth) string {
	return strings.ToLower(strings.TrimSpace(query)) +
		"|" + string(queryclass.NormalizeDepth(string(depth))) +
		"|" + strconv.Itoa(clampLimit(limit))
}

// Get returns a deep copy of the cached outcome, or nil on miss.
func (c *Cache) Get(query string, limit int, depth queryclass.Depth) *Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evictLocked()

	entry, ok := c.entries[CacheKey(query, limit, depth)]
	if !ok {
		return nil
	}
	out := copyOutcome(entry.outcome)
	return &out
}

// Put stores a deep copy of the outcome under the derived key.
func (c *Cache) Put(query string, limit int, depth queryclass.Depth, outcome *Outcome) {
	if outcome == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[CacheKey(query, limit, depth)] = &cacheEntry{
		outcome:   copyOutcome(*outcome),
		expiresAt: c.now().Add(c.ttl),
	}
	c.evictLocked()
}

// Len reports the current entry count, for diagnostics.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictLocked drops expired entries, then evicts the earliest-expiring
// entries until the store is back at capacity. Callers hold c.mu.
func (c *Cache) evictLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
	if len(c.entries) <= c.capacity {
		return
	}

	type keyed struct {
		key       string
		expiresAt time.Time
	}
	ordered := make([]keyed, 0, len(c.entries))
	for key, entry := range c.entries {
		ordered = append(ordered, keyed{key, entry.expiresAt})
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].expiresAt.Before(ordered[j].expiresAt)
	})
	for _, item := range ordered {
		if len(c.entries) <= c.capacity {
			break
		}
		delete(c.entries, item.key)
	}
}

// copyOutcome deep-copies an outcome so callers mutating a returned value
// cannot corrupt the cached copy.
func copyOutcome(o Outcome) Outcome {
	dup := o
	if o.Results != nil {
		dup.Results = make([]Result, len(o.Results))
		copy(dup.Results, o.Results)
	}
	return dup
}

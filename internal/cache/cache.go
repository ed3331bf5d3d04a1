package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/abfhdays/intelligent-query-router"
)

// Key derives the cache key for a canonicalized query text plus the witness
// file paths its scan plan retained: sha256(canonicalText || '\0' ||
// join(sorted(witnessPaths), '\0')) (spec.md §4.4).
func Key(canonicalText string, witnessPaths []string) string {
	sorted := append([]string(nil), witnessPaths...)
	sort.Strings(sorted)
	h := sha256.New()
	h.Write([]byte(canonicalText))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(sorted, "\x00")))
	return hex.EncodeToString(h.Sum(nil))
}

// Stats is a point-in-time snapshot of cache effectiveness. Misses is the
// total of every lookup that didn't return a usable entry, including the
// Expirations and StaleInvalidations that a plain cache-miss counter would
// conflate with a simple key-not-found.
type Stats struct {
	Entries            int
	Capacity           int
	Hits               uint64
	Misses             uint64
	Evictions          uint64
	Expirations        uint64
	StaleInvalidations uint64
}

// HitRate returns Hits/(Hits+Misses), or 0 when nothing has been looked up
// yet.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Cache is the LRU + TTL + witness-validated result cache. A hit requires
// both an unexpired entry and a witness (sorted file paths + max mtime)
// matching the caller's current scan plan; any mismatch is treated as a
// miss and the stale entry is evicted.
type Cache struct {
	mu                 sync.Mutex
	core               *lruCore
	entries            map[string]*router.CacheEntry
	ttl                time.Duration
	hits               uint64
	misses             uint64
	evictions          uint64
	expirations        uint64
	staleInvalidations uint64
	now                func() time.Time
}

// New builds a Cache from cfg. A zero TTL disables expiry.
func New(cfg router.CacheConfig) *Cache {
	return &Cache{
		core:    newLRUCore(cfg.MaxEntries),
		entries: make(map[string]*router.CacheEntry),
		ttl:     cfg.TTL,
		now:     time.Now,
	}
}

// Get looks up key and validates it against the caller's current witness.
// A stale or expired entry is removed and reported as a miss.
func (c *Cache) Get(key string, witnessPaths []string, witnessMaxMTime time.Time) (router.QueryResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return router.QueryResult{}, false
	}
	if c.ttl > 0 && c.now().After(entry.ExpiresAt) {
		c.evictLocked(key)
		c.expirations++
		c.misses++
		return router.QueryResult{}, false
	}
	if !witnessesMatch(entry.WitnessPaths, witnessPaths) || !entry.WitnessMaxMTime.Equal(witnessMaxMTime) {
		c.evictLocked(key)
		c.staleInvalidations++
		c.misses++
		return router.QueryResult{}, false
	}

	c.hits++
	entry.LastAccessAt = c.now()
	c.core.touch(key)
	result := entry.Result
	result.FromCache = true
	return result, true
}

// Put stores result under key with the witness that certifies it.
func (c *Cache) Put(key string, result router.QueryResult, witnessPaths []string, witnessMaxMTime time.Time, byteSizeHint int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	sorted := append([]string(nil), witnessPaths...)
	sort.Strings(sorted)

	entry := &router.CacheEntry{
		Key:             key,
		Result:          result,
		InsertedAt:      now,
		LastAccessAt:    now,
		WitnessPaths:    sorted,
		WitnessMaxMTime: witnessMaxMTime,
		ByteSizeHint:    byteSizeHint,
	}
	if c.ttl > 0 {
		entry.ExpiresAt = now.Add(c.ttl)
	}
	c.entries[key] = entry
	if evicted, didEvict := c.core.touch(key); didEvict {
		delete(c.entries, evicted)
		c.evictions++
	}
}

// Invalidate removes key unconditionally.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evictLocked(key)
}

// InvalidateMatching removes every entry with at least one witness path
// satisfying matches — a table drop or a partition rewrite invalidates
// every cached result that read from it, without the caller needing to
// know each result's exact cache key.
func (c *Cache) InvalidateMatching(matches func(witnessPath string) bool) (removed int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.entries {
		for _, p := range entry.WitnessPaths {
			if matches(p) {
				c.evictLocked(key)
				removed++
				break
			}
		}
	}
	return removed
}

// Clear removes every entry and resets hit/miss counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*router.CacheEntry)
	c.core = newLRUCore(c.core.capacity)
	c.hits, c.misses = 0, 0
	c.evictions, c.expirations, c.staleInvalidations = 0, 0, 0
}

// Stats returns a snapshot of cache effectiveness.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Entries:            len(c.entries),
		Capacity:           c.core.capacity,
		Hits:               c.hits,
		Misses:             c.misses,
		Evictions:          c.evictions,
		Expirations:        c.expirations,
		StaleInvalidations: c.staleInvalidations,
	}
}

func (c *Cache) evictLocked(key string) {
	delete(c.entries, key)
	c.core.remove(key)
}

func witnessesMatch(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

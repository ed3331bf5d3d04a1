package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/abfhdays/intelligent-query-router"
	"github.com/stretchr/testify/require"
)

func TestCacheKeyIsOrderInsensitiveToWitnessPaths(t *testing.T) {
	a := Key("SELECT 1", []string{"b", "a", "c"})
	b := Key("SELECT 1", []string{"c", "b", "a"})
	require.Equal(t, a, b)
}

func TestCacheKeyChangesWithCanonicalText(t *testing.T) {
	a := Key("SELECT 1", nil)
	b := Key("SELECT 2", nil)
	require.NotEqual(t, a, b)
}

func TestCachePutThenGetHits(t *testing.T) {
	c := New(router.CacheConfig{MaxEntries: 10, TTL: time.Hour})
	mtime := time.Unix(1000, 0)
	c.Put("k1", router.QueryResult{RowsProcessed: 5}, []string{"a", "b"}, mtime, 100)

	result, ok := c.Get("k1", []string{"a", "b"}, mtime)
	require.True(t, ok)
	require.True(t, result.FromCache)
	require.Equal(t, int64(5), result.RowsProcessed)

	stats := c.Stats()
	require.Equal(t, uint64(1), stats.Hits)
	require.Equal(t, uint64(0), stats.Misses)
}

func TestCacheMissOnUnknownKey(t *testing.T) {
	c := New(router.CacheConfig{MaxEntries: 10, TTL: time.Hour})
	_, ok := c.Get("missing", nil, time.Time{})
	require.False(t, ok)
	require.Equal(t, uint64(1), c.Stats().Misses)
}

func TestCacheInvalidatesOnWitnessMTimeChange(t *testing.T) {
	c := New(router.CacheConfig{MaxEntries: 10, TTL: time.Hour})
	c.Put("k1", router.QueryResult{}, []string{"a"}, time.Unix(100, 0), 10)

	_, ok := c.Get("k1", []string{"a"}, time.Unix(200, 0))
	require.False(t, ok)

	stats := c.Stats()
	require.Equal(t, 0, stats.Entries)
	require.Equal(t, uint64(1), stats.StaleInvalidations)
}

func TestCacheInvalidatesOnWitnessPathsChange(t *testing.T) {
	c := New(router.CacheConfig{MaxEntries: 10, TTL: time.Hour})
	mtime := time.Unix(100, 0)
	c.Put("k1", router.QueryResult{}, []string{"a", "b"}, mtime, 10)

	_, ok := c.Get("k1", []string{"a", "b", "c"}, mtime)
	require.False(t, ok)
}

func TestCacheTTLExpiry(t *testing.T) {
	c := New(router.CacheConfig{MaxEntries: 10, TTL: time.Second})
	fakeNow := time.Unix(1000, 0)
	c.now = func() time.Time { return fakeNow }
	c.Put("k1", router.QueryResult{}, nil, time.Time{}, 10)

	fakeNow = fakeNow.Add(2 * time.Second)
	_, ok := c.Get("k1", nil, time.Time{})
	require.False(t, ok)
	require.Equal(t, uint64(1), c.Stats().Expirations)
}

func TestCacheLRUEviction(t *testing.T) {
	c := New(router.CacheConfig{MaxEntries: 2, TTL: time.Hour})
	c.Put("k1", router.QueryResult{}, nil, time.Time{}, 1)
	c.Put("k2", router.QueryResult{}, nil, time.Time{}, 1)
	c.Put("k3", router.QueryResult{}, nil, time.Time{}, 1) // evicts k1

	_, ok := c.Get("k1", nil, time.Time{})
	require.False(t, ok)
	_, ok = c.Get("k2", nil, time.Time{})
	require.True(t, ok)
	_, ok = c.Get("k3", nil, time.Time{})
	require.True(t, ok)

	stats := c.Stats()
	require.Equal(t, uint64(1), stats.Evictions)
	require.Equal(t, 2, stats.Capacity)
}

func TestCacheHitRateZeroDenominator(t *testing.T) {
	require.Equal(t, 0.0, Stats{}.HitRate())
}

func TestCacheInvalidateAndClear(t *testing.T) {
	c := New(router.CacheConfig{MaxEntries: 10, TTL: time.Hour})
	c.Put("k1", router.QueryResult{}, nil, time.Time{}, 1)
	c.Invalidate("k1")
	_, ok := c.Get("k1", nil, time.Time{})
	require.False(t, ok)

	c.Put("k2", router.QueryResult{}, nil, time.Time{}, 1)
	c.Clear()
	require.Equal(t, 0, c.Stats().Entries)
}

func TestCacheInvalidateMatchingRemovesByWitnessPath(t *testing.T) {
	c := New(router.CacheConfig{MaxEntries: 10, TTL: time.Hour})
	c.Put("orders-k1", router.QueryResult{}, []string{"/data/orders/2024/01/a.parquet"}, time.Time{}, 1)
	c.Put("orders-k2", router.QueryResult{}, []string{"/data/orders/2024/02/b.parquet"}, time.Time{}, 1)
	c.Put("events-k1", router.QueryResult{}, []string{"/data/events/2024/01/a.parquet"}, time.Time{}, 1)

	removed := c.InvalidateMatching(func(p string) bool {
		return strings.HasPrefix(p, "/data/orders/")
	})
	require.Equal(t, 2, removed)

	_, ok := c.Get("orders-k1", []string{"/data/orders/2024/01/a.parquet"}, time.Time{})
	require.False(t, ok)
	_, ok = c.Get("orders-k2", []string{"/data/orders/2024/02/b.parquet"}, time.Time{})
	require.False(t, ok)
	_, ok = c.Get("events-k1", []string{"/data/events/2024/01/a.parquet"}, time.Time{})
	require.True(t, ok)
}

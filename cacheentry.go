package router

import "time"

// QueryResult is the tabular outcome of executing (or replaying from cache)
// an analyzed query (spec.md §3).
type QueryResult struct {
	Columns         []ColumnSchema
	Rows            [][]any
	BackendUsed     BackendKind
	ExecutionTimeMS float64
	RowsProcessed   int64
	ScanPlanSummary PruneStats
	FromCache       bool
}

// CacheEntry is one stored result plus the bookkeeping the Cache needs for
// LRU eviction, TTL expiry, and witness-based invalidation (spec.md §3, §4.4).
type CacheEntry struct {
	Key             string
	Result          QueryResult
	InsertedAt      time.Time
	LastAccessAt    time.Time
	ExpiresAt       time.Time // zero value means "no TTL"
	WitnessPaths    []string
	WitnessMaxMTime time.Time
	ByteSizeHint    int64
}

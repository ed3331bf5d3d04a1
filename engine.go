package router

import (
	"context"

	"github.com/abfhdays/intelligent-query-router/internal/cache"
	"github.com/abfhdays/intelligent-query-router/internal/engine"
	"github.com/abfhdays/intelligent-query-router/internal/partition"
	"go.uber.org/zap"
)

// Engine is the public entry point: construct one with New and call
// Execute or Explain. The pipeline itself lives in internal/engine; this
// type re-exports it so callers only ever import the root package, the
// same split the teacher draws between its internal repositories and the
// top-level factory.Builder.
type Engine struct {
	inner *engine.Engine
}

// FileSystem abstracts the storage backend partition discovery walks:
// local disk (internal/partition.LocalFileSystem) or S3
// (internal/partition.S3FileSystem).
type FileSystem = partition.FileSystem

// CacheStats reports the result cache's effectiveness counters.
type CacheStats = cache.Stats

// Explanation is Explain's output.
type Explanation = engine.Explanation

// New wires an Engine from a validated Config, a Catalog, a FileSystem for
// partition discovery, and the registered Executors keyed by the backend
// kind they serve. logger may be nil.
func New(cfg *Config, catalog Catalog, fs FileSystem, execs map[BackendKind]Executor, logger *zap.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{inner: engine.New(cfg, catalog, fs, execs, logger)}, nil
}

// Execute runs a SQL query through the full analyze -> prune -> cache ->
// select -> dispatch pipeline and returns its result.
func (e *Engine) Execute(ctx context.Context, sql string) (*QueryResult, error) {
	return e.inner.Execute(ctx, sql)
}

// Explain runs the pipeline up to backend selection without dispatching to
// an Executor or consulting the result cache.
func (e *Engine) Explain(ctx context.Context, sql string) (*Explanation, error) {
	return e.inner.Explain(ctx, sql)
}

// CacheStats reports the result cache's hit/miss counters.
func (e *Engine) CacheStats() CacheStats { return e.inner.CacheStats() }

// CacheClear drops every cached entry.
func (e *Engine) CacheClear() { e.inner.CacheClear() }

// CacheInvalidateTable drops every cached entry whose result was computed
// from a file under table's root, for callers that know a table's data
// changed out of band and don't want to wait for witness mismatch to
// catch it on the next lookup.
func (e *Engine) CacheInvalidateTable(table Table) int {
	return e.inner.CacheInvalidateTable(table)
}

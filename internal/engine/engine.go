// Package engine orchestrates the full analyze -> prune -> cache ->
// select -> dispatch pipeline (spec.md §3, §4.5).
package engine

import (
	"context"
	"strings"
	"sync"

	"github.com/abfhdays/intelligent-query-router"
	"github.com/abfhdays/intelligent-query-router/internal/cache"
	"github.com/abfhdays/intelligent-query-router/internal/cost"
	"github.com/abfhdays/intelligent-query-router/internal/partition"
	"github.com/abfhdays/intelligent-query-router/internal/sqlfront"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine is the top-level orchestrator: it owns the Catalog, the partition
// Index per table, the result Cache, and the registered Executors, and
// drives one query through every subsystem.
type Engine struct {
	cfg     *router.Config
	catalog router.Catalog
	fs      partition.FileSystem
	cache   *cache.Cache
	execs   map[router.BackendKind]router.Executor
	logger  *zap.Logger

	mu      sync.Mutex
	indexes map[string]*partition.Index
}

// New wires an Engine from its dependencies. logger may be nil, in which
// case a no-op logger is used.
func New(cfg *router.Config, catalog router.Catalog, fs partition.FileSystem, execs map[router.BackendKind]router.Executor, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:     cfg,
		catalog: catalog,
		fs:      fs,
		cache:   cache.New(cfg.Cache),
		execs:   execs,
		logger:  logger,
		indexes: make(map[string]*partition.Index),
	}
}

// Explanation is Explain's output: everything Execute would have computed
// up to (but not including) dispatch and caching.
type Explanation struct {
	Analyzed   router.AnalyzedQuery
	ScanPlan   router.ScanPlan
	Candidates []router.BackendCandidate
	Chosen     router.BackendCandidate
}

// Execute runs the full pipeline and returns a QueryResult, consulting and
// populating the result cache.
func (e *Engine) Execute(ctx context.Context, sql string) (*router.QueryResult, error) {
	log := e.logger.With(zap.String("request_id", uuid.New().String()))

	analyzed, tables, err := e.analyzeAndResolve(ctx, sql)
	if err != nil {
		return nil, err
	}

	plan, err := e.prune(ctx, analyzed, tables)
	if err != nil {
		return nil, err
	}

	witnessPaths := plan.WitnessPaths()
	witnessMaxMTime := plan.WitnessMaxMTime()
	key := cache.Key(analyzed.CanonicalText, witnessPaths)

	if cached, ok := e.cache.Get(key, witnessPaths, witnessMaxMTime); ok {
		log.Debug("cache hit", zap.String("canonical_text", analyzed.CanonicalText))
		return &cached, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, router.NewCancelledError()
	}

	chosen, all, err := cost.Select(plan.TotalBytes(), analyzed.Features, e.cfg.Selector)
	if err != nil {
		return nil, err
	}

	schemas := declaredSchemas(tables)
	result, err := e.dispatch(ctx, log, chosen, all, *analyzed, plan, schemas)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, router.NewCancelledError()
	}

	e.cache.Put(key, *result, witnessPaths, witnessMaxMTime, plan.TotalBytes())
	return result, nil
}

// Explain runs analyze, prune, and backend selection without dispatching to
// an Executor or touching the cache.
func (e *Engine) Explain(ctx context.Context, sql string) (*Explanation, error) {
	log := e.logger.With(zap.String("request_id", uuid.New().String()))
	log.Debug("explain", zap.String("sql", sql))

	analyzed, tables, err := e.analyzeAndResolve(ctx, sql)
	if err != nil {
		return nil, err
	}
	plan, err := e.prune(ctx, analyzed, tables)
	if err != nil {
		return nil, err
	}
	chosen, all, err := cost.Select(plan.TotalBytes(), analyzed.Features, e.cfg.Selector)
	if err != nil {
		return &Explanation{Analyzed: *analyzed, ScanPlan: *plan, Candidates: all}, err
	}
	return &Explanation{Analyzed: *analyzed, ScanPlan: *plan, Candidates: all, Chosen: chosen}, nil
}

// CacheStats exposes the cache's effectiveness counters.
func (e *Engine) CacheStats() cache.Stats { return e.cache.Stats() }

// CacheClear drops every cached entry.
func (e *Engine) CacheClear() { e.cache.Clear() }

// CacheInvalidateTable drops every cached entry whose witness paths fall
// under table's root, e.g. after an out-of-band write makes its on-disk
// data inconsistent with what the cache observed.
func (e *Engine) CacheInvalidateTable(table router.Table) int {
	root := table.RootPath
	if !strings.HasSuffix(root, "/") {
		root += "/"
	}
	return e.cache.InvalidateMatching(func(witnessPath string) bool {
		return strings.HasPrefix(witnessPath, root)
	})
}

func (e *Engine) analyzeAndResolve(ctx context.Context, sql string) (*router.AnalyzedQuery, map[string]router.Table, error) {
	analyzed, err := sqlfront.Analyze(sql, router.Dialect(e.cfg.Dialect.Default))
	if err != nil {
		return nil, nil, err
	}
	tables := make(map[string]router.Table, len(analyzed.ReferencedTables))
	for _, name := range analyzed.ReferencedTables {
		t, err := e.catalog.Lookup(name)
		if err != nil {
			return nil, nil, err
		}
		tables[name] = t
	}
	if err := validatePredicateColumns(tables, analyzed.PredicatesByTable); err != nil {
		return nil, nil, err
	}
	return analyzed, tables, nil
}

// validatePredicateColumns resolves every predicate's column against its
// table's declared schema, when one is registered, surfacing
// AmbiguousColumn if resolution is ambiguous. Tables with no declared
// schema (DeclaredSchema is nil) are skipped, matching spec.md §3:
// AmbiguousColumn is only raised when a schema is registered.
func validatePredicateColumns(tables map[string]router.Table, byTable map[string][]router.Predicate) error {
	for tableName, preds := range byTable {
		t, ok := tables[tableName]
		if !ok {
			continue // the Other bucket, keyed by "", has no single table
		}
		for _, p := range preds {
			if p.Column == "" {
				continue
			}
			if _, _, err := t.ResolveColumn(p.Column); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Engine) prune(ctx context.Context, analyzed *router.AnalyzedQuery, tables map[string]router.Table) (*router.ScanPlan, error) {
	indexes := make(map[string]*partition.Index, len(tables))
	for name, t := range tables {
		indexes[name] = e.indexFor(t)
	}
	return partition.Prune(ctx, analyzed, indexes)
}

func (e *Engine) indexFor(t router.Table) *partition.Index {
	e.mu.Lock()
	defer e.mu.Unlock()
	if idx, ok := e.indexes[t.Name]; ok {
		return idx
	}
	idx := partition.NewIndex(t, e.fs)
	e.indexes[t.Name] = idx
	return idx
}

func declaredSchemas(tables map[string]router.Table) map[string][]router.ColumnDef {
	out := make(map[string][]router.ColumnDef, len(tables))
	for name, t := range tables {
		out[name] = t.DeclaredSchema
	}
	return out
}

func allFiles(plan *router.ScanPlan) []router.FileDescriptor {
	var files []router.FileDescriptor
	for _, ts := range plan.PerTable {
		files = append(files, ts.Files...)
	}
	return files
}

// Package execref provides a reference Executor implementation backed by
// an embedded DuckDB instance. It is not one of the three production
// backend kinds the cost model ranks (vectorized/parallel/distributed are
// external engines per spec.md §4.3) — it exists so cmd/router's execute
// and benchmark subcommands have a real, runnable Executor to dispatch
// against without standing up the production fleet.
package execref

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/abfhdays/intelligent-query-router"
	_ "github.com/duckdb/duckdb-go/v2"
)

// DuckDBExecutor runs an AnalyzedQuery's canonical text directly against an
// embedded DuckDB database, reading the files the scan plan selected
// through DuckDB's Parquet reader. Grounded on the teacher's
// internal/duckdb_conn.go: open via database/sql, install httpfs for
// S3-backed file paths, configure via PRAGMA.
type DuckDBExecutor struct {
	db *sql.DB
}

// NewDuckDBExecutor opens an in-process DuckDB database. dsn is typically
// ":memory:" for tests/benchmarks or a path to a persistent database file.
func NewDuckDBExecutor(dsn string) (*DuckDBExecutor, error) {
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	if _, err := db.Exec("INSTALL httpfs; LOAD httpfs;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("install httpfs extension: %w", err)
	}
	return &DuckDBExecutor{db: db}, nil
}

// Close releases the underlying DuckDB connection.
func (e *DuckDBExecutor) Close() error { return e.db.Close() }

// Execute implements router.Executor. It registers the scan plan's files as
// a view per referenced table (via DuckDB's read_parquet table function;
// every file is read as Parquet) and runs the query's canonical text
// against those views.
func (e *DuckDBExecutor) Execute(ctx context.Context, ast router.AnalyzedQuery, files []router.FileDescriptor, schemas map[string][]router.ColumnDef, limits router.ExecutionLimits) (*router.ExecutorResult, error) {
	start := time.Now()

	if limits.MemoryLimit > 0 {
		stmt := fmt.Sprintf("SET memory_limit='%dB';", limits.MemoryLimit)
		if _, err := e.db.ExecContext(ctx, stmt); err != nil {
			return nil, router.NewExecutorError(router.ExecutorErrPermanent, "set memory_limit", err)
		}
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if limits.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, limits.Timeout)
		defer cancel()
	}

	if err := bindTableViews(runCtx, e.db, ast.ReferencedTables, files); err != nil {
		return nil, err
	}

	rows, err := e.db.QueryContext(runCtx, ast.CanonicalText)
	if err != nil {
		return nil, classifyDuckDBError(err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, router.NewExecutorError(router.ExecutorErrPermanent, "read columns", err)
	}
	schema := make([]router.ColumnSchema, len(cols))
	for i, c := range cols {
		schema[i] = router.ColumnSchema{Name: c, Type: router.TypeString}
	}

	var out [][]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, router.NewExecutorError(router.ExecutorErrPermanent, "scan row", err)
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyDuckDBError(err)
	}

	return &router.ExecutorResult{
		Rows:          out,
		Columns:       schema,
		RowsProcessed: int64(len(out)),
		Timings:       router.ExecutorTimings{Total: time.Since(start)},
	}, nil
}

// bindTableViews creates one DuckDB view per referenced table over the
// retained Parquet files for that table, so the query's canonical text (its
// table names unchanged) resolves against exactly the scan plan's files.
func bindTableViews(ctx context.Context, db *sql.DB, tables []string, files []router.FileDescriptor) error {
	byTable := make(map[string][]string)
	for _, f := range files {
		t := tableNameFromPath(f.Path)
		byTable[t] = append(byTable[t], "'"+strings.ReplaceAll(f.Path, "'", "''")+"'")
	}
	for _, t := range tables {
		paths := byTable[t]
		if len(paths) == 0 {
			continue
		}
		stmt := fmt.Sprintf("CREATE OR REPLACE VIEW %s AS SELECT * FROM read_parquet([%s]);",
			quoteIdent(t), strings.Join(paths, ", "))
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return router.NewExecutorError(router.ExecutorErrPermanent, "bind table view", err)
		}
	}
	return nil
}

// tableNameFromPath extracts the table name from a scanned file's path: the
// path segment immediately before the first "key=value" partition
// component, or its parent directory when unpartitioned.
func tableNameFromPath(path string) string {
	parts := strings.Split(strings.TrimPrefix(path, "s3://"), "/")
	for i, p := range parts {
		if strings.Contains(p, "=") && i > 0 {
			return parts[i-1]
		}
	}
	if len(parts) >= 2 {
		return parts[len(parts)-2]
	}
	return ""
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func classifyDuckDBError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "out of memory"):
		return router.NewExecutorError(router.ExecutorErrOutOfMemory, "duckdb out of memory", err)
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return router.NewExecutorError(router.ExecutorErrTimeout, "duckdb timed out", err)
	case strings.Contains(msg, "temporarily") || strings.Contains(msg, "resource"):
		return router.NewExecutorError(router.ExecutorErrTransientResource, "duckdb resource pressure", err)
	default:
		return router.NewExecutorError(router.ExecutorErrPermanent, "duckdb query failed", err)
	}
}

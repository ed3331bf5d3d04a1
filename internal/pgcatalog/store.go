// Package pgcatalog is a durable router.Catalog backed by Postgres. It
// lets table registrations survive a process restart; the result cache and
// partition indexes remain process-local and are rebuilt from the
// filesystem on first use (DESIGN.md's Open Question (b) decision).
package pgcatalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abfhdays/intelligent-query-router"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// dbconn is the subset of pgxpool.Pool's API that Store depends on, so unit
// tests can substitute pgxmock's connection in place of a live pool.
// Grounded on the teacher's postgres_repository.go, which takes the same
// narrow-interface approach for testability.
type dbconn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is a Postgres-backed router.Catalog.
type Store struct {
	pool dbconn
	// closer is non-nil when pool owns a real connection that needs
	// releasing; tests that inject a mock dbconn leave this nil.
	closer func()
}

// Open connects to dsn, verifies connectivity, and ensures the backing
// table exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres catalog: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres catalog: %w", err)
	}
	s := &Store{pool: pool, closer: pool.Close}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// newWithConn wires Store to an existing dbconn (real or mocked) without
// owning its lifecycle. Used by store_test.go's pgxmock-backed tests.
func newWithConn(conn dbconn) *Store { return &Store{pool: conn} }

// Close releases the connection pool, if this Store owns one.
func (s *Store) Close() {
	if s.closer != nil {
		s.closer()
	}
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS router_tables (
		name TEXT PRIMARY KEY,
		root_path TEXT NOT NULL,
		declared_schema JSONB
	)`)
	if err != nil {
		return fmt.Errorf("ensure router_tables schema: %w", err)
	}
	return nil
}

// RegisterTable implements router.Catalog.
func (s *Store) RegisterTable(t router.Table) error {
	ctx := context.Background()
	schemaJSON, err := json.Marshal(t.DeclaredSchema)
	if err != nil {
		return fmt.Errorf("marshal declared schema for %q: %w", t.Name, err)
	}
	_, err = s.pool.Exec(ctx, `INSERT INTO router_tables (name, root_path, declared_schema)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET root_path = excluded.root_path, declared_schema = excluded.declared_schema`,
		t.Name, t.RootPath, schemaJSON)
	if err != nil {
		return fmt.Errorf("register table %q: %w", t.Name, err)
	}
	return nil
}

// Lookup implements router.Catalog.
func (s *Store) Lookup(name string) (router.Table, error) {
	ctx := context.Background()
	row := s.pool.QueryRow(ctx, `SELECT root_path, declared_schema FROM router_tables WHERE name = $1`, name)
	var rootPath string
	var schemaJSON []byte
	if err := row.Scan(&rootPath, &schemaJSON); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return router.Table{}, router.NewUnknownTableError(name)
		}
		return router.Table{}, fmt.Errorf("lookup table %q: %w", name, err)
	}
	schema, err := decodeSchema(schemaJSON)
	if err != nil {
		return router.Table{}, err
	}
	return router.Table{Name: name, RootPath: rootPath, DeclaredSchema: schema}, nil
}

// Tables implements router.Catalog.
func (s *Store) Tables() []router.Table {
	ctx := context.Background()
	rows, err := s.pool.Query(ctx, `SELECT name, root_path, declared_schema FROM router_tables`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var out []router.Table
	for rows.Next() {
		var name, rootPath string
		var schemaJSON []byte
		if err := rows.Scan(&name, &rootPath, &schemaJSON); err != nil {
			continue
		}
		schema, err := decodeSchema(schemaJSON)
		if err != nil {
			continue
		}
		out = append(out, router.Table{Name: name, RootPath: rootPath, DeclaredSchema: schema})
	}
	return out
}

func decodeSchema(raw []byte) ([]router.ColumnDef, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var schema []router.ColumnDef
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("unmarshal declared schema: %w", err)
	}
	return schema, nil
}

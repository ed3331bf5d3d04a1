//go:build integration

package pgcatalog

import (
	"context"
	"testing"
	"time"

	router "github.com/abfhdays/intelligent-query-router"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestStoreAgainstRealPostgres exercises Open/RegisterTable/Lookup/Tables
// against a throwaway Postgres container. Opt-in via `-tags integration`,
// the same split the teacher draws between its pgxmock unit tests and its
// testcontainers-backed e2e_harness.
func TestStoreAgainstRealPostgres(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("router_catalog"),
		postgres.WithUsername("router"),
		postgres.WithPassword("router"),
		testcontainers.WithWaitStrategy(wait.ForListeningPort("5432/tcp").WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	defer container.Terminate(ctx)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := Open(ctx, dsn)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.RegisterTable(router.Table{
		Name:     "orders",
		RootPath: "/data/orders",
		DeclaredSchema: []router.ColumnDef{
			{Name: "id", Type: router.TypeInt64},
			{Name: "region", Type: router.TypeString},
		},
	}))

	got, err := store.Lookup("orders")
	require.NoError(t, err)
	require.Equal(t, "/data/orders", got.RootPath)
	require.Len(t, got.DeclaredSchema, 2)

	tables := store.Tables()
	require.Len(t, tables, 1)

	_, err = store.Lookup("missing")
	require.Error(t, err)
	var rerr *router.RouterError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, router.ErrKindUnknownTable, rerr.Kind)
}

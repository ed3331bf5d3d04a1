package pgcatalog

import (
	"context"
	"testing"

	"github.com/abfhdays/intelligent-query-router"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func TestRegisterTableUpsertsRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO router_tables`).
		WithArgs("orders", "/data/orders", []byte("null")).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	s := newWithConn(mock)
	err = s.RegisterTable(router.Table{Name: "orders", RootPath: "/data/orders"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLookupReturnsTable(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"root_path", "declared_schema"}).
		AddRow("/data/orders", []byte(`[{"Name":"id","Type":"int"}]`))
	mock.ExpectQuery(`SELECT root_path, declared_schema FROM router_tables`).
		WithArgs("orders").
		WillReturnRows(rows)

	s := newWithConn(mock)
	tbl, err := s.Lookup("orders")
	require.NoError(t, err)
	require.Equal(t, "orders", tbl.Name)
	require.Equal(t, "/data/orders", tbl.RootPath)
	require.Len(t, tbl.DeclaredSchema, 1)
	require.Equal(t, "id", tbl.DeclaredSchema[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLookupUnknownTableReturnsRouterError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT root_path, declared_schema FROM router_tables`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"root_path", "declared_schema"}))

	s := newWithConn(mock)
	_, err = s.Lookup("missing")
	require.Error(t, err)
	var rerr *router.RouterError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, router.ErrKindUnknownTable, rerr.Kind)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTablesListsAllRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"name", "root_path", "declared_schema"}).
		AddRow("orders", "/data/orders", []byte("null")).
		AddRow("events", "/data/events", []byte("null"))
	mock.ExpectQuery(`SELECT name, root_path, declared_schema FROM router_tables`).
		WillReturnRows(rows)

	s := newWithConn(mock)
	tables := s.Tables()
	require.Len(t, tables, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchemaCreatesTable(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS router_tables`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	s := newWithConn(mock)
	require.NoError(t, s.ensureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

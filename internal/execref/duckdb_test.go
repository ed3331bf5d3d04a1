package execref

import (
	"errors"
	"testing"

	"github.com/abfhdays/intelligent-query-router"
	"github.com/stretchr/testify/require"
)

func TestTableNameFromPathPartitioned(t *testing.T) {
	require.Equal(t, "orders", tableNameFromPath("/data/orders/date=2024-11-01/a.parquet"))
}

func TestTableNameFromPathUnpartitioned(t *testing.T) {
	require.Equal(t, "events", tableNameFromPath("/data/events/a.parquet"))
}

func TestTableNameFromPathS3(t *testing.T) {
	require.Equal(t, "orders", tableNameFromPath("s3://bucket/orders/date=2024-11-01/a.parquet"))
}

func TestClassifyDuckDBErrorKinds(t *testing.T) {
	cases := map[string]router.ExecutorErrorKind{
		"Out of Memory Error: failed to allocate": router.ExecutorErrOutOfMemory,
		"query execution timeout exceeded":        router.ExecutorErrTimeout,
		"resource temporarily unavailable":        router.ExecutorErrTransientResource,
		"binder error: table not found":           router.ExecutorErrPermanent,
	}
	for msg, want := range cases {
		err := classifyDuckDBError(errors.New(msg))
		var rerr *router.RouterError
		require.ErrorAs(t, err, &rerr)
		require.Equal(t, string(want), rerr.Code)
	}
}

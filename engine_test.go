package router

import (
	"context"
	"testing"

	"github.com/abfhdays/intelligent-query-router/internal/partition"
	"github.com/stretchr/testify/require"
)

type noopExecutor struct{}

func (noopExecutor) Execute(ctx context.Context, ast AnalyzedQuery, files []FileDescriptor, schemas map[string][]ColumnDef, limits ExecutionLimits) (*ExecutorResult, error) {
	return &ExecutorResult{}, nil
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.MaxEntries = -1

	_, err := New(cfg, NewInMemoryCatalog(), partition.LocalFileSystem{}, map[BackendKind]Executor{}, nil)
	require.Error(t, err)
}

func TestNewWiresEngineFromValidConfig(t *testing.T) {
	cfg := DefaultConfig()
	catalog := NewInMemoryCatalog()
	require.NoError(t, catalog.RegisterTable(Table{Name: "orders", RootPath: "/data/orders"}))

	execs := map[BackendKind]Executor{
		BackendVectorized:  noopExecutor{},
		BackendParallel:    noopExecutor{},
		BackendDistributed: noopExecutor{},
	}
	eng, err := New(cfg, catalog, partition.LocalFileSystem{}, execs, nil)
	require.NoError(t, err)
	require.NotNil(t, eng)

	stats := eng.CacheStats()
	require.Equal(t, 0, stats.Entries)
}

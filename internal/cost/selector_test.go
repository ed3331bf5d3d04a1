package cost

import (
	"testing"

	"github.com/abfhdays/intelligent-query-router"
	"github.com/stretchr/testify/require"
)

func TestSelectPicksVectorizedForSmallScans(t *testing.T) {
	cfg := router.SelectorConfig{
		MemoryLimitVectorizedBytes: 8 << 30,
		MemoryLimitParallelBytes:   64 << 30,
		DistributedNodes:           4,
	}
	chosen, all, err := Select(10<<20, router.Features{Selectivity: 0.5}, cfg)
	require.NoError(t, err)
	require.Equal(t, router.BackendVectorized, chosen.Kind)
	require.Len(t, all, 3)
}

func TestSelectIsDeterministic(t *testing.T) {
	cfg := router.SelectorConfig{MemoryLimitVectorizedBytes: 8 << 30, MemoryLimitParallelBytes: 64 << 30, DistributedNodes: 1}
	features := router.Features{Joins: 2, Aggregations: 1, Selectivity: 0.3}
	first, _, err := Select(500<<20, features, cfg)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, _, err := Select(500<<20, features, cfg)
		require.NoError(t, err)
		require.Equal(t, first.Kind, again.Kind)
		require.Equal(t, first.EstimatedMS, again.EstimatedMS)
	}
}

func TestSelectMemoryCrossoverScenario(t *testing.T) {
	features := router.Features{Selectivity: 1.0}
	bytesScanned := int64(20) << 30 // 20GB

	tight := router.SelectorConfig{MemoryLimitVectorizedBytes: 8 << 30, MemoryLimitParallelBytes: 16 << 30, DistributedNodes: 4}
	chosen, _, err := Select(bytesScanned, features, tight)
	require.NoError(t, err)
	require.Equal(t, router.BackendDistributed, chosen.Kind)
	require.Contains(t, chosen.Reason, "memory")

	roomy := router.SelectorConfig{MemoryLimitVectorizedBytes: 8 << 30, MemoryLimitParallelBytes: 200 << 30, DistributedNodes: 4}
	chosen, _, err = Select(bytesScanned, features, roomy)
	require.NoError(t, err)
	require.Equal(t, router.BackendParallel, chosen.Kind)
	require.Contains(t, chosen.Reason, "memory")
	require.Contains(t, chosen.Reason, "vectorized excluded")
}

func TestSelectFeasibilityScalesWithComplexity(t *testing.T) {
	cfg := router.SelectorConfig{MemoryLimitVectorizedBytes: 10 << 30, MemoryLimitParallelBytes: 64 << 30, DistributedNodes: 4}
	bytesScanned := int64(9) << 30 // 9GB: just over vectorized's raw limit is irrelevant here, under it raw

	simple := router.Features{Selectivity: 1.0}
	candidates := Rank(bytesScanned, simple, cfg)
	require.True(t, candidates[0].Feasible) // vectorized: 9GB < 10GB raw, factor 1.0

	complex := router.Features{Selectivity: 1.0, Joins: 5, Aggregations: 3, Windows: 2}
	candidates = Rank(bytesScanned, complex, cfg)
	require.False(t, candidates[0].Feasible) // working set now scaled well past 10GB
	require.Contains(t, candidates[0].Reason, "working_set_factor")
}

func TestSelectNoFeasibleBackendNeverHappensSinceDistributedIsAlwaysFeasible(t *testing.T) {
	cfg := router.SelectorConfig{MemoryLimitVectorizedBytes: 1, MemoryLimitParallelBytes: 1, DistributedNodes: 1}
	chosen, _, err := Select(1<<40, router.Features{Selectivity: 1}, cfg)
	require.NoError(t, err)
	require.Equal(t, router.BackendDistributed, chosen.Kind)
}

// Package cost implements the backend cost model and selector (spec.md §4.3).
package cost

import (
	"math"

	"github.com/abfhdays/intelligent-query-router"
)

// profile is the per-BackendKind cost formula table: estimated_ms =
// startup_ms + (bytes_scanned / throughput) * complexity_multiplier *
// selectivity_factor, where complexity_multiplier = 1 + coefficient *
// ComplexityScore() and selectivity_factor = max(0.1, Features.Selectivity).
type profile struct {
	startupMS      float64
	throughputMBps float64
	coefficient    float64
}

var profiles = map[router.BackendKind]profile{
	router.BackendVectorized:  {startupMS: 100, throughputMBps: 2000, coefficient: 0.10},
	router.BackendParallel:    {startupMS: 200, throughputMBps: 1800, coefficient: 0.08},
	router.BackendDistributed: {startupMS: 15000, throughputMBps: 1500, coefficient: 0.05},
}

// order is the fixed evaluation and tie-break order: Vectorized before
// Parallel before Distributed.
var order = []router.BackendKind{router.BackendVectorized, router.BackendParallel, router.BackendDistributed}

// EstimateMS computes the cost-model estimate for one backend kind given
// the bytes the scan plan retained and the query's shape Features.
// Distributed's effective throughput scales with the configured node
// count.
func EstimateMS(kind router.BackendKind, bytesScanned int64, features router.Features, distributedNodes int) float64 {
	p := profiles[kind]
	throughput := p.throughputMBps
	if kind == router.BackendDistributed {
		nodes := distributedNodes
		if nodes < 1 {
			nodes = 1
		}
		throughput *= float64(nodes)
	}
	multiplier := 1 + p.coefficient*float64(features.ComplexityScore())
	selectivityFactor := math.Max(0.1, features.Selectivity)

	seconds := float64(bytesScanned) / (throughput * 1e6)
	return p.startupMS + seconds*1000*multiplier*selectivityFactor
}

// WorkingSetFactor is the multiplier the feasibility check applies to
// bytes_scanned before comparing against a backend's memory_limit_bytes:
// a complex query (more joins, aggregations, window functions) holds a
// larger intermediate working set per byte scanned than a simple filter
// does, so it reuses the same per-backend coefficient the cost estimate
// scales by.
func WorkingSetFactor(kind router.BackendKind, features router.Features) float64 {
	return 1 + profiles[kind].coefficient*float64(features.ComplexityScore())
}

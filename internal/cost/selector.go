package cost

import (
	"fmt"
	"strings"

	"github.com/abfhdays/intelligent-query-router"
)

// Rank produces one BackendCandidate per backend kind, in the fixed
// evaluation order, with cost estimate and memory feasibility populated.
func Rank(bytesScanned int64, features router.Features, cfg router.SelectorConfig) []router.BackendCandidate {
	candidates := make([]router.BackendCandidate, 0, len(order))
	for _, kind := range order {
		feasible, reason := feasibility(kind, bytesScanned, features, cfg)
		candidates = append(candidates, router.BackendCandidate{
			Kind:        kind,
			EstimatedMS: EstimateMS(kind, bytesScanned, features, cfg.DistributedNodes),
			Feasible:    feasible,
			Reason:      reason,
		})
	}
	return candidates
}

// Select picks the feasible candidate with the lowest estimated cost,
// breaking ties by the fixed evaluation order (Vectorized > Parallel >
// Distributed). Returns NewNoFeasibleBackendError when every candidate is
// infeasible.
func Select(bytesScanned int64, features router.Features, cfg router.SelectorConfig) (router.BackendCandidate, []router.BackendCandidate, error) {
	candidates := Rank(bytesScanned, features, cfg)

	var best *router.BackendCandidate
	for i := range candidates {
		c := &candidates[i]
		if !c.Feasible {
			continue
		}
		if best == nil || c.EstimatedMS < best.EstimatedMS {
			best = c
		}
	}
	if best == nil {
		reasons := make(map[router.BackendKind]string, len(candidates))
		for _, c := range candidates {
			reasons[c.Kind] = c.Reason
		}
		return router.BackendCandidate{}, candidates, router.NewNoFeasibleBackendError(reasons)
	}
	best.Reason = decisionReason(*best, candidates)
	return *best, candidates, nil
}

// feasibility reports whether kind's working set (bytes_scanned scaled by
// WorkingSetFactor, which grows with query complexity) fits under its
// memory_limit_bytes, plus a reason citing the memory comparison either
// way. Distributed has no memory_limit_bytes and is always feasible.
func feasibility(kind router.BackendKind, bytesScanned int64, features router.Features, cfg router.SelectorConfig) (bool, string) {
	factor := WorkingSetFactor(kind, features)
	workingSet := int64(float64(bytesScanned) * factor)
	switch kind {
	case router.BackendVectorized:
		return memoryVerdict(workingSet, bytesScanned, factor, cfg.MemoryLimitVectorizedBytes)
	case router.BackendParallel:
		return memoryVerdict(workingSet, bytesScanned, factor, cfg.MemoryLimitParallelBytes)
	case router.BackendDistributed:
		return true, "memory: unbounded, no memory_limit_bytes configured"
	default:
		return false, "unknown backend kind"
	}
}

func memoryVerdict(workingSet, bytesScanned int64, factor float64, limit int64) (bool, string) {
	if workingSet > limit {
		return false, fmt.Sprintf("memory: working set %d bytes (bytes_scanned %d x working_set_factor %.2f) exceeds limit %d", workingSet, bytesScanned, factor, limit)
	}
	return true, fmt.Sprintf("memory: working set %d bytes (bytes_scanned %d x working_set_factor %.2f) within limit %d", workingSet, bytesScanned, factor, limit)
}

// decisionReason composes the chosen candidate's final Reason: every other
// backend that was excluded as infeasible, wherever it sits in the fixed
// evaluation order, plus why chosen itself won (spec.md §4.3 "reason that cites
// the deciding factor: bytes, complexity, memory, startup").
func decisionReason(chosen router.BackendCandidate, all []router.BackendCandidate) string {
	var parts []string
	for _, c := range all {
		if c.Kind == chosen.Kind || c.Feasible {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s excluded: %s", c.Kind, c.Reason))
	}
	parts = append(parts, fmt.Sprintf("%s selected: %s; estimated_ms %.1f lowest among feasible backends", chosen.Kind, chosen.Reason, chosen.EstimatedMS))
	return strings.Join(parts, "; ")
}

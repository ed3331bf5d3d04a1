package main

import (
	router "github.com/abfhdays/intelligent-query-router"
	"github.com/abfhdays/intelligent-query-router/internal/execref"
)

// buildExecutors wires one DuckDB-backed reference Executor in for all
// three production backend kinds. The vectorized/parallel/distributed
// engines are external services per the execution contract (spec.md
// §4.5); this CLI has no fleet to dispatch to, so standalone execute and
// benchmark runs exercise the reference executor regardless of which
// backend the cost model picks. A deployment with real engines behind
// those kinds would register one router.Executor per kind here instead.
func buildExecutors(duckdbDSN string) (map[router.BackendKind]router.Executor, *execref.DuckDBExecutor, error) {
	exec, err := execref.NewDuckDBExecutor(duckdbDSN)
	if err != nil {
		return nil, nil, err
	}
	return map[router.BackendKind]router.Executor{
		router.BackendVectorized:  exec,
		router.BackendParallel:    exec,
		router.BackendDistributed: exec,
	}, exec, nil
}

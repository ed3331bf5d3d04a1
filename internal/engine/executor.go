package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/abfhdays/intelligent-query-router"
	"go.uber.org/zap"
)

// dispatch sends analyzed to the chosen backend's Executor. A
// TransientResource or OutOfMemory failure degrades to the next-cheapest
// feasible candidate and retries exactly once; Permanent and Timeout
// failures are surfaced immediately (spec.md §4.5 "degrade and retry").
func (e *Engine) dispatch(ctx context.Context, log *zap.Logger, chosen router.BackendCandidate, all []router.BackendCandidate, analyzed router.AnalyzedQuery, plan *router.ScanPlan, schemas map[string][]router.ColumnDef) (*router.QueryResult, error) {
	files := allFiles(plan)
	limits := router.ExecutionLimits{MemoryLimit: memoryLimitFor(chosen.Kind, e.cfg.Selector)}

	res, err := e.executeOn(ctx, chosen.Kind, analyzed, files, schemas, limits)
	if err == nil {
		return toQueryResult(res, chosen.Kind, plan.Stats), nil
	}

	var execErr *router.RouterError
	if errors.As(err, &execErr) && execErr.Kind == router.ErrKindExecutor {
		switch router.ExecutorErrorKind(execErr.Code) {
		case router.ExecutorErrTransientResource, router.ExecutorErrOutOfMemory:
			next, ok := nextFeasible(all, chosen.Kind)
			if !ok {
				return nil, err
			}
			log.Warn("degrading backend after transient failure",
				zap.String("from", string(chosen.Kind)), zap.String("to", string(next.Kind)))
			res2, err2 := e.executeOn(ctx, next.Kind, analyzed, files, schemas, limits)
			if err2 != nil {
				return nil, err2
			}
			return toQueryResult(res2, next.Kind, plan.Stats), nil
		}
	}
	if ctx.Err() != nil {
		return nil, router.NewCancelledError()
	}
	return nil, err
}

func (e *Engine) executeOn(ctx context.Context, kind router.BackendKind, analyzed router.AnalyzedQuery, files []router.FileDescriptor, schemas map[string][]router.ColumnDef, limits router.ExecutionLimits) (*router.ExecutorResult, error) {
	exec, ok := e.execs[kind]
	if !ok {
		return nil, router.NewExecutorError(router.ExecutorErrPermanent, fmt.Sprintf("no executor registered for backend %q", kind), nil)
	}
	res, err := exec.Execute(ctx, analyzed, files, schemas, limits)
	if err != nil {
		var execErr *router.ExecutorError
		if errors.As(err, &execErr) {
			return nil, router.NewExecutorError(execErr.Kind, execErr.Message, execErr.Cause)
		}
		return nil, router.NewExecutorError(router.ExecutorErrPermanent, "executor failed", err)
	}
	return res, nil
}

// nextFeasible returns the lowest-cost feasible candidate other than
// exclude, if any.
func nextFeasible(all []router.BackendCandidate, exclude router.BackendKind) (router.BackendCandidate, bool) {
	var best *router.BackendCandidate
	for i := range all {
		c := &all[i]
		if c.Kind == exclude || !c.Feasible {
			continue
		}
		if best == nil || c.EstimatedMS < best.EstimatedMS {
			best = c
		}
	}
	if best == nil {
		return router.BackendCandidate{}, false
	}
	return *best, true
}

func memoryLimitFor(kind router.BackendKind, cfg router.SelectorConfig) int64 {
	switch kind {
	case router.BackendVectorized:
		return cfg.MemoryLimitVectorizedBytes
	case router.BackendParallel:
		return cfg.MemoryLimitParallelBytes
	default:
		return 0
	}
}

func toQueryResult(res *router.ExecutorResult, kind router.BackendKind, stats router.PruneStats) *router.QueryResult {
	return &router.QueryResult{
		Columns:         res.Columns,
		Rows:            res.Rows,
		BackendUsed:     kind,
		ExecutionTimeMS: float64(res.Timings.Total.Milliseconds()),
		RowsProcessed:   res.RowsProcessed,
		ScanPlanSummary: stats,
	}
}

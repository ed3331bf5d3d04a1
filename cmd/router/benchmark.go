package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type benchmarkRun struct {
	Run        int     `json:"run"`
	Backend    string  `json:"backend"`
	WallMS     float64 `json:"wallMs"`
	EngineMS   float64 `json:"engineMs"`
	RowsOutput int64   `json:"rowsOutput"`
}

// runBenchmark executes sql -iterations times against the reference DuckDB
// executor (router.Engine routes every backend kind to it in CLI wiring, see
// executors.go) and reports wall-clock time plus the engine's own
// ExecutionTimeMS for each run, clearing the result cache before every run
// so each timing reflects a cold run.
func runBenchmark(ctx context.Context, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("benchmark", flag.ContinueOnError)
	f := registerCommonFlags(fs)
	iterations := fs.Int("iterations", 1, "number of times to execute the query")
	asJSON := fs.Bool("json", false, "print per-run results as JSON instead of a summary line")
	if err := fs.Parse(args); err != nil {
		return err
	}
	sql, err := requireSQLArg(fs)
	if err != nil {
		return err
	}
	if *iterations < 1 {
		return fmt.Errorf("-iterations must be at least 1")
	}

	engine, closer, err := wiredEngine(ctx, f, logger)
	if err != nil {
		return err
	}
	defer closer()

	for i := 0; i < *iterations; i++ {
		engine.CacheClear()
		start := time.Now()
		result, err := engine.Execute(ctx, sql)
		if err != nil {
			return err
		}
		wall := time.Since(start)

		if *asJSON {
			out, err := json.Marshal(benchmarkRun{
				Run:        i + 1,
				Backend:    string(result.BackendUsed),
				WallMS:     float64(wall.Microseconds()) / 1000,
				EngineMS:   result.ExecutionTimeMS,
				RowsOutput: result.RowsProcessed,
			})
			if err != nil {
				return fmt.Errorf("marshal benchmark run: %w", err)
			}
			fmt.Println(string(out))
			continue
		}
		fmt.Printf("run %d: backend=%s wall=%s engine_ms=%.2f rows=%d\n",
			i+1, result.BackendUsed, wall, result.ExecutionTimeMS, result.RowsProcessed)
	}
	return nil
}

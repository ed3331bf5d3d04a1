// Command router is the CLI command surface over the intelligent query
// router: execute/explain a query, inspect cache effectiveness, and
// benchmark a query against the reference DuckDB executor. Grounded on the
// teacher's cmd/tools/main.go: os.Args[1] subcommand dispatch, one
// flag.FlagSet per subcommand; a failure is logged and mapped to a process
// exit code by exitCodeFor rather than ending in log.Fatalf.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	router "github.com/abfhdays/intelligent-query-router"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	log.SetFlags(0)
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		printUsage()
		return 2
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		return 2
	}
	defer logger.Sync()

	requestID := uuid.New().String()
	logger = logger.With(zap.String("request_id", requestID))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd, rest := args[0], args[1:]
	var runErr error
	switch cmd {
	case "execute":
		runErr = runExecute(ctx, logger, rest)
	case "explain":
		runErr = runExplain(ctx, logger, rest)
	case "cache-stats":
		runErr = runCacheStats(ctx, logger, rest)
	case "cache-clear":
		runErr = runCacheClear(ctx, logger, rest)
	case "benchmark":
		runErr = runBenchmark(ctx, logger, rest)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		printUsage()
		return 2
	}

	return exitCodeFor(ctx, runErr, logger)
}

func printUsage() {
	fmt.Println("Usage: router <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  execute <sql>     Run a query and print its result")
	fmt.Println("  explain <sql>     Show the scan plan and chosen backend without running the query")
	fmt.Println("  cache-stats       Print result cache hit/miss counters")
	fmt.Println("  cache-clear       Drop every cached result")
	fmt.Println("  benchmark <sql>   Run a query against the reference DuckDB executor and time it")
}

// exitCodeFor maps spec.md §6's exit code table: 0 success, 2 user error
// (parse/unsupported/validation), 3 data error (layout/mtime), 4 executor
// error, 130 cancelled.
func exitCodeFor(ctx context.Context, err error, logger *zap.Logger) int {
	if err == nil {
		return 0
	}

	var rerr *router.RouterError
	if errors.As(err, &rerr) {
		switch rerr.Kind {
		case router.ErrKindCancelled:
			logger.Warn("cancelled", zap.Error(err))
			return 130
		case router.ErrKindParse, router.ErrKindUnsupportedStatement, router.ErrKindValidation, router.ErrKindAmbiguousColumn, router.ErrKindUnknownTable:
			logger.Error("user error", zap.Error(err))
			return 2
		case router.ErrKindPartitionLayout, router.ErrKindTypeCoercion:
			logger.Error("data error", zap.Error(err))
			return 3
		case router.ErrKindExecutor, router.ErrKindNoFeasibleBackend:
			logger.Error("executor error", zap.Error(err))
			return 4
		}
	}

	if ctx.Err() != nil {
		logger.Warn("cancelled", zap.Error(err))
		return 130
	}

	logger.Error("unclassified error", zap.Error(err))
	return 2
}

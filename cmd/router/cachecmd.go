package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"go.uber.org/zap"
)

func runCacheStats(ctx context.Context, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("cache-stats", flag.ContinueOnError)
	f := registerCommonFlags(fs)
	asJSON := fs.Bool("json", false, "print stats as JSON instead of a summary line")
	if err := fs.Parse(args); err != nil {
		return err
	}

	engine, closer, err := wiredEngine(ctx, f, logger)
	if err != nil {
		return err
	}
	defer closer()

	stats := engine.CacheStats()
	if *asJSON {
		out, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal cache stats: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}
	fmt.Printf("entries=%d capacity=%d hits=%d misses=%d evictions=%d expirations=%d staleInvalidations=%d hitRate=%.4f\n",
		stats.Entries, stats.Capacity, stats.Hits, stats.Misses, stats.Evictions, stats.Expirations, stats.StaleInvalidations, stats.HitRate())
	return nil
}

func runCacheClear(ctx context.Context, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("cache-clear", flag.ContinueOnError)
	f := registerCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	engine, closer, err := wiredEngine(ctx, f, logger)
	if err != nil {
		return err
	}
	defer closer()

	engine.CacheClear()
	fmt.Println("cache cleared")
	return nil
}

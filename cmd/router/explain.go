package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"go.uber.org/zap"
)

func runExplain(ctx context.Context, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("explain", flag.ContinueOnError)
	f := registerCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	sql, err := requireSQLArg(fs)
	if err != nil {
		return err
	}

	engine, closer, err := wiredEngine(ctx, f, logger)
	if err != nil {
		return err
	}
	defer closer()

	explanation, err := engine.Explain(ctx, sql)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(explanation, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal explanation: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

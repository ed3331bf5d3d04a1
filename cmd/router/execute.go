package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"go.uber.org/zap"
)

func runExecute(ctx context.Context, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("execute", flag.ContinueOnError)
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

	result, err := engine.Execute(ctx, sql)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"

	router "github.com/abfhdays/intelligent-query-router"
	"go.uber.org/zap"
)

// commonFlags are the wiring options every subcommand accepts: which
// Config/tables file to load, where partition data lives, and which
// DuckDB database backs the reference executor.
type commonFlags struct {
	configPath   string
	tablesPath   string
	duckdbDSN    string
	s3Bucket     string
	s3Region     string
	s3Endpoint   string
	awsAccessKey string
	awsSecretKey string
}

func registerCommonFlags(fs *flag.FlagSet) *commonFlags {
	f := &commonFlags{}
	fs.StringVar(&f.configPath, "config", "", "path to a JSON Config file (defaults to DefaultConfig)")
	fs.StringVar(&f.tablesPath, "tables", "", "path to a JSON tables file registering the Catalog")
	fs.StringVar(&f.duckdbDSN, "duckdb", ":memory:", "DuckDB DSN backing the reference executor")
	fs.StringVar(&f.s3Bucket, "s3-bucket", "", "S3 bucket to walk for partitions (local disk if empty)")
	fs.StringVar(&f.s3Region, "s3-region", "us-east-1", "S3 region")
	fs.StringVar(&f.s3Endpoint, "s3-endpoint", "", "custom S3 endpoint (e.g. for MinIO)")
	fs.StringVar(&f.awsAccessKey, "aws-access-key-id", "", "AWS access key (empty uses the default credential chain)")
	fs.StringVar(&f.awsSecretKey, "aws-secret-access-key", "", "AWS secret key")
	return f
}

// wiredEngine builds a fully wired Engine (and its teardown func) from a
// commonFlags set. Callers must invoke the returned closer once done.
func wiredEngine(ctx context.Context, f *commonFlags, logger *zap.Logger) (*router.Engine, func(), error) {
	cfg, err := loadConfig(f.configPath)
	if err != nil {
		return nil, nil, err
	}
	tables, err := loadTables(f.tablesPath)
	if err != nil {
		return nil, nil, err
	}
	catalog, catalogCloser, err := buildCatalog(ctx, cfg, tables)
	if err != nil {
		return nil, nil, err
	}
	fs, err := buildFileSystem(ctx, f)
	if err != nil {
		if catalogCloser != nil {
			catalogCloser()
		}
		return nil, nil, err
	}
	execs, execCloser, err := buildExecutors(f.duckdbDSN)
	if err != nil {
		if catalogCloser != nil {
			catalogCloser()
		}
		return nil, nil, err
	}

	engine, err := router.New(cfg, catalog, fs, execs, logger)
	if err != nil {
		if catalogCloser != nil {
			catalogCloser()
		}
		execCloser.Close()
		return nil, nil, err
	}

	closer := func() {
		execCloser.Close()
		if catalogCloser != nil {
			catalogCloser()
		}
	}
	return engine, closer, nil
}

func requireSQLArg(fs *flag.FlagSet) (string, error) {
	if fs.NArg() < 1 {
		return "", fmt.Errorf("expected a SQL query argument")
	}
	return fs.Arg(0), nil
}

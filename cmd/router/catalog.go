package main

import (
	"context"
	"fmt"

	router "github.com/abfhdays/intelligent-query-router"
	"github.com/abfhdays/intelligent-query-router/internal/pgcatalog"
)

// buildCatalog wires an in-memory or Postgres-backed Catalog depending on
// whether a DSN was configured, then registers every table the -tables
// file declared. The returned closer is non-nil only for the durable path.
func buildCatalog(ctx context.Context, cfg *router.Config, tables []router.Table) (router.Catalog, func(), error) {
	var catalog router.Catalog
	var closer func()

	if cfg.Catalog.PostgresDSN != "" {
		store, err := pgcatalog.Open(ctx, cfg.Catalog.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres catalog: %w", err)
		}
		catalog, closer = store, store.Close
	} else {
		catalog = router.NewInMemoryCatalog()
	}

	for _, t := range tables {
		if err := catalog.RegisterTable(t); err != nil {
			if closer != nil {
				closer()
			}
			return nil, nil, fmt.Errorf("register table %q: %w", t.Name, err)
		}
	}
	return catalog, closer, nil
}

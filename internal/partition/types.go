// Package partition discovers a table's on-disk partition layout and prunes
// it against a query's per-table predicates (spec.md §3, §4.2).
package partition

import (
	"context"
	"time"
)

// RawFile is one leaf file discovered beneath a table root, before it has
// been grouped into a Partition.
type RawFile struct {
	Path string
	// RelDir is the file's containing directory, relative to the table
	// root, e.g. "date=2024-11-01/region=us". Empty for an unpartitioned
	// table root (files directly under root).
	RelDir  string
	Size    int64
	ModTime time.Time
}

// FileSystem abstracts the partition storage backend: local disk for
// development/tests, S3 for production deployments.
type FileSystem interface {
	Walk(ctx context.Context, root string) ([]RawFile, error)
}

package router

import (
	"sort"
	"time"
)

// FileDescriptor identifies one physical data file within a partition.
type FileDescriptor struct {
	Path    string
	Size    int64
	ModTime time.Time // nanosecond precision, per spec.md §3
}

// Partition is a directory-level subset of a table identified by a tuple of
// key=value pairs encoded in the path (spec.md §3). Invariant: Files is
// non-empty and Files is ordered by path.
type Partition struct {
	// Keys preserves directory nesting order, e.g. [("date","2024-11-01")].
	Keys      []PartitionKey
	Files     []FileDescriptor
	SizeBytes int64
	MaxMTime  time.Time
}

// PartitionKey is one component of a partition's directory path.
type PartitionKey struct {
	Key   string
	Value string
}

// Lookup returns the value bound to key and whether it was present.
func (p Partition) Lookup(key string) (string, bool) {
	for _, kv := range p.Keys {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// ScanPlan is the pruner's output: per table the retained partitions and
// flattened file list, plus pruning statistics (spec.md §3, §4.2).
type ScanPlan struct {
	PerTable map[string]*TableScan
	Stats    PruneStats
}

// TableScan holds the retained partitions and files for a single table.
type TableScan struct {
	Table      string
	Partitions []Partition
	Files      []FileDescriptor
}

// PruneStats summarizes the pruning decision across all referenced tables.
type PruneStats struct {
	PartitionsTotal   int
	PartitionsScanned int
	FractionPruned    float64
	BytesScanned      int64
	Warnings          []string
}

// TotalBytes sums the retained file sizes across all tables in the plan.
func (sp ScanPlan) TotalBytes() int64 {
	var total int64
	for _, ts := range sp.PerTable {
		for _, f := range ts.Files {
			total += f.Size
		}
	}
	return total
}

// WitnessPaths returns the sorted, deduplicated list of file paths that
// certify a cache entry built from this plan (spec.md §4.4).
func (sp ScanPlan) WitnessPaths() []string {
	seen := make(map[string]struct{})
	var paths []string
	for _, ts := range sp.PerTable {
		for _, f := range ts.Files {
			if _, ok := seen[f.Path]; ok {
				continue
			}
			seen[f.Path] = struct{}{}
			paths = append(paths, f.Path)
		}
	}
	sort.Strings(paths)
	return paths
}

// WitnessMaxMTime returns the maximum mtime over the plan's witness files.
func (sp ScanPlan) WitnessMaxMTime() time.Time {
	var max time.Time
	for _, ts := range sp.PerTable {
		for _, f := range ts.Files {
			if f.ModTime.After(max) {
				max = f.ModTime
			}
		}
	}
	return max
}

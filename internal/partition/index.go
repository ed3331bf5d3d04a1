package partition

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/abfhdays/intelligent-query-router"
	"golang.org/x/sync/singleflight"
)

// Index is a table's lazily-built, refreshable partition listing. Modeled
// on the teacher's schema_metadata_cache RWMutex lazy-build pattern:
// readers take a shared lock against the cached snapshot, a rebuild takes
// an exclusive one, and golang.org/x/sync/singleflight collapses concurrent
// rebuild requests into a single filesystem walk.
type Index struct {
	table router.Table
	fs    FileSystem

	mu         sync.RWMutex
	partitions []router.Partition
	built      bool

	group singleflight.Group
}

// NewIndex constructs an empty Index for table, backed by fs.
func NewIndex(table router.Table, fs FileSystem) *Index {
	return &Index{table: table, fs: fs}
}

// Partitions returns the last-built snapshot, or nil if EnsureFresh has
// never succeeded.
func (ix *Index) Partitions() []router.Partition {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.partitions
}

// EnsureFresh rebuilds the index by walking the table's root filesystem.
// Concurrent callers collapse onto a single walk via singleflight.
func (ix *Index) EnsureFresh(ctx context.Context) ([]router.Partition, error) {
	v, err, _ := ix.group.Do(ix.table.Name, func() (any, error) {
		files, err := ix.fs.Walk(ctx, ix.table.RootPath)
		if err != nil {
			return nil, err
		}
		partitions, err := buildPartitions(files)
		if err != nil {
			return nil, err
		}
		ix.mu.Lock()
		ix.partitions = partitions
		ix.built = true
		ix.mu.Unlock()
		return partitions, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]router.Partition), nil
}

// buildPartitions groups RawFiles by their containing directory and
// asserts that every partition directory carries the same ordered key
// sequence (spec.md §3's uniform key-ordering invariant), returning
// PartitionLayoutError otherwise. The check spans the whole table, so
// leaf directories at different depths are rejected as well.
func buildPartitions(files []RawFile) ([]router.Partition, error) {
	byDir := make(map[string][]RawFile)
	var dirs []string
	for _, f := range files {
		if _, ok := byDir[f.RelDir]; !ok {
			dirs = append(dirs, f.RelDir)
		}
		byDir[f.RelDir] = append(byDir[f.RelDir], f)
	}
	sort.Strings(dirs)

	var keySeq []string
	out := make([]router.Partition, 0, len(dirs))
	for _, dir := range dirs {
		keys, err := parsePartitionKeys(dir)
		if err != nil {
			return nil, err
		}
		names := keyNames(keys)
		if keySeq == nil {
			keySeq = names
		} else if !equalStrings(keySeq, names) {
			return nil, router.NewPartitionLayoutError(dir)
		}

		dirFiles := byDir[dir]
		sort.Slice(dirFiles, func(i, j int) bool { return dirFiles[i].Path < dirFiles[j].Path })

		p := router.Partition{Keys: keys}
		for _, rf := range dirFiles {
			p.Files = append(p.Files, router.FileDescriptor{Path: rf.Path, Size: rf.Size, ModTime: rf.ModTime})
			p.SizeBytes += rf.Size
			if rf.ModTime.After(p.MaxMTime) {
				p.MaxMTime = rf.ModTime
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func parsePartitionKeys(dir string) ([]router.PartitionKey, error) {
	if dir == "" {
		return nil, nil
	}
	segments := strings.Split(dir, "/")
	keys := make([]router.PartitionKey, 0, len(segments))
	for _, seg := range segments {
		idx := strings.IndexByte(seg, '=')
		if idx < 0 {
			return nil, router.NewPartitionLayoutError(dir).WithDetail("segment", seg)
		}
		keys = append(keys, router.PartitionKey{Key: seg[:idx], Value: seg[idx+1:]})
	}
	return keys, nil
}

func keyNames(keys []router.PartitionKey) []string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.Key
	}
	return names
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

package partition

import (
	"context"

	"github.com/abfhdays/intelligent-query-router"
)

// Prune resolves each referenced table's Index and retains only the
// partitions whose key=value directory components are consistent with that
// table's predicates (spec.md §4.2). A predicate whose column isn't one of
// the partition's keys can't be decided from the directory name alone and
// never prunes; a partition value that fails to parse under the
// predicate's literal kind is retained conservatively and recorded as a
// type_coercion warning rather than treated as a pruning failure.
func Prune(ctx context.Context, analyzed *router.AnalyzedQuery, indexes map[string]*Index) (*router.ScanPlan, error) {
	plan := &router.ScanPlan{PerTable: make(map[string]*router.TableScan)}

	var totalPartitions, scannedPartitions int
	var bytesScanned int64
	var warnings []string

	for _, table := range analyzed.ReferencedTables {
		idx, ok := indexes[table]
		if !ok {
			continue
		}
		partitions, err := idx.EnsureFresh(ctx)
		if err != nil {
			return nil, err
		}
		preds := analyzed.PredicatesByTable[table]

		ts := &router.TableScan{Table: table}
		for _, p := range partitions {
			totalPartitions++
			keep, warns := evaluatePartition(table, p, preds)
			warnings = append(warnings, warns...)
			if !keep {
				continue
			}
			scannedPartitions++
			ts.Partitions = append(ts.Partitions, p)
			ts.Files = append(ts.Files, p.Files...)
			bytesScanned += p.SizeBytes
		}
		plan.PerTable[table] = ts
	}

	stats := router.PruneStats{
		PartitionsTotal:   totalPartitions,
		PartitionsScanned: scannedPartitions,
		BytesScanned:      bytesScanned,
		Warnings:          warnings,
	}
	if totalPartitions > 0 {
		stats.FractionPruned = 1 - float64(scannedPartitions)/float64(totalPartitions)
	}
	plan.Stats = stats
	return plan, nil
}

// evaluatePartition decides whether p must be scanned given preds. It
// returns keep=false only when at least one predicate certainly excludes
// every row in p.
func evaluatePartition(table string, p router.Partition, preds []router.Predicate) (keep bool, warnings []string) {
	for _, pred := range preds {
		val, ok := p.Lookup(pred.Column)
		if !ok {
			continue // not a partition column; can't decide from the path
		}
		switch pred.Kind {
		case router.PredicateEq:
			lit, err := router.ParseLiteralAs(pred.Value.Kind, val)
			if err != nil {
				warnings = append(warnings, router.NewTypeCoercionWarning(table, pred.Column, err).Error())
				continue
			}
			if cmp, ok := lit.Compare(pred.Value); ok && cmp != 0 {
				return false, warnings
			}
		case router.PredicateNeq:
			lit, err := router.ParseLiteralAs(pred.Value.Kind, val)
			if err != nil {
				warnings = append(warnings, router.NewTypeCoercionWarning(table, pred.Column, err).Error())
				continue
			}
			if cmp, ok := lit.Compare(pred.Value); ok && cmp == 0 {
				return false, warnings
			}
		case router.PredicateRange:
			kind := rangeLiteralKind(pred)
			lit, err := router.ParseLiteralAs(kind, val)
			if err != nil {
				warnings = append(warnings, router.NewTypeCoercionWarning(table, pred.Column, err).Error())
				continue
			}
			if pred.Lo != nil {
				if cmp, ok := lit.Compare(*pred.Lo); ok {
					if pred.LoInclusive && cmp < 0 {
						return false, warnings
					}
					if !pred.LoInclusive && cmp <= 0 {
						return false, warnings
					}
				}
			}
			if pred.Hi != nil {
				if cmp, ok := lit.Compare(*pred.Hi); ok {
					if pred.HiInclusive && cmp > 0 {
						return false, warnings
					}
					if !pred.HiInclusive && cmp >= 0 {
						return false, warnings
					}
				}
			}
		case router.PredicateIn:
			if len(pred.Set) == 0 {
				continue
			}
			lit, err := router.ParseLiteralAs(pred.Set[0].Kind, val)
			if err != nil {
				warnings = append(warnings, router.NewTypeCoercionWarning(table, pred.Column, err).Error())
				continue
			}
			found := false
			for _, s := range pred.Set {
				if cmp, ok := lit.Compare(s); ok && cmp == 0 {
					found = true
					break
				}
			}
			if !found {
				return false, warnings
			}
		case router.PredicateIsNull:
			// Partition key values are always present in the directory
			// name, so a column bound to this key is never null.
			return false, warnings
		case router.PredicateIsNotNull, router.PredicateOther:
			// Always true / no information: no pruning benefit.
		}
	}
	return true, warnings
}

func rangeLiteralKind(pred router.Predicate) router.LiteralKind {
	if pred.Lo != nil {
		return pred.Lo.Kind
	}
	if pred.Hi != nil {
		return pred.Hi.Kind
	}
	return router.LiteralKindString
}

package partition

import (
	"context"
	"fmt"
	"testing"

	"github.com/abfhdays/intelligent-query-router"
	"github.com/stretchr/testify/require"
)

func dateLit(t *testing.T, raw string) router.Literal {
	t.Helper()
	lit, err := router.ParseLiteralAs(router.LiteralKindDate, raw)
	require.NoError(t, err)
	return lit
}

func TestPruneDateRangeScenario(t *testing.T) {
	var files []RawFile
	for day := 1; day <= 30; day++ {
		date := fmt.Sprintf("2024-11-%02d", day)
		files = append(files, RawFile{
			Path:   fmt.Sprintf("/orders/date=%s/data.parquet", date),
			RelDir: "date=" + date,
			Size:   1 << 20, // 1MB
		})
	}
	idx := NewIndex(router.Table{Name: "orders", RootPath: "/orders"}, memFS{files: files})

	lo, hi := dateLit(t, "2024-11-01"), dateLit(t, "2024-11-07")
	analyzed := &router.AnalyzedQuery{
		ReferencedTables: []string{"orders"},
		PredicatesByTable: map[string][]router.Predicate{
			"orders": {{Kind: router.PredicateRange, Table: "orders", Column: "date", Lo: &lo, Hi: &hi, LoInclusive: true, HiInclusive: true}},
		},
	}

	plan, err := Prune(context.Background(), analyzed, map[string]*Index{"orders": idx})
	require.NoError(t, err)
	require.Equal(t, 30, plan.Stats.PartitionsTotal)
	require.Equal(t, 7, plan.Stats.PartitionsScanned)
	require.InDelta(t, 0.7667, plan.Stats.FractionPruned, 0.001)
	require.Equal(t, int64(7<<20), plan.Stats.BytesScanned)
}

func TestPruneEqualityOnNonPartitionColumnRetainsAll(t *testing.T) {
	idx := NewIndex(router.Table{Name: "t", RootPath: "/t"}, memFS{files: []RawFile{
		{Path: "/t/date=2024-11-01/a.parquet", RelDir: "date=2024-11-01", Size: 1},
	}})
	eqLit := router.StringLiteral("us")
	analyzed := &router.AnalyzedQuery{
		ReferencedTables: []string{"t"},
		PredicatesByTable: map[string][]router.Predicate{
			"t": {{Kind: router.PredicateEq, Table: "t", Column: "region", Value: eqLit}},
		},
	}
	plan, err := Prune(context.Background(), analyzed, map[string]*Index{"t": idx})
	require.NoError(t, err)
	require.Equal(t, 1, plan.Stats.PartitionsScanned)
}

func TestPruneTypeCoercionFailureIsConservative(t *testing.T) {
	idx := NewIndex(router.Table{Name: "t", RootPath: "/t"}, memFS{files: []RawFile{
		{Path: "/t/date=not-a-date/a.parquet", RelDir: "date=not-a-date", Size: 1},
	}})
	lo := dateLit(t, "2024-11-01")
	analyzed := &router.AnalyzedQuery{
		ReferencedTables: []string{"t"},
		PredicatesByTable: map[string][]router.Predicate{
			"t": {{Kind: router.PredicateRange, Table: "t", Column: "date", Lo: &lo, LoInclusive: true}},
		},
	}
	plan, err := Prune(context.Background(), analyzed, map[string]*Index{"t": idx})
	require.NoError(t, err)
	require.Equal(t, 1, plan.Stats.PartitionsScanned)
	require.Len(t, plan.Stats.Warnings, 1)
}

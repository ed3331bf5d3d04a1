package sqlfront

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractFeaturesComplexity(t *testing.T) {
	stmt, err := Parse("SELECT region, COUNT(*) FROM orders JOIN customers ON orders.customer_id = customers.id GROUP BY region ORDER BY region")
	require.NoError(t, err)
	f := ExtractFeatures(stmt)
	require.Equal(t, 1, f.Joins)
	require.Equal(t, 1, f.Aggregations)
	require.True(t, f.OrderBy)
	require.Equal(t, 1*3+1*2+1, f.ComplexityScore())
}

func TestExtractFeaturesSelectivityEquality(t *testing.T) {
	stmt, err := Parse("SELECT id FROM t WHERE status = 'active'")
	require.NoError(t, err)
	stmt.Where = Optimize(stmt.Where)
	f := ExtractFeatures(stmt)
	require.InDelta(t, 0.01, f.Selectivity, 1e-9)
}

func TestExtractFeaturesSelectivityRangeConjunction(t *testing.T) {
	stmt, err := Parse("SELECT id FROM t WHERE a >= 1 AND a <= 2")
	require.NoError(t, err)
	stmt.Where = Optimize(stmt.Where)
	f := ExtractFeatures(stmt)
	require.InDelta(t, 0.01, f.Selectivity, 1e-9)
}

func TestExtractFeaturesNoWhereIsFullScan(t *testing.T) {
	stmt, err := Parse("SELECT id FROM t")
	require.NoError(t, err)
	f := ExtractFeatures(stmt)
	require.Equal(t, 1.0, f.Selectivity)
}

func TestExtractFeaturesStarProjectionIsUnresolved(t *testing.T) {
	stmt, err := Parse("SELECT * FROM t")
	require.NoError(t, err)
	f := ExtractFeatures(stmt)
	require.Equal(t, -1, f.ProjectedColumns)
}

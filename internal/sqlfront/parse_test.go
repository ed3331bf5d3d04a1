package sqlfront

import (
	"testing"

	"github.com/abfhdays/intelligent-query-router"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleSelect(t *testing.T) {
	stmt, err := Parse("SELECT a, b FROM orders WHERE amount >= 100 AND region = 'us'")
	require.NoError(t, err)
	require.Len(t, stmt.Projections, 2)
	require.Equal(t, "orders", stmt.Tables[0].Name)
	require.NotNil(t, stmt.Where)
	require.Equal(t, ExprAnd, stmt.Where.Kind)
	require.Len(t, stmt.Where.Children, 2)
}

func TestParseStarProjection(t *testing.T) {
	stmt, err := Parse("SELECT * FROM events")
	require.NoError(t, err)
	require.Len(t, stmt.Projections, 1)
	require.True(t, stmt.Projections[0].IsStar)
}

func TestParseAggregateAndGroupBy(t *testing.T) {
	stmt, err := Parse("SELECT region, COUNT(*) AS n FROM orders GROUP BY region HAVING COUNT(*) > 10")
	require.NoError(t, err)
	require.Equal(t, "COUNT", stmt.Projections[1].AggFunc)
	require.Equal(t, "n", stmt.Projections[1].Alias)
	require.Equal(t, []string{"region"}, stmt.GroupBy)
	require.NotNil(t, stmt.Having)
}

func TestParseJoin(t *testing.T) {
	stmt, err := Parse("SELECT o.id FROM orders AS o JOIN customers AS c ON o.customer_id = c.id WHERE c.region = 'us'")
	require.NoError(t, err)
	require.Len(t, stmt.Tables, 2)
	require.Equal(t, "customers", stmt.Tables[1].Name)
	require.NotNil(t, stmt.Tables[1].JoinOn)
}

func TestParseInAndBetweenAndNulls(t *testing.T) {
	stmt, err := Parse("SELECT id FROM t WHERE status IN ('a', 'b', 'c') AND created BETWEEN '2024-01-01' AND '2024-01-31' AND deleted_at IS NULL")
	require.NoError(t, err)
	require.Equal(t, ExprAnd, stmt.Where.Kind)
	require.Len(t, stmt.Where.Children, 3)
	require.Equal(t, ExprIn, stmt.Where.Children[0].Kind)
	require.Equal(t, ExprBetween, stmt.Where.Children[1].Kind)
	require.Equal(t, ExprIsNull, stmt.Where.Children[2].Kind)
}

func TestParseOrderByAndLimit(t *testing.T) {
	stmt, err := Parse("SELECT id FROM t ORDER BY id DESC LIMIT 50")
	require.NoError(t, err)
	require.Len(t, stmt.OrderBy, 1)
	require.True(t, stmt.OrderBy[0].Desc)
	require.True(t, stmt.HasLimit)
	require.Equal(t, 50, stmt.Limit)
}

func TestParseRejectsNonSelect(t *testing.T) {
	_, err := Parse("DELETE FROM t WHERE id = 1")
	require.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse("not even close to sql (((")
	require.Error(t, err)
}

func TestParseRejectsMixedLiteralKindsInInList(t *testing.T) {
	_, err := Parse("SELECT id FROM t WHERE status IN (1, 'a')")
	require.Error(t, err)
	var rerr *router.RouterError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, router.ErrKindValidation, rerr.Kind)
}

func TestParseNotInAndNotBetween(t *testing.T) {
	stmt, err := Parse("SELECT id FROM t WHERE status NOT IN ('a', 'b')")
	require.NoError(t, err)
	require.Equal(t, ExprNot, stmt.Where.Kind)
	require.Equal(t, ExprIn, stmt.Where.Inner.Kind)

	stmt, err = Parse("SELECT id FROM t WHERE n NOT BETWEEN 1 AND 5")
	require.NoError(t, err)
	require.Equal(t, ExprNot, stmt.Where.Kind)
	require.Equal(t, ExprBetween, stmt.Where.Inner.Kind)
}

func TestParseQuotedLiteralsSniffDateAndTimestampKinds(t *testing.T) {
	stmt, err := Parse("SELECT id FROM t WHERE created BETWEEN '2024-01-01' AND '2024-01-31' AND updated_at = '2024-01-15T10:30:00Z' AND region = 'us'")
	require.NoError(t, err)
	between := stmt.Where.Children[0]
	require.Equal(t, router.LiteralKindDate, between.Lo.Kind)
	require.Equal(t, router.LiteralKindDate, between.Hi.Kind)
	require.Equal(t, router.LiteralKindTimestamp, stmt.Where.Children[1].Lit.Kind)
	require.Equal(t, router.LiteralKindString, stmt.Where.Children[2].Lit.Kind)
}

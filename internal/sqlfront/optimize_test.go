package sqlfront

import (
	"testing"

	"github.com/abfhdays/intelligent-query-router"
	"github.com/stretchr/testify/require"
)

func TestOptimizeFlattensNestedAnd(t *testing.T) {
	col := ColumnRef{Column: "x"}
	nested := And(And(Cmp(col, OpEq, router.IntLiteral(1)), Cmp(col, OpEq, router.IntLiteral(2))), Cmp(col, OpEq, router.IntLiteral(3)))
	out := Optimize(nested)
	require.Equal(t, ExprAnd, out.Kind)
	require.Len(t, out.Children, 3)
}

func TestOptimizeDeMorgan(t *testing.T) {
	col := ColumnRef{Column: "x"}
	e := Not(And(Cmp(col, OpEq, router.IntLiteral(1)), Cmp(col, OpLt, router.IntLiteral(2))))
	out := Optimize(e)
	require.Equal(t, ExprOr, out.Kind)
	require.Len(t, out.Children, 2)
	require.Equal(t, OpNe, out.Children[0].Op)
	require.Equal(t, OpGe, out.Children[1].Op)
}

func TestOptimizeDoubleNegation(t *testing.T) {
	col := ColumnRef{Column: "x"}
	e := Not(Not(Cmp(col, OpEq, router.IntLiteral(1))))
	out := Optimize(e)
	require.Equal(t, ExprCmp, out.Kind)
	require.Equal(t, OpEq, out.Op)
}

func TestOptimizeConstantFolding(t *testing.T) {
	col := ColumnRef{Column: "x"}
	e := And(Cmp(col, OpEq, router.IntLiteral(1)), ConstBool(true))
	out := Optimize(e)
	require.Equal(t, ExprCmp, out.Kind)

	allFalse := And(Cmp(col, OpEq, router.IntLiteral(1)), ConstBool(false))
	require.Equal(t, ExprConstBool, Optimize(allFalse).Kind)
	require.False(t, Optimize(allFalse).BoolValue)
}

func TestOptimizeIsIdempotent(t *testing.T) {
	col := ColumnRef{Column: "x"}
	e := Not(Or(And(Cmp(col, OpEq, router.IntLiteral(1)), Cmp(col, OpLt, router.IntLiteral(2))), Cmp(col, OpGt, router.IntLiteral(3))))
	once := Optimize(e)
	twice := Optimize(once)
	require.True(t, exprEqual(once, twice))
}

package sqlfront

import "github.com/abfhdays/intelligent-query-router"

// ExtractPredicates splits stmt.Where's top-level conjuncts (post-Optimize,
// so already AND-flattened and NOT-free wherever possible) into per-table
// router.Predicate values. A conjunct that can't be scoped to exactly one
// table — an unqualified column under a multi-table FROM, a join condition,
// a nested OR, or anything the closed Expr variant can't interpret — is
// classified Other and filed under the empty table key; it stays available
// to the executor but is invisible to the partition pruner and cost model.
func ExtractPredicates(stmt *SelectStmt) map[string][]router.Predicate {
	out := make(map[string][]router.Predicate)
	if stmt.Where == nil {
		return out
	}
	var conjuncts []*Expr
	if stmt.Where.Kind == ExprAnd {
		conjuncts = stmt.Where.Children
	} else {
		conjuncts = []*Expr{stmt.Where}
	}
	for _, c := range conjuncts {
		table, pred := convertConjunct(stmt, c)
		out[table] = append(out[table], pred)
	}
	return out
}

func convertConjunct(stmt *SelectStmt, e *Expr) (string, router.Predicate) {
	switch e.Kind {
	case ExprCmp:
		table, ok := resolveTableForColumn(stmt, e.Column)
		if !ok {
			return "", otherPredicate(stmt, e)
		}
		return table, cmpPredicate(table, e)
	case ExprBetween:
		table, ok := resolveTableForColumn(stmt, e.Column)
		if !ok {
			return "", otherPredicate(stmt, e)
		}
		lo, hi := e.Lo, e.Hi
		return table, router.Predicate{
			Kind: router.PredicateRange, Table: table, Column: e.Column.Column,
			Lo: &lo, Hi: &hi, LoInclusive: true, HiInclusive: true,
		}
	case ExprIn:
		table, ok := resolveTableForColumn(stmt, e.Column)
		if !ok {
			return "", otherPredicate(stmt, e)
		}
		return table, router.Predicate{Kind: router.PredicateIn, Table: table, Column: e.Column.Column, Set: e.Set}
	case ExprIsNull:
		table, ok := resolveTableForColumn(stmt, e.Column)
		if !ok {
			return "", otherPredicate(stmt, e)
		}
		return table, router.Predicate{Kind: router.PredicateIsNull, Table: table, Column: e.Column.Column}
	case ExprIsNotNull:
		table, ok := resolveTableForColumn(stmt, e.Column)
		if !ok {
			return "", otherPredicate(stmt, e)
		}
		return table, router.Predicate{Kind: router.PredicateIsNotNull, Table: table, Column: e.Column.Column}
	default:
		return "", otherPredicate(stmt, e)
	}
}

func cmpPredicate(table string, e *Expr) router.Predicate {
	switch e.Op {
	case OpEq:
		return router.Predicate{Kind: router.PredicateEq, Table: table, Column: e.Column.Column, Value: e.Lit}
	case OpNe:
		return router.Predicate{Kind: router.PredicateNeq, Table: table, Column: e.Column.Column, Value: e.Lit}
	case OpLt:
		lit := e.Lit
		return router.Predicate{Kind: router.PredicateRange, Table: table, Column: e.Column.Column, Hi: &lit, HiInclusive: false}
	case OpLe:
		lit := e.Lit
		return router.Predicate{Kind: router.PredicateRange, Table: table, Column: e.Column.Column, Hi: &lit, HiInclusive: true}
	case OpGt:
		lit := e.Lit
		return router.Predicate{Kind: router.PredicateRange, Table: table, Column: e.Column.Column, Lo: &lit, LoInclusive: false}
	case OpGe:
		lit := e.Lit
		return router.Predicate{Kind: router.PredicateRange, Table: table, Column: e.Column.Column, Lo: &lit, LoInclusive: true}
	}
	return router.Predicate{Kind: router.PredicateOther, OtherText: string(e.Op)}
}

func otherPredicate(stmt *SelectStmt, e *Expr) router.Predicate {
	return router.Predicate{Kind: router.PredicateOther, OtherText: renderExpr(stmt, e)}
}

func resolveTableForColumn(stmt *SelectStmt, col ColumnRef) (string, bool) {
	if col.Table != "" {
		return stmt.aliasFor(col.Table)
	}
	return stmt.soleTable()
}

package sqlfront

import "github.com/abfhdays/intelligent-query-router"

// ExtractFeatures walks stmt (after Optimize has normalized its Where tree)
// and produces the shape summary the cost model ranks backends against.
func ExtractFeatures(stmt *SelectStmt) router.Features {
	f := router.Features{
		Distinct: stmt.Distinct,
		OrderBy:  len(stmt.OrderBy) > 0,
		Limit:    stmt.Limit,
		HasLimit: stmt.HasLimit,
	}
	if len(stmt.Tables) > 0 {
		f.Joins = len(stmt.Tables) - 1
	}
	for _, p := range stmt.Projections {
		if p.AggFunc != "" {
			f.Aggregations++
		}
		if p.IsWindow {
			f.Windows++
		}
	}
	if len(stmt.Projections) == 1 && stmt.Projections[0].IsStar {
		f.ProjectedColumns = -1 // "*": all columns, resolved later against the catalog
	} else {
		f.ProjectedColumns = len(stmt.Projections)
	}

	if stmt.Where == nil {
		f.Selectivity = 1.0
	} else {
		f.Selectivity = selectivityOf(stmt.Where)
	}
	return f
}

// selectivityOf is the heuristic fraction-of-rows-retained estimate used by
// the cost model's bytes_scanned term: equality predicates are assumed
// highly selective, ranges moderately so, IN scales with set size, IS NULL
// is rare, AND multiplies (independence assumption), OR sums and clamps.
func selectivityOf(e *Expr) float64 {
	switch e.Kind {
	case ExprCmp:
		switch e.Op {
		case OpEq:
			return 0.01
		case OpNe:
			return 0.99
		default: // <, <=, >, >=
			return 0.1
		}
	case ExprIn:
		s := float64(len(e.Set)) / 100.0
		if s > 1 {
			s = 1
		}
		return s
	case ExprIsNull:
		return 0.001
	case ExprIsNotNull:
		return 0.999
	case ExprBetween:
		return 0.1
	case ExprAnd:
		s := 1.0
		for _, c := range e.Children {
			s *= selectivityOf(c)
		}
		return s
	case ExprOr:
		s := 0.0
		for _, c := range e.Children {
			s += selectivityOf(c)
		}
		if s > 1 {
			s = 1
		}
		return s
	case ExprNot:
		return clamp01(1 - selectivityOf(e.Inner))
	case ExprConstBool:
		if e.BoolValue {
			return 1
		}
		return 0
	default: // Other: no information, assume no pruning benefit
		return 1
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

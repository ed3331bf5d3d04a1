package sqlfront

// Optimize normalizes an Expr tree to a deterministic fixed point: constant
// folding, NOT De Morgan push-down to the leaves, trivial true/false branch
// removal, and AND/OR flattening. It is idempotent: Optimize(Optimize(e))
// produces a tree equal in shape to Optimize(e) (verified by optimize_test.go
// with exprEqual, the same structural comparison Optimize uses as its
// fixed-point test).
//
// Predicate pushdown to scans and projection pruning — the other two passes
// named alongside these in the design — happen implicitly: pushdown is the
// per-table attribution performed by ExtractPredicates once columns are
// resolved against the FROM clause, and projection pruning is the
// ProjectedColumns accounting in ExtractFeatures. Both read the already
// Optimize'd tree, so they are listed here as the pass order but implemented
// where the data they need (the FROM clause, the declared schema) is
// actually in scope.
func Optimize(e *Expr) *Expr {
	if e == nil {
		return nil
	}
	for i := 0; i < 8; i++ {
		next := optimizePass(e)
		if exprEqual(next, e) {
			return next
		}
		e = next
	}
	return e
}

func optimizePass(e *Expr) *Expr {
	e = pushDownNot(e)
	e = foldConstants(e)
	return e
}

// pushDownNot eliminates ExprNot nodes: De Morgan over AND/OR, double
// negation removal, and operator negation at comparison leaves.
func pushDownNot(e *Expr) *Expr {
	switch e.Kind {
	case ExprAnd:
		children := make([]*Expr, len(e.Children))
		for i, c := range e.Children {
			children[i] = pushDownNot(c)
		}
		return And(children...)
	case ExprOr:
		children := make([]*Expr, len(e.Children))
		for i, c := range e.Children {
			children[i] = pushDownNot(c)
		}
		return Or(children...)
	case ExprNot:
		inner := pushDownNot(e.Inner)
		switch inner.Kind {
		case ExprNot:
			return inner.Inner
		case ExprAnd:
			negated := make([]*Expr, len(inner.Children))
			for i, c := range inner.Children {
				negated[i] = pushDownNot(Not(c))
			}
			return Or(negated...)
		case ExprOr:
			negated := make([]*Expr, len(inner.Children))
			for i, c := range inner.Children {
				negated[i] = pushDownNot(Not(c))
			}
			return And(negated...)
		case ExprCmp:
			return Cmp(inner.Column, inner.Op.negated(), inner.Lit)
		case ExprConstBool:
			return ConstBool(!inner.BoolValue)
		case ExprIsNull:
			return IsNotNull(inner.Column)
		case ExprIsNotNull:
			return IsNull(inner.Column)
		default:
			// In / Between / Other: no single negated leaf form exists in
			// this closed variant, so the NOT wrapper is preserved opaquely.
			return Not(inner)
		}
	default:
		return e
	}
}

// foldConstants collapses ConstBool children in AND/OR and removes
// always-true/always-false branches.
func foldConstants(e *Expr) *Expr {
	switch e.Kind {
	case ExprAnd:
		var kept []*Expr
		for _, c := range e.Children {
			c = foldConstants(c)
			if c.Kind == ExprConstBool {
				if !c.BoolValue {
					return ConstBool(false)
				}
				continue // drop always-true conjunct
			}
			kept = append(kept, c)
		}
		if len(kept) == 0 {
			return ConstBool(true)
		}
		return And(kept...)
	case ExprOr:
		var kept []*Expr
		for _, c := range e.Children {
			c = foldConstants(c)
			if c.Kind == ExprConstBool {
				if c.BoolValue {
					return ConstBool(true)
				}
				continue // drop always-false disjunct
			}
			kept = append(kept, c)
		}
		if len(kept) == 0 {
			return ConstBool(false)
		}
		return Or(kept...)
	default:
		return e
	}
}

// exprEqual is a structural equality check used for idempotency testing and
// as the optimize fixed-point termination condition.
func exprEqual(a, b *Expr) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ExprAnd, ExprOr:
		if len(a.Children) != len(b.Children) {
			return false
		}
		for i := range a.Children {
			if !exprEqual(a.Children[i], b.Children[i]) {
				return false
			}
		}
		return true
	case ExprNot:
		return exprEqual(a.Inner, b.Inner)
	case ExprCmp:
		return a.Column == b.Column && a.Op == b.Op && a.Lit == b.Lit
	case ExprIn:
		if a.Column != b.Column || len(a.Set) != len(b.Set) {
			return false
		}
		for i := range a.Set {
			if a.Set[i] != b.Set[i] {
				return false
			}
		}
		return true
	case ExprIsNull, ExprIsNotNull:
		return a.Column == b.Column
	case ExprBetween:
		return a.Column == b.Column && a.Lo == b.Lo && a.Hi == b.Hi
	case ExprOther:
		return a.OtherText == b.OtherText
	case ExprConstBool:
		return a.BoolValue == b.BoolValue
	default:
		return false
	}
}

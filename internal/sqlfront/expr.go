// Package sqlfront implements the SQL front end: parsing a query's
// accepted subset down to a closed expression tree, optimizing that tree to
// a deterministic normal form, rendering canonical text, and extracting the
// per-table predicates and shape Features the rest of the router consumes.
package sqlfront

import "github.com/abfhdays/intelligent-query-router"

// ExprKind tags the variant held by an Expr node. Mirrors the teacher's
// FilterNode/Predicate combination: one struct, a Kind tag, and only the
// fields relevant to that Kind populated.
type ExprKind string

const (
	ExprAnd        ExprKind = "and"
	ExprOr         ExprKind = "or"
	ExprNot        ExprKind = "not"
	ExprCmp        ExprKind = "cmp"
	ExprIn         ExprKind = "in"
	ExprIsNull     ExprKind = "is_null"
	ExprIsNotNull  ExprKind = "is_not_null"
	ExprBetween    ExprKind = "between"
	ExprOther      ExprKind = "other"
	ExprConstBool  ExprKind = "const_bool"
)

// CmpOp enumerates the comparison operators accepted inside a CmpExpr.
type CmpOp string

const (
	OpEq CmpOp = "="
	OpNe CmpOp = "!="
	OpLt CmpOp = "<"
	OpLe CmpOp = "<="
	OpGt CmpOp = ">"
	OpGe CmpOp = ">="
)

// negated returns the operator's logical negation, used by NOT De Morgan
// normalization to push a NOT through a leaf comparison instead of leaving
// an explicit NotExpr wrapper.
func (op CmpOp) negated() CmpOp {
	switch op {
	case OpEq:
		return OpNe
	case OpNe:
		return OpEq
	case OpLt:
		return OpGe
	case OpLe:
		return OpGt
	case OpGt:
		return OpLe
	case OpGe:
		return OpLt
	}
	return op
}

// ColumnRef names a column, optionally qualified by table. Table is filled
// in during resolution against the FROM clause; it is empty immediately
// after lexical parsing for unqualified references.
type ColumnRef struct {
	Table  string
	Column string
}

// Expr is the closed tagged-variant expression tree produced by Parse and
// consumed by Optimize, Canonicalize, and the predicate/feature extractors.
// Only the fields relevant to Kind are meaningful; exhaustive switches over
// Kind are the expected way to consume it.
type Expr struct {
	Kind ExprKind

	// And / Or: flattened variadic children (no nested And-under-And).
	Children []*Expr

	// Not: the wrapped expression. Normalization eliminates this variant
	// wherever possible (De Morgan push-down, double-negation removal,
	// operator and nullity negation), so in a fully optimized tree ExprNot
	// remains only directly above In, Between and Other leaves.
	Inner *Expr

	// Cmp / In / IsNull / IsNotNull / Between
	Column ColumnRef

	// Cmp
	Op  CmpOp
	Lit router.Literal

	// Between
	Lo, Hi router.Literal

	// In
	Set []router.Literal

	// Other: an opaque conjunct the optimizer and pruner cannot interpret
	// (multi-column comparisons, function calls, subqueries). Preserved
	// verbatim for the executor.
	OtherText string

	// ConstBool: a literal TRUE/FALSE produced by constant folding.
	BoolValue bool
}

// And builds a flattened conjunction, lifting any already-ExprAnd children.
func And(children ...*Expr) *Expr {
	return flattenAssoc(ExprAnd, children)
}

// Or builds a flattened disjunction, lifting any already-ExprOr children.
func Or(children ...*Expr) *Expr {
	return flattenAssoc(ExprOr, children)
}

func flattenAssoc(kind ExprKind, children []*Expr) *Expr {
	var flat []*Expr
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.Kind == kind {
			flat = append(flat, c.Children...)
			continue
		}
		flat = append(flat, c)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &Expr{Kind: kind, Children: flat}
}

// ConstBool builds a constant-folded boolean leaf.
func ConstBool(v bool) *Expr { return &Expr{Kind: ExprConstBool, BoolValue: v} }

// Not builds a negation, immediately applying double-negation elimination.
func Not(e *Expr) *Expr {
	if e == nil {
		return nil
	}
	if e.Kind == ExprNot {
		return e.Inner
	}
	return &Expr{Kind: ExprNot, Inner: e}
}

// Cmp builds a column-vs-literal comparison.
func Cmp(col ColumnRef, op CmpOp, lit router.Literal) *Expr {
	return &Expr{Kind: ExprCmp, Column: col, Op: op, Lit: lit}
}

// In builds a column-vs-literal-set membership test.
func In(col ColumnRef, set []router.Literal) *Expr {
	return &Expr{Kind: ExprIn, Column: col, Set: set}
}

// IsNull / IsNotNull build nullity tests.
func IsNull(col ColumnRef) *Expr    { return &Expr{Kind: ExprIsNull, Column: col} }
func IsNotNull(col ColumnRef) *Expr { return &Expr{Kind: ExprIsNotNull, Column: col} }

// Between builds an inclusive range test.
func Between(col ColumnRef, lo, hi router.Literal) *Expr {
	return &Expr{Kind: ExprBetween, Column: col, Lo: lo, Hi: hi}
}

// Other builds an opaque, unparsed conjunct.
func Other(text string) *Expr { return &Expr{Kind: ExprOther, OtherText: text} }

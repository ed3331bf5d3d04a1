package router

// PredicateKind tags the shape of a normalized predicate.
type PredicateKind string

const (
	PredicateEq        PredicateKind = "eq"
	PredicateNeq       PredicateKind = "neq"
	PredicateRange     PredicateKind = "range"
	PredicateIn        PredicateKind = "in"
	PredicateIsNull    PredicateKind = "is_null"
	PredicateIsNotNull PredicateKind = "is_not_null"
	PredicateOther     PredicateKind = "other"
)

// Predicate is a normalized conjunct extracted from a query's WHERE clause,
// scoped to exactly one column of exactly one referenced table (invariant
// iii in spec.md §3). Predicates classified Other are opaque to pruning but
// are still retained in the AST for the executor.
type Predicate struct {
	Kind PredicateKind

	Table  string
	Column string

	// Eq / Neq
	Value Literal

	// Range
	Lo, Hi                 *Literal
	LoInclusive, HiInclusive bool

	// In
	Set []Literal

	// Other: the original opaque textual form, preserved for diagnostics.
	OtherText string
}

// ReferencesOnly reports whether the predicate is scoped to the given table.
// Predicates with an empty Table (not yet resolved) or Other predicates that
// span multiple tables return false.
func (p Predicate) ReferencesOnly(table string) bool {
	return p.Kind != PredicateOther && p.Table == table
}

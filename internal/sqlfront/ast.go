package sqlfront

// TableRef is one FROM/JOIN source: a table name plus its optional alias.
type TableRef struct {
	Name  string
	Alias string
	// JoinOn is nil for the first (FROM) table; for a JOINed table it holds
	// the join condition, kept opaque since join predicates aren't scoped
	// to a single table and so never participate in pruning.
	JoinOn *Expr
}

// ProjItem is one SELECT-list entry.
type ProjItem struct {
	IsStar  bool
	Column  string // unqualified or table.column
	AggFunc string // "" unless this is an aggregate call, e.g. "SUM"
	IsWindow bool  // true when followed by an OVER(...) clause
	Alias   string
}

// OrderItem is one ORDER BY entry.
type OrderItem struct {
	Column string
	Desc   bool
}

// SelectStmt is the parsed (pre-optimization) shape of one accepted query.
type SelectStmt struct {
	Distinct    bool
	Projections []ProjItem
	Tables      []TableRef
	Where       *Expr
	GroupBy     []string
	Having      *Expr
	OrderBy     []OrderItem
	Limit       int
	HasLimit    bool
}

// aliasFor resolves a FROM/JOIN alias or bare table name to the underlying
// table name, returning ok=false when unknown.
func (s *SelectStmt) aliasFor(name string) (string, bool) {
	for _, t := range s.Tables {
		if t.Alias != "" && t.Alias == name {
			return t.Name, true
		}
		if t.Name == name {
			return t.Name, true
		}
	}
	return "", false
}

// soleTable returns the statement's only table when there is exactly one
// FROM source and no JOINs, which is when an unqualified column reference
// can be unambiguously resolved.
func (s *SelectStmt) soleTable() (string, bool) {
	if len(s.Tables) == 1 {
		return s.Tables[0].Name, true
	}
	return "", false
}

package router

// Dialect is the SQL dialect a query was parsed under (spec.md §4.1).
type Dialect string

const (
	DialectGeneric  Dialect = "generic"
	DialectPostgres Dialect = "postgres"
	DialectDuckDB   Dialect = "duckdb"
)

// AnalyzedQuery is the SQL front-end's output: the result of
// parse -> optimize -> canonicalize -> feature-extract (spec.md §3).
type AnalyzedQuery struct {
	OriginalText  string
	CanonicalText string
	AST           any // the parsed *sqlfront.SelectStmt, with its WHERE/HAVING trees optimized
	ReferencedTables []string
	PredicatesByTable map[string][]Predicate
	Features      Features
	Dialect       Dialect
}

package sqlfront

import "github.com/abfhdays/intelligent-query-router"

// Analyze runs the full front-end pipeline over sql: parse, optimize the
// WHERE/HAVING trees to their normal form, render canonical text, and
// extract per-table predicates and shape Features (spec.md §3 "analyze").
func Analyze(sql string, dialect router.Dialect) (*router.AnalyzedQuery, error) {
	stmt, err := Parse(sql)
	if err != nil {
		return nil, err
	}
	stmt.Where = Optimize(stmt.Where)
	stmt.Having = Optimize(stmt.Having)

	tables := make([]string, 0, len(stmt.Tables))
	for _, t := range stmt.Tables {
		tables = append(tables, t.Name)
	}

	return &router.AnalyzedQuery{
		OriginalText:      sql,
		CanonicalText:     Canonicalize(stmt),
		AST:               stmt,
		ReferencedTables:  tables,
		PredicatesByTable: ExtractPredicates(stmt),
		Features:          ExtractFeatures(stmt),
		Dialect:           dialect,
	}, nil
}

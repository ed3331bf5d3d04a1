package sqlfront

import (
	"sort"
	"strconv"
	"strings"
)

// Canonicalize renders stmt's optimized tree to the deterministic text form
// two syntactically different but semantically equivalent queries must
// agree on (used as the cache key's query component):
//
//   a) every column reference is qualified with its resolved table name
//   b) AND/OR operands are sorted lexicographically by their own rendering
//   c) whitespace is collapsed to single spaces
//   d) keywords are upper-cased, identifiers lower-cased
//   e) literals use Literal.String's canonical spelling
func Canonicalize(stmt *SelectStmt) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if stmt.Distinct {
		b.WriteString("DISTINCT ")
	}
	b.WriteString(renderProjections(stmt))
	b.WriteString(" FROM ")
	b.WriteString(renderTables(stmt))
	if stmt.Where != nil {
		b.WriteString(" WHERE ")
		b.WriteString(renderExpr(stmt, stmt.Where))
	}
	if len(stmt.GroupBy) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(renderColumnList(stmt, stmt.GroupBy))
	}
	if stmt.Having != nil {
		b.WriteString(" HAVING ")
		b.WriteString(renderExpr(stmt, stmt.Having))
	}
	if len(stmt.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")
		parts := make([]string, len(stmt.OrderBy))
		for i, o := range stmt.OrderBy {
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			parts[i] = renderResolvedColumn(stmt, o.Column) + " " + dir
		}
		b.WriteString(strings.Join(parts, ", "))
	}
	if stmt.HasLimit {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(stmt.Limit))
	}
	return collapseSpace(b.String())
}

func renderProjections(stmt *SelectStmt) string {
	parts := make([]string, len(stmt.Projections))
	for i, p := range stmt.Projections {
		var s string
		switch {
		case p.IsStar:
			s = "*"
		case p.AggFunc != "":
			col := p.Column
			if col != "*" {
				col = renderResolvedColumn(stmt, col)
			}
			s = strings.ToUpper(p.AggFunc) + "(" + col + ")"
		default:
			s = renderResolvedColumn(stmt, p.Column)
		}
		if p.Alias != "" {
			s += " AS " + strings.ToLower(p.Alias)
		}
		parts[i] = s
	}
	return strings.Join(parts, ", ")
}

func renderTables(stmt *SelectStmt) string {
	parts := make([]string, len(stmt.Tables))
	for i, t := range stmt.Tables {
		s := strings.ToLower(t.Name)
		if i > 0 {
			s = "JOIN " + s
		}
		if t.Alias != "" {
			s += " AS " + strings.ToLower(t.Alias)
		}
		if t.JoinOn != nil {
			s += " ON " + renderExpr(stmt, t.JoinOn)
		}
		parts[i] = s
	}
	return strings.Join(parts, ", ")
}

func renderColumnList(stmt *SelectStmt, cols []string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = renderResolvedColumn(stmt, c)
	}
	return strings.Join(parts, ", ")
}

// renderResolvedColumn qualifies a raw "col" or "table.col" reference
// against stmt's FROM clause. An unqualified column under a multi-table
// FROM stays unqualified, and a qualifier that names no FROM table or
// alias is kept as written; both are lower-cased.
func renderResolvedColumn(stmt *SelectStmt, raw string) string {
	table, col := "", raw
	if idx := strings.IndexByte(raw, '.'); idx >= 0 {
		table, col = raw[:idx], raw[idx+1:]
	}
	return renderColumnRef(stmt, ColumnRef{Table: table, Column: col})
}

func renderColumnRef(stmt *SelectStmt, ref ColumnRef) string {
	table := ref.Table
	if table != "" {
		if resolved, ok := stmt.aliasFor(table); ok {
			table = resolved
		}
	} else if sole, ok := stmt.soleTable(); ok {
		table = sole
	}
	col := strings.ToLower(ref.Column)
	if table == "" {
		return col
	}
	return strings.ToLower(table) + "." + col
}

func renderExpr(stmt *SelectStmt, e *Expr) string {
	switch e.Kind {
	case ExprAnd:
		return renderAssoc(stmt, e.Children, " AND ")
	case ExprOr:
		return renderAssoc(stmt, e.Children, " OR ")
	case ExprNot:
		return "NOT (" + renderExpr(stmt, e.Inner) + ")"
	case ExprCmp:
		return renderColumnRef(stmt, e.Column) + " " + string(e.Op) + " " + e.Lit.String()
	case ExprIn:
		parts := make([]string, len(e.Set))
		for i, lit := range e.Set {
			parts[i] = lit.String()
		}
		sort.Strings(parts)
		return renderColumnRef(stmt, e.Column) + " IN (" + strings.Join(parts, ", ") + ")"
	case ExprIsNull:
		return renderColumnRef(stmt, e.Column) + " IS NULL"
	case ExprIsNotNull:
		return renderColumnRef(stmt, e.Column) + " IS NOT NULL"
	case ExprBetween:
		return renderColumnRef(stmt, e.Column) + " BETWEEN " + e.Lo.String() + " AND " + e.Hi.String()
	case ExprOther:
		return collapseSpace(e.OtherText)
	case ExprConstBool:
		if e.BoolValue {
			return "TRUE"
		}
		return "FALSE"
	default:
		return ""
	}
}

func renderAssoc(stmt *SelectStmt, children []*Expr, sep string) string {
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = renderExpr(stmt, c)
	}
	sort.Strings(parts)
	return strings.Join(parts, sep)
}

func collapseSpace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

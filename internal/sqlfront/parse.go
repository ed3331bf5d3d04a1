package sqlfront

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abfhdays/intelligent-query-router"
	vitesssqlparser "github.com/dolthub/vitess/go/vt/sqlparser"
)

// Parse validates sql with the vitess parser and, for SELECT statements,
// lowers it through a router-specific recursive-descent parser into a
// SelectStmt. The two parsers play different roles: vitess's Parse covers
// the full MySQL-family grammar and is the cheap way to reject garbage
// input and non-SELECT statements without hand-maintaining that surface;
// the router's own parser then walks only the constrained SELECT subset
// this system accepts (single WHERE-clause predicate grammar, no
// subqueries) and builds the closed Expr tree the optimizer and pruner
// need. Re-implementing vitess's own AST shapes here would tie this
// package to the internals of a single fork; recognizing its statement
// kinds does not.
func Parse(sql string) (*SelectStmt, error) {
	stmt, err := vitesssqlparser.Parse(sql)
	if err != nil {
		return nil, router.NewParseError(0, err.Error())
	}
	if _, ok := stmt.(*vitesssqlparser.Select); !ok {
		return nil, router.NewUnsupportedStatementError(fmt.Sprintf("%T", stmt))
	}

	toks, err := newLexer(sql).tokenize()
	if err != nil {
		return nil, router.NewParseError(0, err.Error())
	}
	p := &parser{toks: toks}
	out, err := p.parseSelect()
	if err != nil {
		if rerr, ok := err.(*router.RouterError); ok {
			return nil, rerr
		}
		return nil, router.NewParseError(p.cur().pos, err.Error())
	}
	return out, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) isKeyword(kw string) bool {
	t := p.cur()
	return t.kind == tokIdent && strings.EqualFold(t.text, kw)
}

func (p *parser) acceptKeyword(kw string) bool {
	if p.isKeyword(kw) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expectKeyword(kw string) error {
	if !p.acceptKeyword(kw) {
		return fmt.Errorf("expected %q, found %q", kw, p.cur().text)
	}
	return nil
}

func (p *parser) acceptPunct(s string) bool {
	t := p.cur()
	if t.kind == tokPunct && t.text == s {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expectPunct(s string) error {
	if !p.acceptPunct(s) {
		return fmt.Errorf("expected %q, found %q", s, p.cur().text)
	}
	return nil
}

var aggFuncs = map[string]bool{"SUM": true, "COUNT": true, "AVG": true, "MIN": true, "MAX": true}

func (p *parser) parseSelect() (*SelectStmt, error) {
	if err := p.expectKeyword("SELECT"); err != nil {
		return nil, err
	}
	stmt := &SelectStmt{}
	if p.acceptKeyword("DISTINCT") {
		stmt.Distinct = true
	}
	projs, err := p.parseProjections()
	if err != nil {
		return nil, err
	}
	stmt.Projections = projs

	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	tables, err := p.parseTables()
	if err != nil {
		return nil, err
	}
	stmt.Tables = tables

	if p.acceptKeyword("WHERE") {
		w, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}
		stmt.Where = w
	}
	if p.acceptKeyword("GROUP") {
		if err := p.expectKeyword("BY"); err != nil {
			return nil, err
		}
		cols, err := p.parseIdentList()
		if err != nil {
			return nil, err
		}
		stmt.GroupBy = cols
	}
	if p.acceptKeyword("HAVING") {
		h, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}
		stmt.Having = h
	}
	if p.acceptKeyword("ORDER") {
		if err := p.expectKeyword("BY"); err != nil {
			return nil, err
		}
		items, err := p.parseOrderList()
		if err != nil {
			return nil, err
		}
		stmt.OrderBy = items
	}
	if p.acceptKeyword("LIMIT") {
		t := p.advance()
		if t.kind != tokNumber {
			return nil, fmt.Errorf("expected numeric LIMIT, found %q", t.text)
		}
		n, err := strconv.Atoi(t.text)
		if err != nil {
			return nil, err
		}
		stmt.Limit = n
		stmt.HasLimit = true
	}
	if p.cur().kind != tokEOF {
		return nil, fmt.Errorf("unexpected trailing input at %q", p.cur().text)
	}
	return stmt, nil
}

func (p *parser) parseProjections() ([]ProjItem, error) {
	if p.acceptPunct("*") {
		return []ProjItem{{IsStar: true}}, nil
	}
	var out []ProjItem
	for {
		item, err := p.parseProjItem()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
		if !p.acceptPunct(",") {
			break
		}
	}
	return out, nil
}

func (p *parser) parseProjItem() (ProjItem, error) {
	var item ProjItem
	t := p.cur()
	if t.kind == tokIdent && aggFuncs[strings.ToUpper(t.text)] {
		item.AggFunc = strings.ToUpper(t.text)
		p.advance()
		if err := p.expectPunct("("); err != nil {
			return item, err
		}
		if p.acceptPunct("*") {
			item.Column = "*"
		} else {
			col, err := p.parseColRefText()
			if err != nil {
				return item, err
			}
			item.Column = col
		}
		if err := p.expectPunct(")"); err != nil {
			return item, err
		}
	} else {
		col, err := p.parseColRefText()
		if err != nil {
			return item, err
		}
		item.Column = col
	}
	if p.acceptKeyword("OVER") {
		item.IsWindow = true
		if err := p.expectPunct("("); err != nil {
			return item, err
		}
		depth := 1
		for depth > 0 {
			tk := p.advance()
			if tk.kind == tokEOF {
				return item, fmt.Errorf("unterminated OVER(...) clause")
			}
			if tk.kind == tokPunct && tk.text == "(" {
				depth++
			}
			if tk.kind == tokPunct && tk.text == ")" {
				depth--
			}
		}
	}
	if p.acceptKeyword("AS") {
		t := p.advance()
		item.Alias = t.text
	}
	return item, nil
}

func (p *parser) parseColRefText() (string, error) {
	first := p.advance()
	if first.kind != tokIdent {
		return "", fmt.Errorf("expected column name, found %q", first.text)
	}
	if p.acceptPunct(".") {
		second := p.advance()
		if second.kind != tokIdent {
			return "", fmt.Errorf("expected column name after %q.", first.text)
		}
		return first.text + "." + second.text, nil
	}
	return first.text, nil
}

func (p *parser) parseColRef() (ColumnRef, error) {
	text, err := p.parseColRefText()
	if err != nil {
		return ColumnRef{}, err
	}
	if idx := strings.IndexByte(text, '.'); idx >= 0 {
		return ColumnRef{Table: text[:idx], Column: text[idx+1:]}, nil
	}
	return ColumnRef{Column: text}, nil
}

func (p *parser) parseTables() ([]TableRef, error) {
	var out []TableRef
	first, err := p.parseTableRef()
	if err != nil {
		return nil, err
	}
	out = append(out, first)
	for {
		joined := false
		for _, kw := range []string{"INNER", "LEFT", "RIGHT", "CROSS"} {
			if p.isKeyword(kw) {
				p.advance()
				joined = true
			}
		}
		if p.acceptKeyword("JOIN") {
			joined = true
		}
		if !joined {
			break
		}
		tr, err := p.parseTableRef()
		if err != nil {
			return nil, err
		}
		if p.acceptKeyword("ON") {
			on, err := p.parseOrExpr()
			if err != nil {
				return nil, err
			}
			tr.JoinOn = on
		}
		out = append(out, tr)
	}
	return out, nil
}

func (p *parser) parseTableRef() (TableRef, error) {
	name := p.advance()
	if name.kind != tokIdent {
		return TableRef{}, fmt.Errorf("expected table name, found %q", name.text)
	}
	tr := TableRef{Name: name.text}
	if p.acceptKeyword("AS") {
		alias := p.advance()
		tr.Alias = alias.text
		return tr, nil
	}
	if p.cur().kind == tokIdent && !p.isClauseKeyword() {
		alias := p.advance()
		tr.Alias = alias.text
	}
	return tr, nil
}

var clauseKeywords = map[string]bool{
	"WHERE": true, "GROUP": true, "HAVING": true, "ORDER": true, "LIMIT": true,
	"JOIN": true, "INNER": true, "LEFT": true, "RIGHT": true, "CROSS": true, "ON": true,
}

func (p *parser) isClauseKeyword() bool {
	return clauseKeywords[strings.ToUpper(p.cur().text)]
}

func (p *parser) parseIdentList() ([]string, error) {
	var out []string
	for {
		col, err := p.parseColRefText()
		if err != nil {
			return nil, err
		}
		out = append(out, col)
		if !p.acceptPunct(",") {
			break
		}
	}
	return out, nil
}

func (p *parser) parseOrderList() ([]OrderItem, error) {
	var out []OrderItem
	for {
		col, err := p.parseColRefText()
		if err != nil {
			return nil, err
		}
		item := OrderItem{Column: col}
		if p.acceptKeyword("DESC") {
			item.Desc = true
		} else {
			p.acceptKeyword("ASC")
		}
		out = append(out, item)
		if !p.acceptPunct(",") {
			break
		}
	}
	return out, nil
}

// --- boolean expression grammar ---
//
//   orExpr  := andExpr (OR andExpr)*
//   andExpr := notExpr (AND notExpr)*
//   notExpr := NOT notExpr | primary
//   primary := '(' orExpr ')' | comparison

func (p *parser) parseOrExpr() (*Expr, error) {
	first, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	children := []*Expr{first}
	for p.acceptKeyword("OR") {
		next, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return Or(children...), nil
}

func (p *parser) parseAndExpr() (*Expr, error) {
	first, err := p.parseNotExpr()
	if err != nil {
		return nil, err
	}
	children := []*Expr{first}
	for p.acceptKeyword("AND") {
		next, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return And(children...), nil
}

func (p *parser) parseNotExpr() (*Expr, error) {
	if p.acceptKeyword("NOT") {
		inner, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		return Not(inner), nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (*Expr, error) {
	if p.acceptPunct("(") {
		e, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return e, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (*Expr, error) {
	if t := p.cur(); t.kind == tokIdent && aggFuncs[strings.ToUpper(t.text)] && p.toks[p.pos+1].text == "(" {
		// An aggregate call on the left (HAVING COUNT(*) > 10) is kept opaque.
		call := strings.ToUpper(p.advance().text) + p.advance().text
		for tk := p.advance(); tk.kind != tokEOF && tk.text != ")"; tk = p.advance() {
			call += tk.text
		}
		op := p.advance()
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return Other(call + ") " + string(normalizeOp(op.text)) + " " + lit.String()), nil
	}
	col, err := p.parseColRef()
	if err != nil {
		return nil, err
	}

	if p.acceptKeyword("IS") {
		if p.acceptKeyword("NOT") {
			if err := p.expectKeyword("NULL"); err != nil {
				return nil, err
			}
			return IsNotNull(col), nil
		}
		if err := p.expectKeyword("NULL"); err != nil {
			return nil, err
		}
		return IsNull(col), nil
	}

	negate := p.acceptKeyword("NOT")

	if p.acceptKeyword("IN") {
		set, err := p.parseLiteralList()
		if err != nil {
			return nil, err
		}
		e := In(col, set)
		if negate {
			return Not(e), nil
		}
		return e, nil
	}

	if p.acceptKeyword("BETWEEN") {
		lo, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("AND"); err != nil {
			return nil, err
		}
		hi, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		e := Between(col, lo, hi)
		if negate {
			return Not(e), nil
		}
		return e, nil
	}

	if negate {
		return nil, fmt.Errorf("NOT must precede IN or BETWEEN, found %q", p.cur().text)
	}

	t := p.cur()
	if t.kind != tokPunct {
		return nil, fmt.Errorf("expected comparison operator, found %q", t.text)
	}
	p.advance()
	op := normalizeOp(t.text)

	if rhs := p.cur(); rhs.kind == tokIdent && !strings.EqualFold(rhs.text, "TRUE") && !strings.EqualFold(rhs.text, "FALSE") {
		// A column-vs-column comparison, e.g. a join condition, is kept opaque.
		other, err := p.parseColRefText()
		if err != nil {
			return nil, err
		}
		left := col.Column
		if col.Table != "" {
			left = col.Table + "." + col.Column
		}
		return Other(left + " " + string(op) + " " + other), nil
	}

	lit, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	return Cmp(col, op, lit), nil
}

func (p *parser) parseLiteralList() ([]router.Literal, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var out []router.Literal
	for {
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		out = append(out, lit)
		if !p.acceptPunct(",") {
			break
		}
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	for i := 1; i < len(out); i++ {
		if out[i].Kind != out[0].Kind {
			return nil, router.NewValidationError(router.CodeMixedLiteralTags,
				fmt.Sprintf("IN list mixes literal kinds %q and %q", out[0].Kind, out[i].Kind))
		}
	}
	return out, nil
}

// parseLiteral parses a single literal token into a router.Literal. No
// catalog lookup has happened yet at this point in the pipeline, so kind
// inference is syntactic only: a quoted literal matching YYYY-MM-DD or
// RFC3339 becomes LiteralKindDate/LiteralKindTimestamp, numbers and the
// TRUE/FALSE keywords become their own kinds, and anything else stays a
// plain string.
func (p *parser) parseLiteral() (router.Literal, error) {
	t := p.advance()
	switch t.kind {
	case tokString:
		return sniffStringLiteral(t.text), nil
	case tokNumber:
		if strings.ContainsRune(t.text, '.') {
			f, err := strconv.ParseFloat(t.text, 64)
			if err != nil {
				return router.Literal{}, err
			}
			return router.FloatLiteral(f), nil
		}
		i, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return router.Literal{}, err
		}
		return router.IntLiteral(i), nil
	case tokIdent:
		switch strings.ToUpper(t.text) {
		case "TRUE":
			return router.BoolLiteral(true), nil
		case "FALSE":
			return router.BoolLiteral(false), nil
		}
	}
	return router.Literal{}, fmt.Errorf("expected literal, found %q", t.text)
}

// sniffStringLiteral classifies a quoted literal by shape: a bare
// YYYY-MM-DD becomes a date, a full RFC3339 timestamp becomes a
// timestamp, everything else stays a string. The pruner re-derives the
// same Kind from a partition's raw key=value text via
// router.ParseLiteralAs once it knows the predicate's Kind, so this and
// that classification must agree.
func sniffStringLiteral(raw string) router.Literal {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return router.DateLiteral(t.Unix() / int64((24 * time.Hour).Seconds()))
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return router.TimestampLiteral(t.UnixNano())
	}
	return router.StringLiteral(raw)
}

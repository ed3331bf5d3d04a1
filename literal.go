package router

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LiteralKind tags the concrete type carried by a Literal.
type LiteralKind string

// Supported literal kinds. Comparisons are only defined within a matching
// kind; cross-kind comparisons are the caller's responsibility to reject.
const (
	LiteralKindInt       LiteralKind = "int"
	LiteralKindFloat     LiteralKind = "float"
	LiteralKindBool      LiteralKind = "bool"
	LiteralKindString    LiteralKind = "string"
	LiteralKindDate      LiteralKind = "date"      // days since epoch
	LiteralKindTimestamp LiteralKind = "timestamp" // nanoseconds since epoch
)

// Literal is a tagged variant over the value types a predicate can compare
// against. Only one of the fields matching Kind is meaningful.
type Literal struct {
	Kind LiteralKind
	I    int64
	F    float64
	B    bool
	S    string
	// Date/Timestamp both reuse Ts (nanoseconds since epoch); for
	// LiteralKindDate the value is truncated to a whole-day boundary.
	Ts int64
}

// IntLiteral builds an integer literal.
func IntLiteral(v int64) Literal { return Literal{Kind: LiteralKindInt, I: v} }

// FloatLiteral builds a floating-point literal.
func FloatLiteral(v float64) Literal { return Literal{Kind: LiteralKindFloat, F: v} }

// BoolLiteral builds a boolean literal.
func BoolLiteral(v bool) Literal { return Literal{Kind: LiteralKindBool, B: v} }

// StringLiteral builds a string literal.
func StringLiteral(v string) Literal { return Literal{Kind: LiteralKindString, S: v} }

// DateLiteral builds a date literal from days-since-epoch.
func DateLiteral(daysSinceEpoch int64) Literal {
	return Literal{Kind: LiteralKindDate, Ts: daysSinceEpoch * int64(24*time.Hour)}
}

// TimestampLiteral builds a timestamp literal from nanoseconds-since-epoch.
func TimestampLiteral(nanosSinceEpoch int64) Literal {
	return Literal{Kind: LiteralKindTimestamp, Ts: nanosSinceEpoch}
}

// Compare returns -1, 0, 1 for a<b, a==b, a>b. ok is false when the kinds
// don't match, in which case the comparison is undefined (callers should
// treat the predicate as Other).
func (a Literal) Compare(b Literal) (cmp int, ok bool) {
	if a.Kind != b.Kind {
		return 0, false
	}
	switch a.Kind {
	case LiteralKindInt:
		return compareOrdered(a.I, b.I), true
	case LiteralKindFloat:
		return compareOrdered(a.F, b.F), true
	case LiteralKindBool:
		if a.B == b.B {
			return 0, true
		}
		if !a.B && b.B {
			return -1, true
		}
		return 1, true
	case LiteralKindString:
		return compareOrdered(a.S, b.S), true
	case LiteralKindDate, LiteralKindTimestamp:
		return compareOrdered(a.Ts, b.Ts), true
	default:
		return 0, false
	}
}

func compareOrdered[T int64 | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ParseLiteralAs parses raw text into a Literal of the given kind. It is
// used by the pruner to interpret a partition's string-valued key=value pair
// under the type implied by the predicate being evaluated against it.
func ParseLiteralAs(kind LiteralKind, raw string) (Literal, error) {
	switch kind {
	case LiteralKindInt:
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Literal{}, fmt.Errorf("parse int literal %q: %w", raw, err)
		}
		return IntLiteral(i), nil
	case LiteralKindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Literal{}, fmt.Errorf("parse float literal %q: %w", raw, err)
		}
		return FloatLiteral(f), nil
	case LiteralKindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Literal{}, fmt.Errorf("parse bool literal %q: %w", raw, err)
		}
		return BoolLiteral(b), nil
	case LiteralKindString:
		return StringLiteral(unquoteIfQuoted(raw)), nil
	case LiteralKindDate:
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return Literal{}, fmt.Errorf("parse date literal %q: %w", raw, err)
		}
		return DateLiteral(t.Unix() / int64((24 * time.Hour).Seconds())), nil
	case LiteralKindTimestamp:
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return Literal{}, fmt.Errorf("parse timestamp literal %q: %w", raw, err)
		}
		return TimestampLiteral(t.UnixNano()), nil
	default:
		return Literal{}, fmt.Errorf("unsupported literal kind %q", kind)
	}
}

func unquoteIfQuoted(raw string) string {
	if len(raw) >= 2 && strings.HasPrefix(raw, "'") && strings.HasSuffix(raw, "'") {
		return strings.ReplaceAll(raw[1:len(raw)-1], "''", "'")
	}
	return raw
}

// String renders the literal in canonical-text spelling (§4.1 canonicalize):
// integers without leading zeros, dates as YYYY-MM-DD, strings single-quoted
// with doubled internal quotes.
func (a Literal) String() string {
	switch a.Kind {
	case LiteralKindInt:
		return strconv.FormatInt(a.I, 10)
	case LiteralKindFloat:
		return strconv.FormatFloat(a.F, 'g', -1, 64)
	case LiteralKindBool:
		return strconv.FormatBool(a.B)
	case LiteralKindString:
		return "'" + strings.ReplaceAll(a.S, "'", "''") + "'"
	case LiteralKindDate:
		days := a.Ts / int64((24 * time.Hour).Nanoseconds())
		return time.Unix(days*int64((24*time.Hour).Seconds()), 0).UTC().Format("2006-01-02")
	case LiteralKindTimestamp:
		return time.Unix(0, a.Ts).UTC().Format(time.RFC3339Nano)
	default:
		return ""
	}
}

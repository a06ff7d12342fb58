package storage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/poiesic/genie/core"
)

// Expr is a parsed query expression. The wire form is opaque to
// callers: an empty string matches every record, and "column=value"
// matches records whose column equals value exactly.
type Expr struct {
	Column string
	Value  string
}

// All reports whether the expression matches every record.
func (e Expr) All() bool { return e.Column == "" }

// ParseExpr parses the opaque query expression form.
func ParseExpr(s string) (Expr, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Expr{}, nil
	}
	column, value, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(column) == "" {
		return Expr{}, fmt.Errorf("%w: expression %q, want \"column=value\"", ErrInvalidQuery, s)
	}
	return Expr{Column: strings.TrimSpace(column), Value: strings.TrimSpace(value)}, nil
}

// Matches reports whether the record satisfies the expression. Integer
// columns compare against the decimal rendering of the value.
func (e Expr) Matches(rec core.Record) bool {
	if e.All() {
		return true
	}
	v, ok := rec[e.Column]
	if !ok {
		return false
	}
	switch v.Kind {
	case core.KindString:
		return v.Str == e.Value
	case core.KindInt:
		return strconv.FormatInt(v.Int, 10) == e.Value
	default:
		return false
	}
}

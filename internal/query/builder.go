// Package query builds parameterized SQL statements from optional search
// criteria. Values are always bound as positional parameters, never
// interpolated into the statement text.
package query

import (
	"strconv"
	"strings"
)

// Wildcard matches everything and is treated the same as a blank value.
const Wildcard = "*"

// IsAbsent reports whether a criterion value should be excluded from the
// generated predicate.
func IsAbsent(value string) bool {
	trimmed := strings.TrimSpace(value)
	return trimmed == "" || trimmed == Wildcard
}

// Builder assembles a statement from a base query plus zero or more AND
// predicates. Clause order is the order of the calls, so the generated
// text is stable for logging and tests. `?` markers in conditions are
// rewritten to $n placeholders.
type Builder struct {
	sb      strings.Builder
	args    []interface{}
	clauses int
	params  int
}

// New starts a builder from a base statement without a WHERE clause.
func New(base string) *Builder {
	b := &Builder{}
	b.sb.WriteString(base)
	return b
}

// Where appends a predicate. The condition may contain `?` markers, one
// per bound argument.
func (b *Builder) Where(condition string, args ...interface{}) *Builder {
	b.writeKeyword()
	b.sb.WriteString(b.rewrite(condition))
	b.args = append(b.args, args...)
	return b
}

// WhereOptional appends an equality-style predicate only when the value
// is present (non-blank and not the wildcard).
func (b *Builder) WhereOptional(condition, value string) *Builder {
	if IsAbsent(value) {
		return b
	}
	return b.Where(condition, value)
}

// WhereAnyMatch appends a disjunction of case-insensitive substring
// matches of phrase across fields, sharing a single bound parameter.
// The clause is omitted entirely when the phrase is absent.
func (b *Builder) WhereAnyMatch(phrase string, fields ...string) *Builder {
	if IsAbsent(phrase) || len(fields) == 0 {
		return b
	}
	b.params++
	placeholder := "$" + strconv.Itoa(b.params)
	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = field + " ILIKE '%' || " + placeholder + " || '%'"
	}
	b.writeKeyword()
	b.sb.WriteString("(" + strings.Join(parts, " OR ") + ")")
	b.args = append(b.args, phrase)
	return b
}

// Suffix appends a raw trailing fragment such as ORDER BY or LIMIT.
func (b *Builder) Suffix(fragment string) *Builder {
	b.sb.WriteString(" ")
	b.sb.WriteString(fragment)
	return b
}

// String returns the statement text built so far.
func (b *Builder) String() string {
	return b.sb.String()
}

// Args returns the bound parameters in placeholder order.
func (b *Builder) Args() []interface{} {
	return b.args
}

func (b *Builder) writeKeyword() {
	if b.clauses == 0 {
		b.sb.WriteString(" WHERE ")
	} else {
		b.sb.WriteString(" AND ")
	}
	b.clauses++
}

func (b *Builder) rewrite(condition string) string {
	var out strings.Builder
	for _, r := range condition {
		if r == '?' {
			b.params++
			out.WriteString("$" + strconv.Itoa(b.params))
		} else {
			out.WriteRune(r)
		}
	}
	return out.String()
}

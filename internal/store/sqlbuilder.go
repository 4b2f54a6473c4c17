// ABOUTME: Dialect-aware SQL rendering of character queries
// ABOUTME: Turns a Where tree into a parameterized clause for SQLite or PostgreSQL

package store

import (
	"fmt"
	"strconv"
	"strings"
)

const characterTable = `"SW_CHARACTERS"`

const characterColumns = `"Id", "Name", "Faction", "Homeworld", "Species"`

var fieldColumns = map[Field]string{
	FieldID:        `"Id"`,
	FieldName:      `"Name"`,
	FieldFaction:   `"Faction"`,
	FieldHomeworld: `"Homeworld"`,
	FieldSpecies:   `"Species"`,
}

// SQLCondition is a WHERE clause fragment with its positional parameters.
type SQLCondition struct {
	Clause string
	Params []any
}

// dialect captures the engine-specific bits of the generated SQL.
type dialect struct {
	name string
	// placeholder renders the n-th (1-based) parameter marker.
	placeholder func(n int) string
	// position renders the 1-based offset of needle in column, 0 if absent.
	position func(column, needle string) string
	// suffix renders the last len(needle) characters of column.
	suffix func(column, needle string) string
	// textCollation is appended to text sort keys so they order bytewise.
	textCollation string
}

var sqliteDialect = dialect{
	name:        "sqlite",
	placeholder: func(int) string { return "?" },
	position: func(column, needle string) string {
		return fmt.Sprintf("instr(%s, %s)", column, needle)
	},
	suffix: func(column, needle string) string {
		return fmt.Sprintf("substr(%s, length(%s) - length(%s) + 1)", column, column, needle)
	},
}

var postgresDialect = dialect{
	name:        "postgres",
	placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	position: func(column, needle string) string {
		return fmt.Sprintf("strpos(%s, %s::text)", column, needle)
	},
	suffix: func(column, needle string) string {
		return fmt.Sprintf("right(%s, length(%s::text))", column, needle)
	},
	textCollation: ` COLLATE "C"`,
}

// sqlBuilder accumulates parameters while rendering clauses.
type sqlBuilder struct {
	d      dialect
	params []any
}

func (b *sqlBuilder) arg(v any) string {
	b.params = append(b.params, v)
	return b.d.placeholder(len(b.params))
}

// buildCondition renders w as a WHERE clause without the keyword.
// An empty Where yields an empty clause.
func buildCondition(d dialect, w Where) (SQLCondition, error) {
	if err := w.Validate(); err != nil {
		return SQLCondition{}, err
	}
	if w.IsEmpty() {
		return SQLCondition{}, nil
	}
	b := &sqlBuilder{d: d}
	return SQLCondition{Clause: b.where(w), Params: b.params}, nil
}

func (b *sqlBuilder) where(w Where) string {
	if w.IsEmpty() {
		return "1 = 1"
	}

	parts := make([]string, 0, len(w.Conds)+len(w.And)+1)
	for _, c := range w.Conds {
		parts = append(parts, b.cond(c))
	}
	for _, child := range w.And {
		parts = append(parts, "("+b.where(child)+")")
	}
	if len(w.Or) > 0 {
		alts := make([]string, 0, len(w.Or))
		for _, child := range w.Or {
			alts = append(alts, "("+b.where(child)+")")
		}
		parts = append(parts, "("+strings.Join(alts, " OR ")+")")
	}
	return strings.Join(parts, " AND ")
}

func (b *sqlBuilder) cond(c Cond) string {
	col := fieldColumns[c.Field]
	switch c.Op {
	case OpEq:
		return col + " = " + b.arg(c.Value)
	case OpNeq:
		return col + " <> " + b.arg(c.Value)
	case OpGt:
		return col + " > " + b.arg(c.Value)
	case OpGte:
		return col + " >= " + b.arg(c.Value)
	case OpLt:
		return col + " < " + b.arg(c.Value)
	case OpLte:
		return col + " <= " + b.arg(c.Value)
	case OpContains:
		return b.d.position(col, b.arg(c.Value)) + " > 0"
	case OpNotContains:
		return b.d.position(col, b.arg(c.Value)) + " = 0"
	case OpStartsWith:
		return b.d.position(col, b.arg(c.Value)) + " = 1"
	case OpEndsWith:
		return b.d.suffix(col, b.arg(c.Value)) + " = " + b.arg(c.Value)
	case OpIn, OpNotIn:
		return b.list(col, c)
	}
	// Validate rejects unknown operators before rendering.
	return "1 = 0"
}

func (b *sqlBuilder) list(col string, c Cond) string {
	var values []any
	switch v := c.Value.(type) {
	case []string:
		for _, s := range v {
			values = append(values, s)
		}
	case []int64:
		for _, n := range v {
			values = append(values, n)
		}
	}
	if len(values) == 0 {
		if c.Op == OpIn {
			return "1 = 0"
		}
		return "1 = 1"
	}
	marks := make([]string, len(values))
	for i, v := range values {
		marks[i] = b.arg(v)
	}
	keyword := " IN ("
	if c.Op == OpNotIn {
		keyword = " NOT IN ("
	}
	return col + keyword + strings.Join(marks, ", ") + ")"
}

// buildOrderBy renders the ORDER BY list. Id is always the final tie-break.
func buildOrderBy(d dialect, order []Order) string {
	terms := make([]string, 0, len(order)+1)
	seenID := false
	for _, o := range order {
		col, ok := fieldColumns[o.Field]
		if !ok {
			continue
		}
		dir := " ASC"
		if o.Desc {
			dir = " DESC"
		}
		if o.Field == FieldID {
			seenID = true
		} else {
			col += d.textCollation
		}
		terms = append(terms, col+dir)
	}
	if !seenID {
		terms = append(terms, `"Id" ASC`)
	}
	return strings.Join(terms, ", ")
}

// buildSelect renders the full SELECT for q.
func buildSelect(d dialect, q Query) (string, []any, error) {
	if err := q.Validate(); err != nil {
		return "", nil, err
	}
	cond, err := buildCondition(d, q.Where)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(characterColumns)
	sb.WriteString(" FROM ")
	sb.WriteString(characterTable)
	if cond.Clause != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(cond.Clause)
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(buildOrderBy(d, q.Order))
	return sb.String(), cond.Params, nil
}

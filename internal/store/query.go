// ABOUTME: Predicate tree for character queries and its in-memory evaluation
// ABOUTME: Shared by the SQL builder and MockStore so every store answers alike

package store

import (
	"fmt"
	"slices"
	"strings"
)

// Field names a filterable, sortable character column.
type Field string

const (
	FieldID        Field = "id"
	FieldName      Field = "name"
	FieldFaction   Field = "faction"
	FieldHomeworld Field = "homeworld"
	FieldSpecies   Field = "species"
)

// Op is a comparison applied to one field.
type Op string

const (
	OpEq          Op = "eq"
	OpNeq         Op = "neq"
	OpContains    Op = "contains"
	OpNotContains Op = "ncontains"
	OpStartsWith  Op = "startsWith"
	OpEndsWith    Op = "endsWith"
	OpIn          Op = "in"
	OpNotIn       Op = "nin"
	OpGt          Op = "gt"
	OpGte         Op = "gte"
	OpLt          Op = "lt"
	OpLte         Op = "lte"
)

// Cond constrains one field. Value is a string for text fields and an int64
// for FieldID; OpIn and OpNotIn take []string or []int64.
type Cond struct {
	Field Field
	Op    Op
	Value any
}

// Where is a predicate tree. A row matches when it satisfies every Cond and
// every And child, and, if Or is non-empty, at least one Or child.
type Where struct {
	Conds []Cond
	And   []Where
	Or    []Where
}

// IsEmpty reports whether w matches every row.
func (w Where) IsEmpty() bool {
	return len(w.Conds) == 0 && len(w.And) == 0 && len(w.Or) == 0
}

// Order sorts by one field.
type Order struct {
	Field Field
	Desc  bool
}

// Validate checks the predicate tree and every sort field.
func (q Query) Validate() error {
	for _, o := range q.Order {
		if _, ok := fieldColumns[o.Field]; !ok {
			return fmt.Errorf("unknown sort field %q", o.Field)
		}
	}
	return q.Where.Validate()
}

var textOps = []Op{OpEq, OpNeq, OpContains, OpNotContains, OpStartsWith, OpEndsWith, OpIn, OpNotIn}
var intOps = []Op{OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte, OpIn, OpNotIn}

// Validate checks that every condition uses an operator and value type
// legal for its field.
func (w Where) Validate() error {
	for _, c := range w.Conds {
		if err := c.validate(); err != nil {
			return err
		}
	}
	for _, child := range w.And {
		if err := child.Validate(); err != nil {
			return err
		}
	}
	for _, child := range w.Or {
		if err := child.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c Cond) validate() error {
	switch c.Field {
	case FieldID:
		if !slices.Contains(intOps, c.Op) {
			return fmt.Errorf("operator %q not supported on %s", c.Op, c.Field)
		}
		switch c.Value.(type) {
		case int64:
			if c.Op == OpIn || c.Op == OpNotIn {
				return fmt.Errorf("operator %q on %s needs a list", c.Op, c.Field)
			}
		case []int64:
			if c.Op != OpIn && c.Op != OpNotIn {
				return fmt.Errorf("operator %q on %s needs a single value", c.Op, c.Field)
			}
		default:
			return fmt.Errorf("%s needs an integer value, got %T", c.Field, c.Value)
		}
	case FieldName, FieldFaction, FieldHomeworld, FieldSpecies:
		if !slices.Contains(textOps, c.Op) {
			return fmt.Errorf("operator %q not supported on %s", c.Op, c.Field)
		}
		switch c.Value.(type) {
		case string:
			if c.Op == OpIn || c.Op == OpNotIn {
				return fmt.Errorf("operator %q on %s needs a list", c.Op, c.Field)
			}
		case []string:
			if c.Op != OpIn && c.Op != OpNotIn {
				return fmt.Errorf("operator %q on %s needs a single value", c.Op, c.Field)
			}
		default:
			return fmt.Errorf("%s needs a string value, got %T", c.Field, c.Value)
		}
	default:
		return fmt.Errorf("unknown field %q", c.Field)
	}
	return nil
}

// Match evaluates w against a character. Text comparisons are case-sensitive.
func (w Where) Match(ch *Character) bool {
	for _, c := range w.Conds {
		if !c.match(ch) {
			return false
		}
	}
	for _, child := range w.And {
		if !child.Match(ch) {
			return false
		}
	}
	if len(w.Or) == 0 {
		return true
	}
	for _, child := range w.Or {
		if child.Match(ch) {
			return true
		}
	}
	return false
}

func (c Cond) match(ch *Character) bool {
	if c.Field == FieldID {
		switch v := c.Value.(type) {
		case int64:
			switch c.Op {
			case OpEq:
				return ch.ID == v
			case OpNeq:
				return ch.ID != v
			case OpGt:
				return ch.ID > v
			case OpGte:
				return ch.ID >= v
			case OpLt:
				return ch.ID < v
			case OpLte:
				return ch.ID <= v
			}
		case []int64:
			in := slices.Contains(v, ch.ID)
			return in == (c.Op == OpIn)
		}
		return false
	}

	got := ch.text(c.Field)
	switch v := c.Value.(type) {
	case string:
		switch c.Op {
		case OpEq:
			return got == v
		case OpNeq:
			return got != v
		case OpContains:
			return strings.Contains(got, v)
		case OpNotContains:
			return !strings.Contains(got, v)
		case OpStartsWith:
			return strings.HasPrefix(got, v)
		case OpEndsWith:
			return strings.HasSuffix(got, v)
		}
	case []string:
		in := slices.Contains(v, got)
		return in == (c.Op == OpIn)
	}
	return false
}

// text returns the value of a text field.
func (ch *Character) text(f Field) string {
	switch f {
	case FieldName:
		return ch.Name
	case FieldFaction:
		return ch.Faction
	case FieldHomeworld:
		return ch.Homeworld
	case FieldSpecies:
		return ch.Species
	}
	return ""
}

// compareCharacters orders a and b by the given terms, falling back to id.
func compareCharacters(a, b *Character, order []Order) int {
	for _, o := range order {
		var cmp int
		if o.Field == FieldID {
			cmp = compareInt(a.ID, b.ID)
		} else {
			cmp = strings.Compare(a.text(o.Field), b.text(o.Field))
		}
		if o.Desc {
			cmp = -cmp
		}
		if cmp != 0 {
			return cmp
		}
	}
	return compareInt(a.ID, b.ID)
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

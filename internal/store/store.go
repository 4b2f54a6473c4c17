// ABOUTME: Store interface and data types for holonet persistence
// ABOUTME: Defines the Character record, the four-field filter and the Store contract

package store

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrUnsupportedDriver is returned by Open for an unknown database driver
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Character is a single row of the SW_CHARACTERS table.
// ID is assigned by the store on creation and never changes afterwards.
type Character struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Faction   string `json:"faction"`
	Homeworld string `json:"homeworld"`
	Species   string `json:"species"`
}

// CharacterFilter holds the four optional substring filters of a list request.
// A filter is present iff it is non-empty after trimming whitespace.
type CharacterFilter struct {
	Name      string
	Faction   string
	Homeworld string
	Species   string
}

// Present reports whether a filter value constrains the result set.
func Present(value string) bool {
	return len(strings.TrimSpace(value)) > 0
}

// Where converts the filter into a conjunction of containment conditions,
// one per present field, in the order name, faction, homeworld, species.
// Absent fields contribute nothing; an all-absent filter matches every row.
// Values are used as given, untrimmed.
func (f CharacterFilter) Where() Where {
	var w Where
	for _, c := range []struct {
		field Field
		value string
	}{
		{FieldName, f.Name},
		{FieldFaction, f.Faction},
		{FieldHomeworld, f.Homeworld},
		{FieldSpecies, f.Species},
	} {
		if Present(c.value) {
			w.Conds = append(w.Conds, Cond{Field: c.field, Op: OpContains, Value: c.value})
		}
	}
	return w
}

// PresentFields returns the names of the fields that are present, in filter order.
func (f CharacterFilter) PresentFields() []string {
	conds := f.Where().Conds
	names := make([]string, 0, len(conds))
	for _, c := range conds {
		names = append(names, string(c.Field))
	}
	return names
}

// Query selects characters. A zero Query returns every row ordered by id.
type Query struct {
	Where Where
	Order []Order
}

// Store defines the interface for character persistence.
// Each mutating call commits exactly once; there is no batching.
type Store interface {
	// ListCharacters returns every character matching q.
	ListCharacters(ctx context.Context, q Query) ([]*Character, error)

	// GetCharacter returns ErrNotFound if no row has the given id.
	GetCharacter(ctx context.Context, id int64) (*Character, error)

	// CreateCharacter inserts c and sets c.ID to the store-assigned id.
	// Any id already set on c is ignored.
	CreateCharacter(ctx context.Context, c *Character) error

	// UpdateCharacter overwrites all four text fields of the row c.ID.
	// Returns ErrNotFound if the row does not exist.
	UpdateCharacter(ctx context.Context, c *Character) error

	// DeleteCharacter removes the row. Returns ErrNotFound if it does not exist.
	DeleteCharacter(ctx context.Context, id int64) error

	// Ping checks that the backing engine answers.
	Ping(ctx context.Context) error

	Close() error
}

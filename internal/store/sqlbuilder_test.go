// ABOUTME: Tests for the dialect-aware SQL rendering of character queries
// ABOUTME: Checks clause text and parameter order for SQLite and PostgreSQL

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCondition_FilterOrder(t *testing.T) {
	f := CharacterFilter{Species: "Human", Name: "Luke", Homeworld: "Tatooine", Faction: " "}

	cond, err := buildCondition(sqliteDialect, f.Where())
	require.NoError(t, err)
	assert.Equal(t,
		`instr("Name", ?) > 0 AND instr("Homeworld", ?) > 0 AND instr("Species", ?) > 0`,
		cond.Clause)
	assert.Equal(t, []any{"Luke", "Tatooine", "Human"}, cond.Params)
}

func TestBuildCondition_Empty(t *testing.T) {
	cond, err := buildCondition(postgresDialect, CharacterFilter{}.Where())
	require.NoError(t, err)
	assert.Empty(t, cond.Clause)
	assert.Empty(t, cond.Params)
}

func TestBuildCondition_PostgresPlaceholders(t *testing.T) {
	w := Where{
		Conds: []Cond{
			{Field: FieldName, Op: OpEndsWith, Value: "walker"},
			{Field: FieldID, Op: OpIn, Value: []int64{1, 2}},
		},
		Or: []Where{
			{Conds: []Cond{{Field: FieldFaction, Op: OpEq, Value: "Jedi"}}},
			{Conds: []Cond{{Field: FieldFaction, Op: OpStartsWith, Value: "Sith"}}},
		},
	}

	cond, err := buildCondition(postgresDialect, w)
	require.NoError(t, err)
	assert.Equal(t,
		`right("Name", length($1::text)) = $2 AND "Id" IN ($3, $4) AND (("Faction" = $5) OR (strpos("Faction", $6::text) = 1))`,
		cond.Clause)
	assert.Equal(t, []any{"walker", "walker", int64(1), int64(2), "Jedi", "Sith"}, cond.Params)
}

func TestBuildCondition_EmptyLists(t *testing.T) {
	cond, err := buildCondition(sqliteDialect, Where{Conds: []Cond{
		{Field: FieldName, Op: OpIn, Value: []string{}},
		{Field: FieldName, Op: OpNotIn, Value: []string{}},
	}})
	require.NoError(t, err)
	assert.Equal(t, "1 = 0 AND 1 = 1", cond.Clause)
	assert.Empty(t, cond.Params)
}

func TestBuildCondition_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cond Cond
	}{
		{"unknown field", Cond{Field: "rank", Op: OpEq, Value: "x"}},
		{"int op on text", Cond{Field: FieldName, Op: OpGt, Value: "x"}},
		{"text op on id", Cond{Field: FieldID, Op: OpContains, Value: int64(1)}},
		{"wrong value type", Cond{Field: FieldID, Op: OpEq, Value: "1"}},
		{"scalar for in", Cond{Field: FieldName, Op: OpIn, Value: "x"}},
		{"list for eq", Cond{Field: FieldName, Op: OpEq, Value: []string{"x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildCondition(sqliteDialect, Where{And: []Where{{Conds: []Cond{tt.cond}}}})
			assert.Error(t, err)
		})
	}
}

func TestBuildOrderBy(t *testing.T) {
	assert.Equal(t, `"Id" ASC`, buildOrderBy(sqliteDialect, nil))
	assert.Equal(t, `"Name" DESC, "Id" ASC`, buildOrderBy(sqliteDialect, []Order{{Field: FieldName, Desc: true}}))
	assert.Equal(t, `"Id" DESC`, buildOrderBy(sqliteDialect, []Order{{Field: FieldID, Desc: true}}))
}

func TestBuildOrderBy_PostgresSortsBytewise(t *testing.T) {
	assert.Equal(t,
		`"Homeworld" COLLATE "C" ASC, "Name" COLLATE "C" DESC, "Id" ASC`,
		buildOrderBy(postgresDialect, []Order{{Field: FieldHomeworld}, {Field: FieldName, Desc: true}}))
	assert.Equal(t, `"Id" DESC`, buildOrderBy(postgresDialect, []Order{{Field: FieldID, Desc: true}}))
}

func TestBuildSelect(t *testing.T) {
	query, params, err := buildSelect(sqliteDialect, Query{
		Where: CharacterFilter{Faction: "Rebel"}.Where(),
		Order: []Order{{Field: FieldSpecies}},
	})
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "Id", "Name", "Faction", "Homeworld", "Species" FROM "SW_CHARACTERS" WHERE instr("Faction", ?) > 0 ORDER BY "Species" ASC, "Id" ASC`,
		query)
	assert.Equal(t, []any{"Rebel"}, params)

	_, _, err = buildSelect(sqliteDialect, Query{Order: []Order{{Field: "rank"}}})
	assert.Error(t, err)
}

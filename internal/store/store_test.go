// ABOUTME: Shared behavioural tests run against every Store implementation
// ABOUTME: Covers CRUD round trips, not-found handling, filtering and ordering

package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath, discardLogger())
	require.NoError(t, err)

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func setupMemoryStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:", discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func TestSQLiteStore_Contract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store { return setupTestStore(t) })
}

func TestSQLiteStore_Memory_Contract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store { return setupMemoryStore(t) })
}

func TestMockStore_Contract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store { return NewMockStore() })
}

func anakin() *Character {
	return &Character{Name: "Anakin Skywalker", Faction: "Jedi", Homeworld: "Tatooine", Species: "Human"}
}

// seedCharacters inserts a small fixed cast and returns them with ids set.
func seedCharacters(t *testing.T, s Store) []*Character {
	t.Helper()
	cast := []*Character{
		{Name: "Luke Skywalker", Faction: "Rebel Alliance", Homeworld: "Tatooine", Species: "Human"},
		{Name: "Leia Organa", Faction: "Rebel Alliance", Homeworld: "Alderaan", Species: "Human"},
		{Name: "Darth Vader", Faction: "Galactic Empire", Homeworld: "Tatooine", Species: "Human"},
		{Name: "Chewbacca", Faction: "Rebel Alliance", Homeworld: "Kashyyyk", Species: "Wookiee"},
		{Name: "Owen Lars", Faction: "Rebel Alliance", Homeworld: "Tatooine", Species: "Human"},
	}
	ctx := context.Background()
	for _, c := range cast {
		require.NoError(t, s.CreateCharacter(ctx, c))
	}
	return cast
}

func names(cs []*Character) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}

func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("create then get round trips", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		in := anakin()
		require.NoError(t, s.CreateCharacter(ctx, in))
		assert.Positive(t, in.ID)

		got, err := s.GetCharacter(ctx, in.ID)
		require.NoError(t, err)
		assert.Equal(t, in, got)
	})

	t.Run("create ignores client id", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		in := anakin()
		in.ID = 4242
		require.NoError(t, s.CreateCharacter(ctx, in))
		assert.NotEqual(t, int64(4242), in.ID)

		_, err := s.GetCharacter(ctx, 4242)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("missing id reports not found and leaves store unchanged", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		seedCharacters(t, s)

		before, err := s.ListCharacters(ctx, Query{})
		require.NoError(t, err)

		_, err = s.GetCharacter(ctx, 9999)
		assert.ErrorIs(t, err, ErrNotFound)

		ghost := anakin()
		ghost.ID = 9999
		assert.ErrorIs(t, s.UpdateCharacter(ctx, ghost), ErrNotFound)
		assert.ErrorIs(t, s.DeleteCharacter(ctx, 9999), ErrNotFound)

		after, err := s.ListCharacters(ctx, Query{})
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("update overwrites every field", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		c := anakin()
		require.NoError(t, s.CreateCharacter(ctx, c))

		updated := &Character{ID: c.ID, Name: "Anakin Skywalker v2", Faction: "Sith", Homeworld: "Tatooine", Species: "Human"}
		require.NoError(t, s.UpdateCharacter(ctx, updated))

		got, err := s.GetCharacter(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, got)
	})

	t.Run("delete twice yields not found", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		c := anakin()
		require.NoError(t, s.CreateCharacter(ctx, c))

		require.NoError(t, s.DeleteCharacter(ctx, c.ID))
		assert.ErrorIs(t, s.DeleteCharacter(ctx, c.ID), ErrNotFound)
		_, err := s.GetCharacter(ctx, c.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("deleted ids are not reused", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		first := anakin()
		require.NoError(t, s.CreateCharacter(ctx, first))
		require.NoError(t, s.DeleteCharacter(ctx, first.ID))

		second := anakin()
		require.NoError(t, s.CreateCharacter(ctx, second))
		assert.Greater(t, second.ID, first.ID)
	})

	t.Run("empty filter lists everything in id order", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		empty, err := s.ListCharacters(ctx, Query{})
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)

		cast := seedCharacters(t, s)
		got, err := s.ListCharacters(ctx, Query{Where: CharacterFilter{Name: "  ", Faction: "\t"}.Where()})
		require.NoError(t, err)
		assert.Equal(t, cast, got)
	})

	t.Run("all four filters pick exactly one", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		cast := seedCharacters(t, s)

		f := CharacterFilter{Name: "Leia Organa", Faction: "Rebel Alliance", Homeworld: "Alderaan", Species: "Human"}
		got, err := s.ListCharacters(ctx, Query{Where: f.Where()})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, cast[1], got[0])
	})

	t.Run("filters combine conjunctively", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		seedCharacters(t, s)

		shared := CharacterFilter{Faction: "Rebel", Homeworld: "Tatooine", Species: "Human"}
		got, err := s.ListCharacters(ctx, Query{Where: shared.Where()})
		require.NoError(t, err)
		assert.Equal(t, []string{"Luke Skywalker", "Owen Lars"}, names(got))

		shared.Name = "Luke"
		got, err = s.ListCharacters(ctx, Query{Where: shared.Where()})
		require.NoError(t, err)
		assert.Equal(t, []string{"Luke Skywalker"}, names(got))
	})

	t.Run("containment is case-sensitive", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		seedCharacters(t, s)

		got, err := s.ListCharacters(ctx, Query{Where: CharacterFilter{Name: "skywalker"}.Where()})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("string operators", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		seedCharacters(t, s)

		tests := []struct {
			name string
			cond Cond
			want []string
		}{
			{"eq", Cond{FieldName, OpEq, "Chewbacca"}, []string{"Chewbacca"}},
			{"neq", Cond{FieldFaction, OpNeq, "Rebel Alliance"}, []string{"Darth Vader"}},
			{"startsWith", Cond{FieldName, OpStartsWith, "L"}, []string{"Luke Skywalker", "Leia Organa"}},
			{"endsWith", Cond{FieldName, OpEndsWith, "walker"}, []string{"Luke Skywalker"}},
			{"endsWith longer than value", Cond{FieldName, OpEndsWith, "An Owen Lars"}, []string{}},
			{"ncontains", Cond{FieldSpecies, OpNotContains, "Hum"}, []string{"Chewbacca"}},
			{"in", Cond{FieldHomeworld, OpIn, []string{"Alderaan", "Kashyyyk"}}, []string{"Leia Organa", "Chewbacca"}},
			{"nin", Cond{FieldHomeworld, OpNotIn, []string{"Tatooine"}}, []string{"Leia Organa", "Chewbacca"}},
			{"empty in", Cond{FieldHomeworld, OpIn, []string{}}, []string{}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := s.ListCharacters(ctx, Query{Where: Where{Conds: []Cond{tt.cond}}})
				require.NoError(t, err)
				assert.Equal(t, tt.want, names(got))
			})
		}
	})

	t.Run("id operators", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		cast := seedCharacters(t, s)

		got, err := s.ListCharacters(ctx, Query{Where: Where{Conds: []Cond{
			{FieldID, OpGt, cast[0].ID},
			{FieldID, OpLte, cast[2].ID},
		}}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Leia Organa", "Darth Vader"}, names(got))

		got, err = s.ListCharacters(ctx, Query{Where: Where{Conds: []Cond{
			{FieldID, OpIn, []int64{cast[4].ID, cast[3].ID}},
		}}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Chewbacca", "Owen Lars"}, names(got))
	})

	t.Run("or groups", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		seedCharacters(t, s)

		w := Where{
			Conds: []Cond{{FieldSpecies, OpEq, "Human"}},
			Or: []Where{
				{Conds: []Cond{{FieldHomeworld, OpEq, "Alderaan"}}},
				{Conds: []Cond{{FieldFaction, OpEq, "Galactic Empire"}}},
			},
		}
		got, err := s.ListCharacters(ctx, Query{Where: w})
		require.NoError(t, err)
		assert.Equal(t, []string{"Leia Organa", "Darth Vader"}, names(got))
	})

	t.Run("ordering", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		seedCharacters(t, s)

		got, err := s.ListCharacters(ctx, Query{Order: []Order{{Field: FieldName}}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Chewbacca", "Darth Vader", "Leia Organa", "Luke Skywalker", "Owen Lars"}, names(got))

		got, err = s.ListCharacters(ctx, Query{Order: []Order{{Field: FieldHomeworld, Desc: true}}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Luke Skywalker", "Darth Vader", "Owen Lars", "Chewbacca", "Leia Organa"}, names(got))
	})

	t.Run("text ordering is bytewise", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		for _, name := range []string{"ackbar", "Zam Wesell", "Bossk"} {
			require.NoError(t, s.CreateCharacter(ctx, &Character{Name: name, Faction: "None", Homeworld: "Unknown", Species: "Unknown"}))
		}

		got, err := s.ListCharacters(ctx, Query{Order: []Order{{Field: FieldName}}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Bossk", "Zam Wesell", "ackbar"}, names(got))
	})

	t.Run("invalid query is rejected", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.ListCharacters(ctx, Query{Where: Where{Conds: []Cond{{FieldName, OpGt, "A"}}}})
		assert.Error(t, err)

		_, err = s.ListCharacters(ctx, Query{Order: []Order{{Field: "rank"}}})
		assert.Error(t, err)
	})

	t.Run("concurrent creates are all stored", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		const workers, perWorker = 16, 20
		var wg sync.WaitGroup
		errs := make(chan error, workers*perWorker)
		for w := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range perWorker {
					c := &Character{Name: fmt.Sprintf("Clone %d-%d", w, i), Faction: "Republic", Homeworld: "Kamino", Species: "Human"}
					if err := s.CreateCharacter(ctx, c); err != nil {
						errs <- err
					}
				}
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			t.Errorf("concurrent create failed: %v", err)
		}

		got, err := s.ListCharacters(ctx, Query{})
		require.NoError(t, err)
		require.Len(t, got, workers*perWorker)
		seen := make(map[int64]bool, len(got))
		for _, c := range got {
			assert.False(t, seen[c.ID], "duplicate id %d", c.ID)
			seen[c.ID] = true
		}
	})

	t.Run("ping", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.Ping(context.Background()))
	})
}

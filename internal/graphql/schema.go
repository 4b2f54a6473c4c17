// ABOUTME: GraphQL schema over the character repository
// ABOUTME: Filtering, sorting and the addCharacter mutation in the HotChocolate input shape

package graphql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	gql "github.com/graphql-go/graphql"

	"github.com/2389/holonet/internal/character"
	"github.com/2389/holonet/internal/store"
)

var (
	// errInternal hides store failures from clients; the cause is logged.
	errInternal = errors.New("internal server error")

	errBlankFields = errors.New("All fields must be filled")
)

// textFields are the character fields filtered with StringOperationFilterInput,
// in the order sort terms inside one SwCharacterSortInput are applied.
var textFields = []store.Field{store.FieldName, store.FieldFaction, store.FieldHomeworld, store.FieldSpecies}

// resolver holds what the field resolvers need.
type resolver struct {
	repo   character.Repository
	logger *slog.Logger
}

// NewSchema builds the schema. Types are created per call so that several
// schemas can coexist in one process.
func NewSchema(repo character.Repository, logger *slog.Logger) (gql.Schema, error) {
	r := &resolver{repo: repo, logger: logger}

	characterType := gql.NewObject(gql.ObjectConfig{
		Name:        "SwCharacter",
		Description: "A character of the saga.",
		Fields: gql.Fields{
			"id":        &gql.Field{Type: gql.NewNonNull(gql.Int)},
			"name":      &gql.Field{Type: gql.NewNonNull(gql.String)},
			"faction":   &gql.Field{Type: gql.NewNonNull(gql.String)},
			"homeworld": &gql.Field{Type: gql.NewNonNull(gql.String)},
			"species":   &gql.Field{Type: gql.NewNonNull(gql.String)},
		},
	})

	stringFilter := gql.NewInputObject(gql.InputObjectConfig{
		Name: "StringOperationFilterInput",
		Fields: gql.InputObjectConfigFieldMap{
			"eq":         &gql.InputObjectFieldConfig{Type: gql.String},
			"neq":        &gql.InputObjectFieldConfig{Type: gql.String},
			"contains":   &gql.InputObjectFieldConfig{Type: gql.String},
			"ncontains":  &gql.InputObjectFieldConfig{Type: gql.String},
			"startsWith": &gql.InputObjectFieldConfig{Type: gql.String},
			"endsWith":   &gql.InputObjectFieldConfig{Type: gql.String},
			"in":         &gql.InputObjectFieldConfig{Type: gql.NewList(gql.String)},
			"nin":        &gql.InputObjectFieldConfig{Type: gql.NewList(gql.String)},
		},
	})

	intFilter := gql.NewInputObject(gql.InputObjectConfig{
		Name: "IntOperationFilterInput",
		Fields: gql.InputObjectConfigFieldMap{
			"eq":  &gql.InputObjectFieldConfig{Type: gql.Int},
			"neq": &gql.InputObjectFieldConfig{Type: gql.Int},
			"gt":  &gql.InputObjectFieldConfig{Type: gql.Int},
			"gte": &gql.InputObjectFieldConfig{Type: gql.Int},
			"lt":  &gql.InputObjectFieldConfig{Type: gql.Int},
			"lte": &gql.InputObjectFieldConfig{Type: gql.Int},
			"in":  &gql.InputObjectFieldConfig{Type: gql.NewList(gql.Int)},
			"nin": &gql.InputObjectFieldConfig{Type: gql.NewList(gql.Int)},
		},
	})

	var characterFilter *gql.InputObject
	characterFilter = gql.NewInputObject(gql.InputObjectConfig{
		Name: "SwCharacterFilterInput",
		Fields: gql.InputObjectConfigFieldMapThunk(func() gql.InputObjectConfigFieldMap {
			return gql.InputObjectConfigFieldMap{
				"and":       &gql.InputObjectFieldConfig{Type: gql.NewList(gql.NewNonNull(characterFilter))},
				"or":        &gql.InputObjectFieldConfig{Type: gql.NewList(gql.NewNonNull(characterFilter))},
				"id":        &gql.InputObjectFieldConfig{Type: intFilter},
				"name":      &gql.InputObjectFieldConfig{Type: stringFilter},
				"faction":   &gql.InputObjectFieldConfig{Type: stringFilter},
				"homeworld": &gql.InputObjectFieldConfig{Type: stringFilter},
				"species":   &gql.InputObjectFieldConfig{Type: stringFilter},
			}
		}),
	})

	sortEnum := gql.NewEnum(gql.EnumConfig{
		Name: "SortEnumType",
		Values: gql.EnumValueConfigMap{
			"ASC":  &gql.EnumValueConfig{Value: "ASC"},
			"DESC": &gql.EnumValueConfig{Value: "DESC"},
		},
	})

	sortInput := gql.NewInputObject(gql.InputObjectConfig{
		Name: "SwCharacterSortInput",
		Fields: gql.InputObjectConfigFieldMap{
			"id":        &gql.InputObjectFieldConfig{Type: sortEnum},
			"name":      &gql.InputObjectFieldConfig{Type: sortEnum},
			"faction":   &gql.InputObjectFieldConfig{Type: sortEnum},
			"homeworld": &gql.InputObjectFieldConfig{Type: sortEnum},
			"species":   &gql.InputObjectFieldConfig{Type: sortEnum},
		},
	})

	characterInput := gql.NewInputObject(gql.InputObjectConfig{
		Name: "CharacterInput",
		Fields: gql.InputObjectConfigFieldMap{
			"name":      &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
			"faction":   &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
			"homeworld": &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
			"species":   &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
		},
	})

	query := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"characters": &gql.Field{
				Type: gql.NewNonNull(gql.NewList(gql.NewNonNull(characterType))),
				Args: gql.FieldConfigArgument{
					"where": &gql.ArgumentConfig{Type: characterFilter},
					"order": &gql.ArgumentConfig{Type: gql.NewList(gql.NewNonNull(sortInput))},
				},
				Resolve: r.characters,
			},
			"characterById": &gql.Field{
				Type: characterType,
				Args: gql.FieldConfigArgument{
					"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
				},
				Resolve: r.characterByID,
			},
		},
	})

	mutation := gql.NewObject(gql.ObjectConfig{
		Name: "Mutation",
		Fields: gql.Fields{
			"addCharacter": &gql.Field{
				Type: gql.NewNonNull(characterType),
				Args: gql.FieldConfigArgument{
					"character": &gql.ArgumentConfig{Type: gql.NewNonNull(characterInput)},
				},
				Resolve: r.addCharacter,
			},
		},
	})

	return gql.NewSchema(gql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

func (r *resolver) characters(p gql.ResolveParams) (any, error) {
	q, err := parseQuery(p.Args)
	if err != nil {
		return nil, err
	}

	characters, err := r.repo.Search(requestContext(p), q)
	if errors.Is(err, character.ErrInvalidQuery) {
		return nil, err
	}
	if err != nil {
		return nil, r.internal("characters", err)
	}

	out := make([]any, 0, len(characters))
	for _, c := range characters {
		out = append(out, characterMap(c))
	}
	return out, nil
}

func (r *resolver) characterByID(p gql.ResolveParams) (any, error) {
	id, err := toInt64(p.Args["id"])
	if err != nil {
		return nil, err
	}

	c, err := r.repo.Get(requestContext(p), id)
	if errors.Is(err, character.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.internal("characterById", err)
	}
	return characterMap(c), nil
}

func (r *resolver) addCharacter(p gql.ResolveParams) (any, error) {
	raw, _ := p.Args["character"].(map[string]any)
	in := character.Input{
		Name:      stringArg(raw, "name"),
		Faction:   stringArg(raw, "faction"),
		Homeworld: stringArg(raw, "homeworld"),
		Species:   stringArg(raw, "species"),
	}

	c, err := r.repo.Create(requestContext(p), in)
	if errors.Is(err, character.ErrInvalidInput) {
		return nil, errBlankFields
	}
	if err != nil {
		return nil, r.internal("addCharacter", err)
	}
	return characterMap(c), nil
}

func (r *resolver) internal(field string, err error) error {
	r.logger.Error("graphql resolver failed", "field", field, "error", err)
	return errInternal
}

func requestContext(p gql.ResolveParams) context.Context {
	if p.Context != nil {
		return p.Context
	}
	return context.Background()
}

func characterMap(c *store.Character) map[string]any {
	return map[string]any{
		"id":        c.ID,
		"name":      c.Name,
		"faction":   c.Faction,
		"homeworld": c.Homeworld,
		"species":   c.Species,
	}
}

func stringArg(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// parseQuery converts the where and order arguments into a store.Query.
func parseQuery(args map[string]any) (store.Query, error) {
	var q store.Query

	if raw, ok := args["where"].(map[string]any); ok {
		w, err := parseWhere(raw)
		if err != nil {
			return q, err
		}
		q.Where = w
	}

	if raw, ok := args["order"].([]any); ok {
		for _, item := range raw {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			for _, f := range append([]store.Field{store.FieldID}, textFields...) {
				dir, ok := m[string(f)].(string)
				if !ok {
					continue
				}
				q.Order = append(q.Order, store.Order{Field: f, Desc: dir == "DESC"})
			}
		}
	}

	return q, nil
}

// parseWhere converts one SwCharacterFilterInput object. Null operator
// values are skipped.
func parseWhere(raw map[string]any) (store.Where, error) {
	var w store.Where

	if m, ok := raw["id"].(map[string]any); ok {
		conds, err := intConds(store.FieldID, m)
		if err != nil {
			return w, err
		}
		w.Conds = append(w.Conds, conds...)
	}

	for _, f := range textFields {
		m, ok := raw[string(f)].(map[string]any)
		if !ok {
			continue
		}
		conds, err := stringConds(f, m)
		if err != nil {
			return w, err
		}
		w.Conds = append(w.Conds, conds...)
	}

	for _, key := range []string{"and", "or"} {
		list, ok := raw[key].([]any)
		if !ok {
			continue
		}
		for _, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			child, err := parseWhere(m)
			if err != nil {
				return w, err
			}
			if key == "and" {
				w.And = append(w.And, child)
			} else {
				w.Or = append(w.Or, child)
			}
		}
	}

	return w, nil
}

var stringOps = []store.Op{
	store.OpEq, store.OpNeq, store.OpContains, store.OpNotContains,
	store.OpStartsWith, store.OpEndsWith,
}

func stringConds(f store.Field, m map[string]any) ([]store.Cond, error) {
	var conds []store.Cond
	for _, op := range stringOps {
		v, ok := m[string(op)]
		if !ok || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s.%s: expected a string", f, op)
		}
		conds = append(conds, store.Cond{Field: f, Op: op, Value: s})
	}
	for _, op := range []store.Op{store.OpIn, store.OpNotIn} {
		list, ok := m[string(op)].([]any)
		if !ok {
			continue
		}
		values := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				values = append(values, s)
			}
		}
		conds = append(conds, store.Cond{Field: f, Op: op, Value: values})
	}
	return conds, nil
}

var intOps = []store.Op{store.OpEq, store.OpNeq, store.OpGt, store.OpGte, store.OpLt, store.OpLte}

func intConds(f store.Field, m map[string]any) ([]store.Cond, error) {
	var conds []store.Cond
	for _, op := range intOps {
		v, ok := m[string(op)]
		if !ok || v == nil {
			continue
		}
		n, err := toInt64(v)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", f, op, err)
		}
		conds = append(conds, store.Cond{Field: f, Op: op, Value: n})
	}
	for _, op := range []store.Op{store.OpIn, store.OpNotIn} {
		list, ok := m[string(op)].([]any)
		if !ok {
			continue
		}
		values := make([]int64, 0, len(list))
		for _, item := range list {
			if item == nil {
				continue
			}
			n, err := toInt64(item)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", f, op, err)
			}
			values = append(values, n)
		}
		conds = append(conds, store.Cond{Field: f, Op: op, Value: values})
	}
	return conds, nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	}
	return 0, fmt.Errorf("expected an integer, got %T", v)
}

// ABOUTME: Repository facade over the character store shared by every transport
// ABOUTME: Validates input, maps store errors and traces one span per operation

package character

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/2389/holonet/internal/store"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=mockcharacter -source=service.go

const tracerName = "github.com/2389/holonet/internal/character"

var (
	// ErrNotFound is returned when no character has the requested id.
	ErrNotFound = errors.New("character not found")

	// ErrInvalidInput matches every *ValidationError via errors.Is.
	ErrInvalidInput = errors.New("all fields must be filled")

	// ErrInvalidQuery is returned by Search for a malformed predicate or sort.
	ErrInvalidQuery = errors.New("invalid character query")
)

// ValidationError lists the fields that were blank after trimming.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("all fields must be filled: %s blank", strings.Join(e.Fields, ", "))
}

// Is lets errors.Is(err, ErrInvalidInput) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Input carries the four client-supplied fields of a create or update.
// Any id sent by a client is not part of Input and is never honoured.
type Input struct {
	Name      string `json:"name"`
	Faction   string `json:"faction"`
	Homeworld string `json:"homeworld"`
	Species   string `json:"species"`
}

// Validate returns a *ValidationError naming each blank field, or nil.
func (in Input) Validate() error {
	var blank []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"name", in.Name},
		{"faction", in.Faction},
		{"homeworld", in.Homeworld},
		{"species", in.Species},
	} {
		if !store.Present(f.value) {
			blank = append(blank, f.name)
		}
	}
	if len(blank) > 0 {
		return &ValidationError{Fields: blank}
	}
	return nil
}

func (in Input) character(id int64) *store.Character {
	return &store.Character{
		ID:        id,
		Name:      in.Name,
		Faction:   in.Faction,
		Homeworld: in.Homeworld,
		Species:   in.Species,
	}
}

// Repository is the single entry point for character reads and writes.
type Repository interface {
	// List applies the four-field substring filter. An empty result is not an error.
	List(ctx context.Context, filter store.CharacterFilter) ([]*store.Character, error)

	// Search runs an arbitrary predicate and ordering.
	Search(ctx context.Context, q store.Query) ([]*store.Character, error)

	// Get returns ErrNotFound when id is absent.
	Get(ctx context.Context, id int64) (*store.Character, error)

	// Create validates in and stores a new character with a fresh id.
	Create(ctx context.Context, in Input) (*store.Character, error)

	// Update replaces all four fields of id. Returns ErrNotFound when id is absent.
	Update(ctx context.Context, id int64, in Input) (*store.Character, error)

	// Delete removes id. Returns ErrNotFound when id is absent.
	Delete(ctx context.Context, id int64) error
}

// Service implements Repository on a store.Store.
type Service struct {
	store  store.Store
	logger *slog.Logger
	tracer trace.Tracer
}

var _ Repository = (*Service)(nil)

// NewService creates a Service. The store handle is owned by the caller.
func NewService(s store.Store, logger *slog.Logger) *Service {
	return &Service{
		store:  s,
		logger: logger.With("component", "character"),
		tracer: otel.Tracer(tracerName),
	}
}

// List returns the characters matching every present filter field.
func (s *Service) List(ctx context.Context, filter store.CharacterFilter) ([]*store.Character, error) {
	ctx, span := s.tracer.Start(ctx, "character.List",
		trace.WithAttributes(attribute.StringSlice("character.filters", filter.PresentFields())))
	defer span.End()

	characters, err := s.store.ListCharacters(ctx, store.Query{Where: filter.Where()})
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("listing characters: %w", err))
	}

	span.SetAttributes(attribute.Int("character.count", len(characters)))
	return characters, nil
}

// Search returns the characters matching q in q's order.
func (s *Service) Search(ctx context.Context, q store.Query) ([]*store.Character, error) {
	ctx, span := s.tracer.Start(ctx, "character.Search")
	defer span.End()

	if err := q.Validate(); err != nil {
		return nil, s.fail(span, fmt.Errorf("%w: %v", ErrInvalidQuery, err))
	}

	characters, err := s.store.ListCharacters(ctx, q)
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("searching characters: %w", err))
	}

	span.SetAttributes(attribute.Int("character.count", len(characters)))
	return characters, nil
}

// Get returns one character.
func (s *Service) Get(ctx context.Context, id int64) (*store.Character, error) {
	ctx, span := s.tracer.Start(ctx, "character.Get",
		trace.WithAttributes(attribute.Int64("character.id", id)))
	defer span.End()

	c, err := s.get(ctx, id)
	if err != nil {
		return nil, s.fail(span, err)
	}
	return c, nil
}

// Create stores a new character and returns it with its id.
func (s *Service) Create(ctx context.Context, in Input) (*store.Character, error) {
	ctx, span := s.tracer.Start(ctx, "character.Create")
	defer span.End()

	if err := in.Validate(); err != nil {
		return nil, s.fail(span, err)
	}

	c := in.character(0)
	if err := s.store.CreateCharacter(ctx, c); err != nil {
		return nil, s.fail(span, fmt.Errorf("creating character: %w", err))
	}

	span.SetAttributes(attribute.Int64("character.id", c.ID))
	s.logger.Info("character created", "id", c.ID, "name", c.Name)
	return c, nil
}

// Update overwrites every field of an existing character and returns the
// stored result.
func (s *Service) Update(ctx context.Context, id int64, in Input) (*store.Character, error) {
	ctx, span := s.tracer.Start(ctx, "character.Update",
		trace.WithAttributes(attribute.Int64("character.id", id)))
	defer span.End()

	if err := in.Validate(); err != nil {
		return nil, s.fail(span, err)
	}

	if _, err := s.get(ctx, id); err != nil {
		return nil, s.fail(span, err)
	}

	if err := s.store.UpdateCharacter(ctx, in.character(id)); err != nil {
		return nil, s.fail(span, mapStoreError(err, "updating character"))
	}

	updated, err := s.get(ctx, id)
	if err != nil {
		return nil, s.fail(span, err)
	}

	s.logger.Info("character updated", "id", id)
	return updated, nil
}

// Delete removes a character.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "character.Delete",
		trace.WithAttributes(attribute.Int64("character.id", id)))
	defer span.End()

	if _, err := s.get(ctx, id); err != nil {
		return s.fail(span, err)
	}

	if err := s.store.DeleteCharacter(ctx, id); err != nil {
		return s.fail(span, mapStoreError(err, "deleting character"))
	}

	s.logger.Info("character deleted", "id", id)
	return nil
}

func (s *Service) get(ctx context.Context, id int64) (*store.Character, error) {
	c, err := s.store.GetCharacter(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, "getting character")
	}
	return c, nil
}

// mapStoreError turns store.ErrNotFound into ErrNotFound and wraps the rest.
func mapStoreError(err error, action string) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", action, err)
}

// fail records err on span. Not-found and validation outcomes are expected
// and do not mark the span as failed.
func (s *Service) fail(span trace.Span, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInvalidQuery) {
		span.SetAttributes(attribute.String("character.outcome", err.Error()))
		return err
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

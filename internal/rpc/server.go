// ABOUTME: CharactersServer implementation backed by the character repository
// ABOUTME: Converts Structs to inputs and maps facade errors onto gRPC status codes

package rpc

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/2389/holonet/internal/character"
	"github.com/2389/holonet/internal/store"
)

// Server implements CharactersServer.
type Server struct {
	repo   character.Repository
	logger *slog.Logger
}

// NewServer creates a Server over repo.
func NewServer(repo character.Repository, logger *slog.Logger) *Server {
	return &Server{
		repo:   repo,
		logger: logger.With("component", "rpc"),
	}
}

// ListCharacters applies the optional name, faction, homeworld and species
// filter strings in req.
func (s *Server) ListCharacters(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	fields, err := stringFields(req, "name", "faction", "homeworld", "species")
	if err != nil {
		return nil, err
	}

	characters, err := s.repo.List(ctx, store.CharacterFilter{
		Name:      fields["name"],
		Faction:   fields["faction"],
		Homeworld: fields["homeworld"],
		Species:   fields["species"],
	})
	if err != nil {
		return nil, s.toStatus("ListCharacters", err)
	}

	out := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(characters))}
	for _, c := range characters {
		out.Values = append(out.Values, structpb.NewStructValue(toStruct(c)))
	}
	return out, nil
}

func (s *Server) GetCharacter(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	c, err := s.repo.Get(ctx, req.GetValue())
	if err != nil {
		return nil, s.toStatus("GetCharacter", err)
	}
	return toStruct(c), nil
}

func (s *Server) CreateCharacter(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := toInput(req)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, s.toStatus("CreateCharacter", err)
	}
	return toStruct(c), nil
}

// UpdateCharacter replaces every field of the character named by req's id.
func (s *Server) UpdateCharacter(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	idValue, ok := req.GetFields()["id"]
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	n, ok := idValue.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "id must be an integer")
	}
	id, ok := int64Value(n.NumberValue)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "id must be an integer")
	}

	in, err := toInput(req)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, s.toStatus("UpdateCharacter", err)
	}
	return toStruct(c), nil
}

func (s *Server) DeleteCharacter(ctx context.Context, req *wrapperspb.Int64Value) (*emptypb.Empty, error) {
	if err := s.repo.Delete(ctx, req.GetValue()); err != nil {
		return nil, s.toStatus("DeleteCharacter", err)
	}
	return &emptypb.Empty{}, nil
}

// int64Value converts v when it is integral and within int64 range.
// NaN and the infinities are rejected.
func int64Value(v float64) (int64, bool) {
	if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
		return 0, false
	}
	return int64(v), true
}

// toStatus maps a facade error to a status. Internal causes are logged
// and not sent to the client.
func (s *Server) toStatus(method string, err error) error {
	switch {
	case errors.Is(err, character.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, "All fields must be filled")
	case errors.Is(err, character.ErrInvalidQuery):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, character.ErrNotFound):
		return status.Error(codes.NotFound, "character not found")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	}
	s.logger.Error("rpc failed", "method", method, "error", err)
	return status.Error(codes.Internal, "internal server error")
}

func toInput(req *structpb.Struct) (character.Input, error) {
	fields, err := stringFields(req, "name", "faction", "homeworld", "species")
	if err != nil {
		return character.Input{}, err
	}
	return character.Input{
		Name:      fields["name"],
		Faction:   fields["faction"],
		Homeworld: fields["homeworld"],
		Species:   fields["species"],
	}, nil
}

// stringFields reads the named keys from req. Absent keys and nulls read
// as "", any other non-string kind is InvalidArgument.
func stringFields(req *structpb.Struct, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		v, ok := req.GetFields()[k]
		if !ok {
			continue
		}
		switch kind := v.GetKind().(type) {
		case *structpb.Value_StringValue:
			out[k] = kind.StringValue
		case *structpb.Value_NullValue:
		default:
			return nil, status.Errorf(codes.InvalidArgument, "%s must be a string", k)
		}
	}
	return out, nil
}

func toStruct(c *store.Character) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":        structpb.NewNumberValue(float64(c.ID)),
		"name":      structpb.NewStringValue(c.Name),
		"faction":   structpb.NewStringValue(c.Faction),
		"homeworld": structpb.NewStringValue(c.Homeworld),
		"species":   structpb.NewStringValue(c.Species),
	}}
}

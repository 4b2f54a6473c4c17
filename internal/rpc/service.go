// ABOUTME: holonet.v1.Characters gRPC service described over protobuf well-known types
// ABOUTME: Service descriptor, server interface and a thin client for the five unary methods

package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "holonet.v1.Characters"

// CharactersServer is the server API for holonet.v1.Characters.
//
// Characters travel as Structs with the keys id, name, faction, homeworld
// and species. ListCharacters takes a Struct of optional filter strings.
type CharactersServer interface {
	ListCharacters(context.Context, *structpb.Struct) (*structpb.ListValue, error)
	GetCharacter(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	CreateCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteCharacter(context.Context, *wrapperspb.Int64Value) (*emptypb.Empty, error)
}

// ServiceDesc describes holonet.v1.Characters for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CharactersServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ListCharacters", CharactersServer.ListCharacters),
		unary("GetCharacter", CharactersServer.GetCharacter),
		unary("CreateCharacter", CharactersServer.CreateCharacter),
		unary("UpdateCharacter", CharactersServer.UpdateCharacter),
		unary("DeleteCharacter", CharactersServer.DeleteCharacter),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "holonet/v1/characters.proto",
}

// RegisterCharactersServer registers srv on s.
func RegisterCharactersServer(s grpc.ServiceRegistrar, srv CharactersServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// unary builds the MethodDesc for one method. Req must be a pointer to a
// protobuf message type.
func unary[Req proto.Message, Resp proto.Message](name string, call func(CharactersServer, context.Context, Req) (Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			var zero Req
			in := zero.ProtoReflect().New().Interface().(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CharactersServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(CharactersServer), ctx, req.(Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Client calls holonet.v1.Characters over a client connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) ListCharacters(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, fullMethod("ListCharacters"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCharacter(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod("GetCharacter"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCharacter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod("CreateCharacter"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateCharacter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod("UpdateCharacter"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteCharacter(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, fullMethod("DeleteCharacter"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

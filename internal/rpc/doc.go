// Package rpc serves the character repository over gRPC.
//
// The holonet.v1.Characters service is described directly with
// grpc.ServiceDesc over protobuf well-known types, so no generated code
// is needed:
//
//	ListCharacters(google.protobuf.Struct)     returns (google.protobuf.ListValue)
//	GetCharacter(google.protobuf.Int64Value)   returns (google.protobuf.Struct)
//	CreateCharacter(google.protobuf.Struct)    returns (google.protobuf.Struct)
//	UpdateCharacter(google.protobuf.Struct)    returns (google.protobuf.Struct)
//	DeleteCharacter(google.protobuf.Int64Value) returns (google.protobuf.Empty)
//
// A character Struct carries id (number), name, faction, homeworld and
// species (strings). Blank fields map to InvalidArgument, a missing id to
// NotFound and store failures to Internal.
package rpc

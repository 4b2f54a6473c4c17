// Package graphql exposes the character repository as a GraphQL schema.
//
// The schema has two queries and one mutation:
//
//	characters(where: SwCharacterFilterInput, order: [SwCharacterSortInput!]): [SwCharacter!]!
//	characterById(id: Int!): SwCharacter
//	addCharacter(character: CharacterInput!): SwCharacter!
//
// Filter inputs follow the HotChocolate conventions: StringOperationFilterInput
// (eq, neq, contains, ncontains, startsWith, endsWith, in, nin) on text fields,
// IntOperationFilterInput (eq, neq, gt, gte, lt, lte, in, nin) on id, and
// recursive and/or lists. Operators on one object are joined with AND.
//
// characterById returns null for a missing id. addCharacter with a blank
// field fails with "All fields must be filled" and stores nothing.
//
// Handler serves the schema over HTTP with GET query strings or POST JSON.
package graphql

// Package character is the repository facade every transport calls.
//
// Repository has one method per operation: List, Search, Get, Create,
// Update and Delete. Service implements it on a store.Store that the
// caller opens and closes.
//
// Create and Update validate their Input first; a blank field (after
// trimming) yields a *ValidationError and the store is not touched.
// Update and Delete look the id up before writing, so a missing id
// reports ErrNotFound and leaves the store unchanged. Each write commits
// once. Store failures are wrapped and returned; nothing is retried.
//
// The mock subpackage holds a gomock MockRepository for transport tests.
package character

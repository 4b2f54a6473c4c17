// Package api serves the character REST surface under /sw-characters.
//
// Routes:
//
//	GET    /sw-characters           list, filtered by name, faction, homeland, species
//	GET    /sw-characters/{id}      fetch one
//	POST   /sw-characters           create, 201 with Location
//	PUT    /sw-characters/{id}      replace every field
//	DELETE /sw-characters/{id}      remove, empty 200
//
// The homeworld filter is read from the "homeland" query parameter. Filters
// are case-sensitive substring matches joined with AND; blank ones are
// ignored. A client-supplied id in a body is ignored.
//
// Errors are JSON objects of the form {"error": "..."}: 400 for a blank
// field, a malformed body or a non-integer id, 404 for a missing id, and
// 500 for store failures, which are logged and never echoed.
package api

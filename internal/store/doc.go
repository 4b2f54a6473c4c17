// Package store provides persistent storage for characters.
//
// # Architecture
//
// Store is the single persistence contract. Three implementations exist:
//
//   - SQLiteStore: modernc.org/sqlite, pure Go, file or ":memory:"
//   - PostgresStore: pgx connection pool
//   - MockStore: in-memory, used by tests of the layers above
//
// Open picks SQLiteStore or PostgresStore from Options.Driver.
//
// # Queries
//
// ListCharacters takes a Query: a Where predicate tree plus Order terms.
// CharacterFilter is the four-field substring filter used by the REST
// surface; its Where method turns every present field (non-blank after
// trimming) into a containment condition, joined with AND. A filter with
// no present fields lists the whole table.
//
// The SQL engines render Where through a dialect-aware builder into a
// parameterized clause. MockStore evaluates the same Where in memory, so
// all three implementations run one shared test suite.
//
// Text comparisons are case-sensitive on every engine. Results are ordered
// by the requested terms and then by ascending id.
//
// # Schema
//
// One table, SW_CHARACTERS, with columns Id, Name, Faction, Homeworld and
// Species. Migrations are recorded in schema_migrations and applied on
// open:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// Ids are assigned by the engine and never reused after a delete.
//
// # Error Handling
//
//   - ErrNotFound: no character has the requested id
//   - ErrUnsupportedDriver: Open was given an unknown driver
//
// All methods accept context.Context for cancellation support.
package store

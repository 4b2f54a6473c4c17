// ABOUTME: Driver selection for the character store and shared migration bookkeeping
// ABOUTME: Open returns a SQLiteStore or PostgresStore depending on the configured driver

package store

import (
	"context"
	"fmt"
	"log/slog"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// initialCreateMigration creates SW_CHARACTERS on every engine.
const initialCreateMigration = "20240925165255_InitialCreate"

// migration is one schema change recorded in schema_migrations by id.
type migration struct {
	id    string
	apply string
}

// Options selects and locates the backing engine.
type Options struct {
	Driver string
	// Path is the SQLite database file, or ":memory:".
	Path string
	// DSN is the PostgreSQL connection string.
	DSN string
	// Logger receives store lines. Nil uses slog.Default.
	Logger *slog.Logger
}

// Open connects to the engine named by opts.Driver and applies migrations.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverSQLite, "":
		return NewSQLiteStore(opts.Path, opts.Logger)
	case DriverPostgres:
		return NewPostgresStore(ctx, opts.DSN, opts.Logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, opts.Driver)
	}
}

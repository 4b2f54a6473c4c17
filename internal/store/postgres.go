// ABOUTME: PostgreSQL implementation of the Store interface using pgx connection pools
// ABOUTME: Shares the query builder with SQLite and records migrations the same way

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements the Store interface on PostgreSQL.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var postgresMigrations = []migration{
	{
		id: initialCreateMigration,
		apply: `
			CREATE TABLE IF NOT EXISTS "SW_CHARACTERS" (
				"Id"        BIGINT GENERATED BY DEFAULT AS IDENTITY CONSTRAINT "PK_SW_CHARACTERS" PRIMARY KEY,
				"Name"      TEXT NOT NULL,
				"Faction"   TEXT NOT NULL,
				"Homeworld" TEXT NOT NULL,
				"Species"   TEXT NOT NULL
			)`,
	},
}

// NewPostgresStore connects to dsn and ensures the schema exists.
// A nil logger uses slog.Default.
func NewPostgresStore(ctx context.Context, dsn string, logger *slog.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return NewPostgresStoreFromPool(ctx, pool, logger)
}

// NewPostgresStoreFromPool wraps an existing pool. The store takes
// ownership and closes the pool on Close.
func NewPostgresStoreFromPool(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &PostgresStore{
		pool:   pool,
		logger: logger.With("component", "store", "driver", "postgres"),
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if err := s.EnsureTable(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	s.logger.Info("PostgreSQL store initialized")
	return s, nil
}

// EnsureTable applies pending migrations. Safe to run multiple times.
func (s *PostgresStore) EnsureTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id         TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	for _, m := range postgresMigrations {
		if err := s.applyMigration(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) applyMigration(ctx context.Context, m migration) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning migration %s: %w", m.id, err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`INSERT INTO schema_migrations (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, m.id)
	if err != nil {
		return fmt.Errorf("recording migration %s: %w", m.id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil
	}

	if _, err := tx.Exec(ctx, m.apply); err != nil {
		return fmt.Errorf("applying migration %s: %w", m.id, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing migration %s: %w", m.id, err)
	}

	s.logger.Info("applied migration", "migration", m.id)
	return nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.logger.Info("closing PostgreSQL store")
	s.pool.Close()
	return nil
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// ListCharacters returns the characters matching q in q's order.
func (s *PostgresStore) ListCharacters(ctx context.Context, q Query) ([]*Character, error) {
	query, params, err := buildSelect(postgresDialect, q)
	if err != nil {
		return nil, fmt.Errorf("building character query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("querying characters: %w", err)
	}
	defer rows.Close()

	characters := make([]*Character, 0)
	for rows.Next() {
		var c Character
		if err := rows.Scan(&c.ID, &c.Name, &c.Faction, &c.Homeworld, &c.Species); err != nil {
			return nil, fmt.Errorf("scanning character: %w", err)
		}
		characters = append(characters, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating characters: %w", err)
	}

	return characters, nil
}

// GetCharacter retrieves a character by id.
// Returns ErrNotFound if the character doesn't exist.
func (s *PostgresStore) GetCharacter(ctx context.Context, id int64) (*Character, error) {
	query := `SELECT ` + characterColumns + ` FROM ` + characterTable + ` WHERE "Id" = $1`

	var c Character
	err := s.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Faction, &c.Homeworld, &c.Species)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying character: %w", err)
	}

	return &c, nil
}

// CreateCharacter inserts a new character and sets its id.
func (s *PostgresStore) CreateCharacter(ctx context.Context, c *Character) error {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO "SW_CHARACTERS" ("Name", "Faction", "Homeworld", "Species")
		VALUES ($1, $2, $3, $4)
		RETURNING "Id"`,
		c.Name, c.Faction, c.Homeworld, c.Species).Scan(&id)
	if err != nil {
		return fmt.Errorf("inserting character: %w", err)
	}
	c.ID = id

	s.logger.Debug("created character", "id", c.ID, "name", c.Name)
	return nil
}

// UpdateCharacter overwrites the four text fields of an existing character.
// Returns ErrNotFound if the character doesn't exist.
func (s *PostgresStore) UpdateCharacter(ctx context.Context, c *Character) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE "SW_CHARACTERS"
		SET "Name" = $1, "Faction" = $2, "Homeworld" = $3, "Species" = $4
		WHERE "Id" = $5`,
		c.Name, c.Faction, c.Homeworld, c.Species, c.ID)
	if err != nil {
		return fmt.Errorf("updating character: %w", err)
	}
	if err := expectOneTag(tag); err != nil {
		return err
	}

	s.logger.Debug("updated character", "id", c.ID)
	return nil
}

// DeleteCharacter removes a character.
// Returns ErrNotFound if the character doesn't exist.
func (s *PostgresStore) DeleteCharacter(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM "SW_CHARACTERS" WHERE "Id" = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	if err := expectOneTag(tag); err != nil {
		return err
	}

	s.logger.Debug("deleted character", "id", id)
	return nil
}

func expectOneTag(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

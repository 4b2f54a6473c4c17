// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides character persistence with automatic schema creation and migrations

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// sqliteMigrations are applied in order and recorded in schema_migrations.
var sqliteMigrations = []migration{
	{
		id: initialCreateMigration,
		apply: `
			CREATE TABLE IF NOT EXISTS "SW_CHARACTERS" (
				"Id"        INTEGER NOT NULL CONSTRAINT "PK_SW_CHARACTERS" PRIMARY KEY AUTOINCREMENT,
				"Name"      TEXT NOT NULL,
				"Faction"   TEXT NOT NULL,
				"Homeworld" TEXT NOT NULL,
				"Species"   TEXT NOT NULL
			);
		`,
	},
}

// sqlitePragmas are applied by the driver to every pooled connection.
// Writers wait up to busy_timeout for the lock instead of failing with
// SQLITE_BUSY, and transactions take the write lock when they begin.
var sqlitePragmas = []string{
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"journal_mode(WAL)",
}

// sqliteDSN appends the connection pragmas to path.
func sqliteDSN(path string) string {
	params := make([]string, 0, len(sqlitePragmas)+1)
	for _, p := range sqlitePragmas {
		params = append(params, "_pragma="+p)
	}
	params = append(params, "_txlock=immediate")

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(params, "&")
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed. ":memory:" opens a private
// in-memory database held on a single connection. A nil logger uses
// slog.Default.
func NewSQLiteStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "store", "driver", "sqlite")

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Every new connection to :memory: would see its own empty database
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// runMigrations applies pending migrations. Safe to run multiple times.
func (s *SQLiteStore) runMigrations() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id         TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	for _, m := range sqliteMigrations {
		var exists int
		err := s.db.QueryRow(`SELECT 1 FROM schema_migrations WHERE id = ?`, m.id).Scan(&exists)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking migration %s: %w", m.id, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", m.id, err)
		}
		if _, err := tx.Exec(m.apply); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("applying migration %s: %w", m.id, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (id, applied_at) VALUES (?, ?)`,
			m.id, time.Now().UTC().Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", m.id, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", m.id, err)
		}
		s.logger.Info("applied migration", "migration", m.id)
	}

	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ListCharacters returns the characters matching q in q's order.
func (s *SQLiteStore) ListCharacters(ctx context.Context, q Query) ([]*Character, error) {
	query, params, err := buildSelect(sqliteDialect, q)
	if err != nil {
		return nil, fmt.Errorf("building character query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
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
func (s *SQLiteStore) GetCharacter(ctx context.Context, id int64) (*Character, error) {
	query := `SELECT ` + characterColumns + ` FROM ` + characterTable + ` WHERE "Id" = ?`

	var c Character
	err := s.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Faction, &c.Homeworld, &c.Species)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying character: %w", err)
	}

	return &c, nil
}

// CreateCharacter inserts a new character and sets its id.
func (s *SQLiteStore) CreateCharacter(ctx context.Context, c *Character) error {
	query := `
		INSERT INTO "SW_CHARACTERS" ("Name", "Faction", "Homeworld", "Species")
		VALUES (?, ?, ?, ?)
	`

	c.ID = 0
	result, err := s.db.ExecContext(ctx, query, c.Name, c.Faction, c.Homeworld, c.Species)
	if err != nil {
		return fmt.Errorf("inserting character: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading character id: %w", err)
	}
	c.ID = id

	s.logger.Debug("created character", "id", c.ID, "name", c.Name)
	return nil
}

// UpdateCharacter overwrites the four text fields of an existing character.
// Returns ErrNotFound if the character doesn't exist.
func (s *SQLiteStore) UpdateCharacter(ctx context.Context, c *Character) error {
	query := `
		UPDATE "SW_CHARACTERS"
		SET "Name" = ?, "Faction" = ?, "Homeworld" = ?, "Species" = ?
		WHERE "Id" = ?
	`

	result, err := s.db.ExecContext(ctx, query, c.Name, c.Faction, c.Homeworld, c.Species, c.ID)
	if err != nil {
		return fmt.Errorf("updating character: %w", err)
	}

	if err := expectOneRow(result); err != nil {
		return err
	}

	s.logger.Debug("updated character", "id", c.ID)
	return nil
}

// DeleteCharacter removes a character.
// Returns ErrNotFound if the character doesn't exist.
func (s *SQLiteStore) DeleteCharacter(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM "SW_CHARACTERS" WHERE "Id" = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}

	if err := expectOneRow(result); err != nil {
		return err
	}

	s.logger.Debug("deleted character", "id", id)
	return nil
}

// expectOneRow maps a zero-row UPDATE or DELETE to ErrNotFound.
func expectOneRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"databazaar/internal/bazaar"
	"databazaar/internal/database/migrations"
	"databazaar/internal/record"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const allocatorName = "listings"

// SQLiteStore implements bazaar.Storage on a SQLite database.
// Each listing is one row holding its encoded record; the allocator counter
// lives in its own table so that it survives restarts.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens the database at path, applies pending migrations and
// returns the store. path can be a file path or ":memory:".
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// The pool is limited to one connection: SQLite allows a single writer, and an
// in-memory database only exists on the connection that created it.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	return db, nil
}

// Next returns the next identifier and advances the persisted counter in one transaction.
func (s *SQLiteStore) Next() (uint64, error) {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var next int64
	err = tx.QueryRowContext(ctx, `SELECT next_id FROM allocator WHERE name = ?`, allocatorName).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("reading allocator: %w", err)
	}
	if next == math.MaxInt64 {
		return 0, fmt.Errorf("allocator exhausted")
	}

	if _, err := tx.ExecContext(ctx, `UPDATE allocator SET next_id = ? WHERE name = ?`, next+1, allocatorName); err != nil {
		return 0, fmt.Errorf("advancing allocator: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return uint64(next), nil
}

// Insert stores listing under id, overwriting any existing record.
func (s *SQLiteStore) Insert(id uint64, listing *bazaar.Listing) error {
	key, err := rowID(id)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(context.Background(), `
		INSERT INTO listings (id, record) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET record = excluded.record
	`, key, record.Encode(listing))
	if err != nil {
		return fmt.Errorf("writing listing %d: %w", id, err)
	}
	return nil
}

// Update is identical to Insert.
func (s *SQLiteStore) Update(id uint64, listing *bazaar.Listing) error {
	return s.Insert(id, listing)
}

// Get returns the listing stored under id, or nil if there is none.
func (s *SQLiteStore) Get(id uint64) (*bazaar.Listing, error) {
	if id > math.MaxInt64 {
		return nil, nil
	}

	var b []byte
	err := s.db.QueryRowContext(context.Background(), `SELECT record FROM listings WHERE id = ?`, int64(id)).Scan(&b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("reading listing %d: %w", id, err)
	}

	l, err := record.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("decoding listing %d: %w", id, err)
	}
	return l, nil
}

// Scan returns all listings in ascending identifier order.
func (s *SQLiteStore) Scan() ([]*bazaar.Listing, error) {
	rows, err := s.db.QueryContext(context.Background(), `SELECT id, record FROM listings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("scanning listings: %w", err)
	}
	defer rows.Close()

	var result []*bazaar.Listing
	for rows.Next() {
		var (
			id int64
			b  []byte
		)
		if err := rows.Scan(&id, &b); err != nil {
			return nil, fmt.Errorf("scanning listing row: %w", err)
		}
		l, err := record.Decode(b)
		if err != nil {
			return nil, fmt.Errorf("decoding listing %d: %w", id, err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scanning listings: %w", err)
	}
	return result, nil
}

// Path returns the path the database was opened with.
func (s *SQLiteStore) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteStore) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// MigrationStatus returns the schema version of the database.
func (s *SQLiteStore) MigrationStatus() (migrations.Status, error) {
	return migrations.ReadStatus(s.db)
}

// BackupTo creates a complete copy of the database at destPath using VACUUM INTO.
func (s *SQLiteStore) BackupTo(destPath string) error {
	if _, err := s.db.Exec("VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// rowID converts a listing identifier to SQLite's signed 64-bit rowid.
func rowID(id uint64) (int64, error) {
	if id > math.MaxInt64 {
		return 0, fmt.Errorf("listing id %d exceeds sqlite integer range", id)
	}
	return int64(id), nil
}

// Compile-time check that SQLiteStore implements bazaar.Storage interface
var _ bazaar.Storage = (*SQLiteStore)(nil)

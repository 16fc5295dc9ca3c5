// Package sqlite provides a SQLite-backed implementation of the storage.Store
// interface.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/savieapp/savie/internal/dates"
	"github.com/savieapp/savie/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
//
// Monetary amounts are persisted as decimal strings in TEXT columns and
// re-parsed on read; SQL-side numeric aggregation would coerce them to
// floats, so sums and averages are computed in Go over exact decimals.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path. It creates the
// parent directories, enables WAL journaling, runs migrations and seeds the
// default categories on first run.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := seedDefaultCategories(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed categories: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func formatDate(t time.Time) string {
	return t.Format(dates.Format)
}

func parseStoredDate(s string) (time.Time, error) {
	t, err := time.Parse(dates.Format, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse stored date %q: %w", s, err)
	}
	return t, nil
}

func parseStoredAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse stored amount %q: %w", s, err)
	}
	return d, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func nullableInt64(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	return &ni.Int64
}

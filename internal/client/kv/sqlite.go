package kv

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pokeshop/storefront/internal/dbx"
)

// SQLiteStore implements Store on a single kv table using a DBTX
// (either *sql.DB or *sql.Tx).
type SQLiteStore struct {
	db dbx.DBTX
}

// NewSQLiteStore returns a SQLiteStore bound to the given DBTX.
func NewSQLiteStore(db dbx.DBTX) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get reads the raw value for key. A missing row is ("", false, nil).
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get kv[%s]: %w", key, err)
	}
	return value, true, nil
}

// Set upserts the value for key.
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set kv[%s]: %w", key, err)
	}
	return nil
}

// Remove deletes the key. Removing an absent key is not an error.
func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to remove kv[%s]: %w", key, err)
	}
	return nil
}

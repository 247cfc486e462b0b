package kv

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"

	"github.com/pokeshop/storefront/internal/client/kv/migrations"
)

// RunMigrations applies the embedded schema migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

// OpenSQLite opens (creating if needed) the profile database at dsn,
// applies migrations, and returns a ready SQLiteStore together with the
// underlying handle so the caller can close it.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, *sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return NewSQLiteStore(db), db, nil
}

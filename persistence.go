package auth

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-jwt-auth/migrations"
	"github.com/pressly/goose/v3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// OpenSQLite opens a sqlite backed bun.DB. Use ":memory:" (with
// cache=shared) for tests and a file path for anything durable.
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to open sqlite database").
			WithMetadata(map[string]any{"dsn": dsn})
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	return db, nil
}

// RunMigrations applies the embedded schema migrations
func RunMigrations(ctx context.Context, db *bun.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to set migration dialect")
	}

	if err := goose.UpContext(ctx, db.DB, "."); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to run migrations")
	}

	return nil
}

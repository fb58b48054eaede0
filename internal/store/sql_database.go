package store

import (
	"database/sql"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dkotelnikov/go-password-safe/internal/logger"
	"github.com/dkotelnikov/go-password-safe/migrations"
)

// DB wraps the shared *sql.DB connection together with the dialect-aware
// squirrel statement builder used by all repositories.
type DB struct {
	*sql.DB

	driver  string
	builder sq.StatementBuilderType
	logger  *logger.Logger
}

// Builder returns the statement builder preconfigured with the placeholder
// format of the underlying driver ($1 for pgx, ? for sqlite3).
func (db *DB) Builder() sq.StatementBuilderType {
	return db.builder
}

// Migrate applies the embedded goose migrations for the connected backend.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.driver)
}

// placeholderFormat selects the squirrel placeholder style for a driver.
func placeholderFormat(driver string) sq.PlaceholderFormat {
	if driver == "pgx" {
		return sq.Dollar
	}
	return sq.Question
}

// isUniqueViolation reports whether err represents a uniqueness-constraint
// failure on either supported backend.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	// mattn/go-sqlite3 reports constraint failures with this message; the
	// error type itself is not imported to keep the cgo surface confined to
	// the driver registration.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

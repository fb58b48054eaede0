package store

import (
	"context"
	"fmt"

	"github.com/dkotelnikov/go-password-safe/internal/config"
	"github.com/dkotelnikov/go-password-safe/internal/logger"
)

// Storages bundles every repository behind one wiring point for the service
// layer.
type Storages struct {
	AccountRepository   AccountRepository
	ChallengeRepository ChallengeRepository
	SessionRepository   SessionRepository
	VaultRepository     VaultRepository
}

// NewStorages connects to the configured database backend, applies pending
// migrations, and constructs all repositories over the shared connection.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	var db *DB
	var err error

	switch cfg.DB.Driver {
	case "pgx":
		db, err = NewConnectPostgres(ctx, cfg.DB, log)
	case "sqlite3":
		db, err = NewConnectSQLite(ctx, cfg.DB, log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DB.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err = db.Migrate(); err != nil {
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return &Storages{
		AccountRepository:   NewAccountRepository(db, log),
		ChallengeRepository: NewChallengeRepository(db, log),
		SessionRepository:   NewSessionRepository(db, log),
		VaultRepository:     NewVaultRepository(db, log),
	}, nil
}

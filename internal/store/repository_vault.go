package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/dkotelnikov/go-password-safe/internal/logger"
	"github.com/dkotelnikov/go-password-safe/models"
)

// vaultRepository is the SQL-backed implementation of [VaultRepository].
// Vault rows are keyed by the (username, site) composite primary key, so the
// first save inserts and every later save for the same pair replaces the
// ciphertext, IV, and site user in place.
type vaultRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewVaultRepository constructs a [VaultRepository] backed by the provided
// database connection and logger.
func NewVaultRepository(db *DB, logger *logger.Logger) VaultRepository {
	logger.Debug().Msg("creating vault repository")
	return &vaultRepository{
		db:     db,
		logger: logger,
	}
}

// ListSites returns the saved site names for username, sorted for a stable
// presentation order. No rows is a valid result: an empty slice.
func (r *vaultRepository) ListSites(ctx context.Context, username string) ([]string, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.Builder().
		Select("site").
		From(models.VaultEntry{}.TableName()).
		Where(sq.Eq{"username": username}).
		OrderBy("site").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*vaultRepository.ListSites").Msg("error: query failed")
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}
	defer rows.Close()

	sites := make([]string, 0)
	for rows.Next() {
		var site string
		if err = rows.Scan(&site); err != nil {
			log.Err(err).Str("func", "*vaultRepository.ListSites").Msg("error: scanning error")
			return nil, fmt.Errorf("unexpected DB error: %w", err)
		}
		sites = append(sites, site)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}

	return sites, nil
}

// UpsertEntry inserts the entry or replaces the mutable columns of the
// existing (username, site) row. Concurrent saves to the same pair resolve
// last-write-wins through the row-level atomicity of the upsert.
func (r *vaultRepository) UpsertEntry(ctx context.Context, entry models.VaultEntry) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.Builder().
		Insert(entry.TableName()).
		Columns("username", "site", "site_user", "ciphertext", "iv", "modified_at").
		Values(entry.Username, entry.Site, entry.SiteUser, entry.Ciphertext, entry.IV, entry.ModifiedAt).
		Suffix("ON CONFLICT (username, site) DO UPDATE SET site_user = excluded.site_user, ciphertext = excluded.ciphertext, iv = excluded.iv, modified_at = excluded.modified_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*vaultRepository.UpsertEntry").Msg("error: upsert failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

// FindEntry retrieves the vault entry for (username, site).
func (r *vaultRepository) FindEntry(ctx context.Context, username, site string) (models.VaultEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.Builder().
		Select("username", "site", "site_user", "ciphertext", "iv", "modified_at").
		From(models.VaultEntry{}.TableName()).
		Where(sq.Eq{"username": username, "site": site}).
		ToSql()
	if err != nil {
		return models.VaultEntry{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var found models.VaultEntry
	row := r.db.QueryRowContext(ctx, query, args...)
	if err = row.Scan(&found.Username, &found.Site, &found.SiteUser, &found.Ciphertext, &found.IV, &found.ModifiedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.VaultEntry{}, ErrEntryNotFound
		}
		log.Err(err).Str("func", "*vaultRepository.FindEntry").Msg("error: scanning error")
		return models.VaultEntry{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return found, nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dkotelnikov/go-password-safe/internal/crypto"
	"github.com/dkotelnikov/go-password-safe/internal/logger"
	"github.com/dkotelnikov/go-password-safe/internal/store"
	"github.com/dkotelnikov/go-password-safe/models"
)

// vaultService is the concrete implementation of VaultService. It treats
// entries as opaque (ciphertext, iv) pairs and enforces only their structural
// shape; decryption is strictly a client concern.
type vaultService struct {
	vault  store.VaultRepository
	logger *logger.Logger
}

// NewVaultService constructs a VaultService backed by the given repository.
func NewVaultService(vault store.VaultRepository, logger *logger.Logger) VaultService {
	return &vaultService{
		vault:  vault,
		logger: logger,
	}
}

// Sites lists the user's saved site names. No entries is a valid, empty
// result.
func (v *vaultService) Sites(ctx context.Context, username string) ([]string, error) {
	log := logger.FromContext(ctx)

	if username == "" {
		return nil, ErrInvalidDataProvided
	}

	sites, err := v.vault.ListSites(ctx, username)
	if err != nil {
		log.Err(err).Str("username", username).Msg("site listing failed")
		return nil, fmt.Errorf("site listing failed: %w", err)
	}

	return sites, nil
}

// Save inserts or replaces the vault entry. A later save for the same
// (username, site) overwrites the earlier ciphertext; last write wins.
//
// Returns ErrInvalidDataProvided when the entry is structurally wrong: empty
// username or site, ciphertext that is empty or not block-aligned, or an IV
// of the wrong length.
func (v *vaultService) Save(ctx context.Context, entry models.VaultEntry) error {
	log := logger.FromContext(ctx)

	if entry.Username == "" || entry.Site == "" {
		log.Error().Str("username", entry.Username).Msg("invalid vault entry provided")
		return ErrInvalidDataProvided
	}
	if len(entry.Ciphertext) == 0 || len(entry.Ciphertext)%crypto.IVSize != 0 || len(entry.IV) != crypto.IVSize {
		log.Error().Str("username", entry.Username).Str("site", entry.Site).Msg("malformed ciphertext or IV provided")
		return ErrInvalidDataProvided
	}

	entry.ModifiedAt = time.Now().UTC()
	if err := v.vault.UpsertEntry(ctx, entry); err != nil {
		log.Err(err).Str("username", entry.Username).Str("site", entry.Site).Msg("entry upsert failed")
		return fmt.Errorf("entry upsert failed: %w", err)
	}

	return nil
}

// Load retrieves the vault entry for (username, site).
//
// Returns a wrapped store.ErrEntryNotFound when the user has no entry for
// that site.
func (v *vaultService) Load(ctx context.Context, username, site string) (models.VaultEntry, error) {
	log := logger.FromContext(ctx)

	if username == "" || site == "" {
		return models.VaultEntry{}, ErrInvalidDataProvided
	}

	entry, err := v.vault.FindEntry(ctx, username, site)
	if err != nil {
		log.Err(err).Str("username", username).Str("site", site).Msg("entry search failed")
		return models.VaultEntry{}, fmt.Errorf("entry search failed: %w", err)
	}

	return entry, nil
}

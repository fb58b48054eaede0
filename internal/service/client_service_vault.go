// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/dkotelnikov/go-password-safe/internal/adapter"
	"github.com/dkotelnikov/go-password-safe/internal/crypto"
	"github.com/dkotelnikov/go-password-safe/internal/logger"
	"github.com/dkotelnikov/go-password-safe/models"
)

// VaultSession is the in-memory state of one logged-in user: the derived
// encryption key and the records fetched so far. Records stay ciphertext
// until revealed; a revealed record keeps its plaintext for the session's
// lifetime so repeated reveals do not re-decrypt.
type VaultSession struct {
	username string
	key      []byte
	records  map[string]*models.SiteRecord
}

// clientVaultService is the concrete implementation of ClientVaultService.
// All session access is mutex-guarded: the CLI is single-threaded today, but
// the service makes no such assumption.
type clientVaultService struct {
	adapter  adapter.ServerAdapter
	keyChain crypto.KeyChainService
	logger   *logger.Logger

	mu      sync.Mutex
	session *VaultSession
}

func NewClientVaultService(serverAdapter adapter.ServerAdapter, keyChain crypto.KeyChainService, logger *logger.Logger) ClientVaultService {
	return &clientVaultService{
		adapter:  serverAdapter,
		keyChain: keyChain,
		logger:   logger,
	}
}

// OpenSession implements [ClientVaultService]. Opening over an existing
// session replaces it wholesale.
func (v *clientVaultService) OpenSession(username string, key []byte) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.session = &VaultSession{
		username: username,
		key:      key,
		records:  make(map[string]*models.SiteRecord),
	}
}

// CloseSession implements [ClientVaultService]. The key is zeroed before the
// session is dropped.
func (v *clientVaultService) CloseSession() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.session == nil {
		return
	}
	for i := range v.session.key {
		v.session.key[i] = 0
	}
	v.session = nil
}

// SaveSecret implements [ClientVaultService]. The freshly saved record is
// cached already decrypted: the caller just supplied the plaintext.
func (v *clientVaultService) SaveSecret(ctx context.Context, site, siteUser, secret string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.session == nil {
		return ErrNoVaultSession
	}
	if site == "" || secret == "" {
		return ErrInvalidDataProvided
	}

	ciphertext, iv, err := v.keyChain.Encrypt(v.session.key, secret)
	if err != nil {
		return fmt.Errorf("secret encryption failed: %w", err)
	}

	if err = v.adapter.Save(ctx, site, siteUser, ciphertext, iv); err != nil {
		return fmt.Errorf("secret upload failed: %w", err)
	}

	v.session.records[site] = &models.SiteRecord{
		Site:       site,
		SiteUser:   siteUser,
		Ciphertext: ciphertext,
		IV:         iv,
		Secret:     secret,
		Decrypted:  true,
	}

	return nil
}

// LoadSecret implements [ClientVaultService]. It always refetches from the
// server, replacing any cached record for the site; the ciphertext is left
// undecrypted.
func (v *clientVaultService) LoadSecret(ctx context.Context, site string) (models.SiteRecord, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.session == nil {
		return models.SiteRecord{}, ErrNoVaultSession
	}
	if site == "" {
		return models.SiteRecord{}, ErrInvalidDataProvided
	}

	record, err := v.fetchLocked(ctx, site)
	if err != nil {
		return models.SiteRecord{}, err
	}

	return *record, nil
}

// RevealSecret implements [ClientVaultService].
func (v *clientVaultService) RevealSecret(ctx context.Context, site string) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.session == nil {
		return "", ErrNoVaultSession
	}
	if site == "" {
		return "", ErrInvalidDataProvided
	}

	record, ok := v.session.records[site]
	if !ok {
		var err error
		if record, err = v.fetchLocked(ctx, site); err != nil {
			return "", err
		}
	}

	if record.Decrypted {
		return record.Secret, nil
	}

	secret, err := v.keyChain.Decrypt(v.session.key, record.IV, record.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("secret decryption failed: %w", err)
	}

	record.Secret = secret
	record.Decrypted = true

	return secret, nil
}

// Sites implements [ClientVaultService].
func (v *clientVaultService) Sites(ctx context.Context) ([]string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.session == nil {
		return nil, ErrNoVaultSession
	}

	sites, err := v.adapter.Sites(ctx)
	if err != nil {
		return nil, fmt.Errorf("site listing failed: %w", err)
	}

	return sites, nil
}

// fetchLocked downloads the record for site into the session cache. Caller
// holds the mutex.
func (v *clientVaultService) fetchLocked(ctx context.Context, site string) (*models.SiteRecord, error) {
	entry, err := v.adapter.Load(ctx, site)
	if err != nil {
		return nil, fmt.Errorf("secret download failed: %w", err)
	}

	record := &models.SiteRecord{
		Site:       entry.Site,
		SiteUser:   entry.SiteUser,
		Ciphertext: entry.Ciphertext,
		IV:         entry.IV,
	}
	v.session.records[site] = record

	return record, nil
}

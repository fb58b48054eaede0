// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

package service

import (
	"context"
	"fmt"

	"github.com/dkotelnikov/go-password-safe/internal/adapter"
	"github.com/dkotelnikov/go-password-safe/internal/crypto"
	"github.com/dkotelnikov/go-password-safe/internal/logger"
)

type clientAuthService struct {
	adapter   adapter.ServerAdapter
	hashChain crypto.HashChainService
	keyChain  crypto.KeyChainService
	vault     ClientVaultService
	logger    *logger.Logger
}

func NewClientAuthService(serverAdapter adapter.ServerAdapter, hashChain crypto.HashChainService, keyChain crypto.KeyChainService, vault ClientVaultService, logger *logger.Logger) ClientAuthService {
	return &clientAuthService{
		adapter:   serverAdapter,
		hashChain: hashChain,
		keyChain:  keyChain,
		vault:     vault,
		logger:    logger,
	}
}

func (a *clientAuthService) Register(ctx context.Context, username, email, masterPassword string) error {
	if username == "" || email == "" || masterPassword == "" {
		return ErrInvalidDataProvided
	}

	// The server only ever sees H(password); it salts and re-hashes that
	// digest before storing it.
	passwordDigest := a.hashChain.Digest([]byte(masterPassword))

	if err := a.adapter.Signup(ctx, username, email, passwordDigest); err != nil {
		return fmt.Errorf("%w: %v", ErrSignupOnServer, err)
	}

	return nil
}

func (a *clientAuthService) Login(ctx context.Context, username, masterPassword string) error {
	if username == "" || masterPassword == "" {
		return ErrInvalidDataProvided
	}

	// L1: fetch the salt and the single-use challenge.
	challenge, salt, err := a.adapter.Identify(ctx, username)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoginOnServer, err)
	}

	// L2: rebuild the stored digest the server keeps for this account.
	passwordDigest := a.hashChain.Digest([]byte(masterPassword))
	storedDigest := a.hashChain.StoredDigest(passwordDigest, salt)

	// L3: prove knowledge of the stored digest against the challenge.
	response := a.hashChain.ChallengeResponse(storedDigest, challenge)
	if err = a.adapter.Login(ctx, username, response); err != nil {
		return fmt.Errorf("%w: %v", ErrLoginOnServer, err)
	}

	// L4: the vault key is derived locally and never leaves this process.
	a.vault.OpenSession(username, a.keyChain.DeriveKey(masterPassword))

	return nil
}

func (a *clientAuthService) Logout(ctx context.Context) error {
	a.vault.CloseSession()

	if err := a.adapter.Logout(ctx); err != nil {
		return fmt.Errorf("logout on server failed: %w", err)
	}

	return nil
}

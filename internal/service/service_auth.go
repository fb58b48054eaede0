// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkotelnikov/go-password-safe/internal/config"
	"github.com/dkotelnikov/go-password-safe/internal/crypto"
	"github.com/dkotelnikov/go-password-safe/internal/logger"
	"github.com/dkotelnikov/go-password-safe/internal/store"
	"github.com/dkotelnikov/go-password-safe/models"
)

// authService is the concrete implementation of AuthService.
// It drives the challenge-response protocol against the account, challenge,
// and session repositories, with all digest computations delegated to the
// hash chain.
type authService struct {
	accounts   store.AccountRepository
	challenges store.ChallengeRepository
	sessions   store.SessionRepository

	hashChain crypto.HashChainService

	// decoyMAC derives stable fake salts for usernames that have no
	// account. The key is generated per process, so decoy salts are
	// consistent within a server's lifetime but unpredictable across
	// restarts.
	decoyMAC *crypto.MAC

	// sessionTTL controls how long a session stays valid after login.
	sessionTTL time.Duration

	// challengeTTL controls how long an issued challenge may be answered.
	challengeTTL time.Duration

	logger *logger.Logger
}

// NewAuthService constructs an AuthService wired to the given repositories
// and populated with lifetimes from cfg. It generates the per-process decoy
// MAC key, which is the only way construction can fail.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(
	accounts store.AccountRepository,
	challenges store.ChallengeRepository,
	sessions store.SessionRepository,
	hashChain crypto.HashChainService,
	cfg config.App,
	logger *logger.Logger,
) (AuthService, error) {
	decoyKey, err := hashChain.RandomBytes(crypto.DigestSize)
	if err != nil {
		return nil, fmt.Errorf("decoy key generation failed: %w", err)
	}

	return &authService{
		accounts:     accounts,
		challenges:   challenges,
		sessions:     sessions,
		hashChain:    hashChain,
		decoyMAC:     crypto.NewMAC(decoyKey),
		sessionTTL:   cfg.SessionTTL,
		challengeTTL: cfg.ChallengeTTL,
		logger:       logger,
	}, nil
}

// Signup creates a new account.
//
// It generates a fresh random salt, folds it into the client-supplied
// password digest, and persists only the salted result.
//
// Returns the persisted account or:
//   - ErrInvalidDataProvided if username, email, or the digest is malformed.
//   - A wrapped storage error if the repository call fails (e.g. username or
//     email already taken — see store.ErrDuplicateAccount).
func (a *authService) Signup(ctx context.Context, username, email string, passwordDigest []byte) (models.Account, error) {
	log := logger.FromContext(ctx)

	if username == "" || email == "" || len(passwordDigest) != crypto.DigestSize {
		log.Error().Str("username", username).Msg("invalid signup data provided")
		return models.Account{}, ErrInvalidDataProvided
	}

	salt, err := a.hashChain.RandomBytes(crypto.SaltSize)
	if err != nil {
		log.Err(err).Str("func", "*authService.Signup").Msg("salt generation failed")
		return models.Account{}, fmt.Errorf("salt generation failed: %w", err)
	}

	now := time.Now().UTC()
	account := models.Account{
		Username:   username,
		Email:      email,
		Salt:       salt,
		Digest:     a.hashChain.StoredDigest(passwordDigest, salt),
		CreatedAt:  now,
		ModifiedAt: now,
	}

	created, err := a.accounts.CreateAccount(ctx, account)
	if err != nil {
		log.Err(err).Str("username", username).Msg("account creation ended with error")
		return models.Account{}, fmt.Errorf("account creation ended with error: %w", err)
	}

	return created, nil
}

// Identify issues the challenge for a login attempt.
//
// For a known username the challenge is stored with an expiry and returned
// with the account's real salt. For an unknown username the same shape of
// answer is produced: a fresh random challenge plus a MAC-derived decoy salt
// that stays stable for that username, so repeated identify calls cannot
// separate real accounts from fakes.
func (a *authService) Identify(ctx context.Context, username string) ([]byte, []byte, error) {
	log := logger.FromContext(ctx)

	if username == "" {
		log.Error().Msg("invalid identify data provided")
		return nil, nil, ErrInvalidDataProvided
	}

	challengeValue, err := a.hashChain.RandomBytes(crypto.ChallengeSize)
	if err != nil {
		log.Err(err).Str("func", "*authService.Identify").Msg("challenge generation failed")
		return nil, nil, fmt.Errorf("challenge generation failed: %w", err)
	}

	account, err := a.accounts.FindAccount(ctx, username)
	if errors.Is(err, store.ErrAccountNotFound) {
		return challengeValue, a.decoyMAC.Sum([]byte(username))[:crypto.SaltSize], nil
	}
	if err != nil {
		log.Err(err).Str("username", username).Msg("account search failed")
		return nil, nil, fmt.Errorf("account search failed: %w", err)
	}

	challenge := models.Challenge{
		Username:  username,
		Value:     challengeValue,
		ExpiresAt: time.Now().UTC().Add(a.challengeTTL),
	}
	if err = a.challenges.UpsertChallenge(ctx, challenge); err != nil {
		log.Err(err).Str("username", username).Msg("challenge storage failed")
		return nil, nil, fmt.Errorf("challenge storage failed: %w", err)
	}

	return challengeValue, account.Salt, nil
}

// Login verifies the response to the outstanding challenge and opens a
// session.
//
// The challenge is single-use: a wrong response deletes it immediately, and a
// correct one consumes it in the same transaction that records the session.
// Every failure mode surfaces as ErrWrongResponse.
func (a *authService) Login(ctx context.Context, username string, response []byte) (models.Session, error) {
	log := logger.FromContext(ctx)

	if username == "" || len(response) != crypto.DigestSize {
		log.Error().Str("username", username).Msg("invalid login data provided")
		return models.Session{}, ErrInvalidDataProvided
	}

	account, err := a.accounts.FindAccount(ctx, username)
	if errors.Is(err, store.ErrAccountNotFound) {
		return models.Session{}, ErrWrongResponse
	}
	if err != nil {
		log.Err(err).Str("username", username).Msg("account search failed")
		return models.Session{}, fmt.Errorf("account search failed: %w", err)
	}

	challenge, err := a.challenges.FindChallenge(ctx, username)
	if errors.Is(err, store.ErrChallengeNotFound) {
		return models.Session{}, ErrWrongResponse
	}
	if err != nil {
		log.Err(err).Str("username", username).Msg("challenge search failed")
		return models.Session{}, fmt.Errorf("challenge search failed: %w", err)
	}

	if challenge.Expired(time.Now().UTC()) {
		a.consumeChallenge(ctx, username)
		return models.Session{}, ErrWrongResponse
	}

	expected := a.hashChain.ChallengeResponse(account.Digest, challenge.Value)
	if !a.hashChain.Equal(response, expected) {
		a.consumeChallenge(ctx, username)
		return models.Session{}, ErrWrongResponse
	}

	sessionID, err := a.hashChain.RandomBytes(crypto.SessionIDSize)
	if err != nil {
		log.Err(err).Str("func", "*authService.Login").Msg("session id generation failed")
		return models.Session{}, fmt.Errorf("session id generation failed: %w", err)
	}

	session := models.Session{
		ID:        sessionID,
		Username:  username,
		ExpiresAt: time.Now().UTC().Add(a.sessionTTL),
	}
	if err = a.sessions.LoginExchange(ctx, session); err != nil {
		log.Err(err).Str("username", username).Msg("login exchange failed")
		return models.Session{}, fmt.Errorf("login exchange failed: %w", err)
	}

	return session, nil
}

// Authorize resolves a session id to its username.
//
// Unknown ids and expired sessions both yield ErrUnauthorized; an expired
// session row is deleted on the way out.
func (a *authService) Authorize(ctx context.Context, sessionID []byte) (string, error) {
	log := logger.FromContext(ctx)

	if len(sessionID) != crypto.SessionIDSize {
		return "", ErrUnauthorized
	}

	session, err := a.sessions.FindSession(ctx, sessionID)
	if errors.Is(err, store.ErrSessionNotFound) {
		return "", ErrUnauthorized
	}
	if err != nil {
		log.Err(err).Str("func", "*authService.Authorize").Msg("session search failed")
		return "", fmt.Errorf("session search failed: %w", err)
	}

	if session.Expired(time.Now().UTC()) {
		if err = a.sessions.DeleteSession(ctx, sessionID); err != nil {
			log.Err(err).Str("func", "*authService.Authorize").Msg("expired session cleanup failed")
		}
		return "", ErrUnauthorized
	}

	return session.Username, nil
}

// Logout terminates the session with the given id. Missing rows are fine:
// logging out twice is not an error.
func (a *authService) Logout(ctx context.Context, sessionID []byte) error {
	log := logger.FromContext(ctx)

	if len(sessionID) == 0 {
		return nil
	}

	if err := a.sessions.DeleteSession(ctx, sessionID); err != nil {
		log.Err(err).Str("func", "*authService.Logout").Msg("session deletion failed")
		return fmt.Errorf("session deletion failed: %w", err)
	}

	return nil
}

// consumeChallenge removes the outstanding challenge after a failed login
// attempt. Deletion failure is logged but not surfaced: the caller is already
// returning ErrWrongResponse.
func (a *authService) consumeChallenge(ctx context.Context, username string) {
	log := logger.FromContext(ctx)

	if err := a.challenges.DeleteChallenge(ctx, username); err != nil {
		log.Err(err).Str("username", username).Msg("challenge consumption failed")
	}
}

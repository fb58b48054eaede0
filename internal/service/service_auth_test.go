// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkotelnikov/go-password-safe/internal/config"
	"github.com/dkotelnikov/go-password-safe/internal/crypto"
	"github.com/dkotelnikov/go-password-safe/internal/logger"
	"github.com/dkotelnikov/go-password-safe/internal/store"
	"github.com/dkotelnikov/go-password-safe/models"
)

// ─────────────────────────────────────────────
// Mocks: account, challenge, session repositories
// ─────────────────────────────────────────────

type mockAccountRepository struct {
	createFn func(ctx context.Context, account models.Account) (models.Account, error)
	findFn   func(ctx context.Context, username string) (models.Account, error)
}

func (m *mockAccountRepository) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	if m.createFn != nil {
		return m.createFn(ctx, account)
	}
	return account, nil
}

func (m *mockAccountRepository) FindAccount(ctx context.Context, username string) (models.Account, error) {
	if m.findFn != nil {
		return m.findFn(ctx, username)
	}
	return models.Account{}, store.ErrAccountNotFound
}

type mockChallengeRepository struct {
	upsertFn func(ctx context.Context, challenge models.Challenge) error
	findFn   func(ctx context.Context, username string) (models.Challenge, error)
	deleteFn func(ctx context.Context, username string) error
}

func (m *mockChallengeRepository) UpsertChallenge(ctx context.Context, challenge models.Challenge) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, challenge)
	}
	return nil
}

func (m *mockChallengeRepository) FindChallenge(ctx context.Context, username string) (models.Challenge, error) {
	if m.findFn != nil {
		return m.findFn(ctx, username)
	}
	return models.Challenge{}, store.ErrChallengeNotFound
}

func (m *mockChallengeRepository) DeleteChallenge(ctx context.Context, username string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, username)
	}
	return nil
}

type mockSessionRepository struct {
	findFn     func(ctx context.Context, sessionID []byte) (models.Session, error)
	exchangeFn func(ctx context.Context, session models.Session) error
	deleteFn   func(ctx context.Context, sessionID []byte) error
}

func (m *mockSessionRepository) FindSession(ctx context.Context, sessionID []byte) (models.Session, error) {
	if m.findFn != nil {
		return m.findFn(ctx, sessionID)
	}
	return models.Session{}, store.ErrSessionNotFound
}

func (m *mockSessionRepository) LoginExchange(ctx context.Context, session models.Session) error {
	if m.exchangeFn != nil {
		return m.exchangeFn(ctx, session)
	}
	return nil
}

func (m *mockSessionRepository) DeleteSession(ctx context.Context, sessionID []byte) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, sessionID)
	}
	return nil
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// newRawAuthService constructs the bare *authService with a fixed decoy key
// and short lifetimes so tests control every dependency.
func newRawAuthService(accounts *mockAccountRepository, challenges *mockChallengeRepository, sessions *mockSessionRepository) *authService {
	return &authService{
		accounts:     accounts,
		challenges:   challenges,
		sessions:     sessions,
		hashChain:    crypto.NewHashChainService(),
		decoyMAC:     crypto.NewMAC(make([]byte, crypto.DigestSize)),
		sessionTTL:   10 * time.Minute,
		challengeTTL: 15 * time.Minute,
		logger:       logger.Nop(),
	}
}

var errStorage = errors.New("storage error")

// storedAccount builds the account record signup would produce for the given
// password, using the same hash chain as the service.
func storedAccount(username, password string, salt []byte) models.Account {
	chain := crypto.NewHashChainService()
	return models.Account{
		Username: username,
		Email:    username + "@example.com",
		Salt:     salt,
		Digest:   chain.StoredDigest(chain.Digest([]byte(password)), salt),
	}
}

// ─────────────────────────────────────────────
// Signup
// ─────────────────────────────────────────────

func TestAuthService_Signup_Success(t *testing.T) {
	chain := crypto.NewHashChainService()
	passwordDigest := chain.Digest([]byte("s3cret"))

	var persisted models.Account
	accounts := &mockAccountRepository{
		createFn: func(_ context.Context, account models.Account) (models.Account, error) {
			persisted = account
			return account, nil
		},
	}
	svc := newRawAuthService(accounts, &mockChallengeRepository{}, &mockSessionRepository{})

	created, err := svc.Signup(context.Background(), "arthur", "arthur@example.com", passwordDigest)
	require.NoError(t, err)

	assert.Equal(t, "arthur", created.Username)
	assert.Len(t, persisted.Salt, crypto.SaltSize)
	assert.Equal(t, chain.StoredDigest(passwordDigest, persisted.Salt), persisted.Digest)
	assert.NotEqual(t, passwordDigest, persisted.Digest, "raw password digest must never be stored")
	assert.False(t, persisted.CreatedAt.IsZero())
}

func TestAuthService_Signup_InvalidData(t *testing.T) {
	svc := newRawAuthService(&mockAccountRepository{}, &mockChallengeRepository{}, &mockSessionRepository{})
	digest := make([]byte, crypto.DigestSize)

	tests := []struct {
		name     string
		username string
		email    string
		digest   []byte
	}{
		{"empty username", "", "a@example.com", digest},
		{"empty email", "arthur", "", digest},
		{"short digest", "arthur", "a@example.com", make([]byte, 16)},
		{"nil digest", "arthur", "a@example.com", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.username, tt.email, tt.digest)
			require.ErrorIs(t, err, ErrInvalidDataProvided)
		})
	}
}

func TestAuthService_Signup_DuplicateAccount(t *testing.T) {
	accounts := &mockAccountRepository{
		createFn: func(_ context.Context, _ models.Account) (models.Account, error) {
			return models.Account{}, store.ErrDuplicateAccount
		},
	}
	svc := newRawAuthService(accounts, &mockChallengeRepository{}, &mockSessionRepository{})

	_, err := svc.Signup(context.Background(), "arthur", "arthur@example.com", make([]byte, crypto.DigestSize))
	require.ErrorIs(t, err, store.ErrDuplicateAccount)
}

// ─────────────────────────────────────────────
// Identify
// ─────────────────────────────────────────────

func TestAuthService_Identify_KnownUser(t *testing.T) {
	salt := []byte("0123456789abcdef")
	accounts := &mockAccountRepository{
		findFn: func(_ context.Context, username string) (models.Account, error) {
			return storedAccount(username, "s3cret", salt), nil
		},
	}
	var stored models.Challenge
	challenges := &mockChallengeRepository{
		upsertFn: func(_ context.Context, challenge models.Challenge) error {
			stored = challenge
			return nil
		},
	}
	svc := newRawAuthService(accounts, challenges, &mockSessionRepository{})

	challenge, gotSalt, err := svc.Identify(context.Background(), "arthur")
	require.NoError(t, err)

	assert.Equal(t, salt, gotSalt)
	assert.Len(t, challenge, crypto.ChallengeSize)
	assert.Equal(t, challenge, stored.Value, "issued challenge must be the stored one")
	assert.True(t, stored.ExpiresAt.After(time.Now()), "challenge must not be born expired")
}

func TestAuthService_Identify_UnknownUserGetsDecoy(t *testing.T) {
	svc := newRawAuthService(&mockAccountRepository{}, &mockChallengeRepository{}, &mockSessionRepository{})

	challenge1, salt1, err := svc.Identify(context.Background(), "ghost")
	require.NoError(t, err)
	challenge2, salt2, err := svc.Identify(context.Background(), "ghost")
	require.NoError(t, err)

	assert.Len(t, salt1, crypto.SaltSize)
	assert.Equal(t, salt1, salt2, "decoy salt must be stable per username")
	assert.NotEqual(t, challenge1, challenge2, "challenges must be fresh on every identify")

	_, saltOther, err := svc.Identify(context.Background(), "phantom")
	require.NoError(t, err)
	assert.NotEqual(t, salt1, saltOther, "different usernames must get different decoy salts")
}

func TestAuthService_Identify_ChallengesRotateForKnownUser(t *testing.T) {
	accounts := &mockAccountRepository{
		findFn: func(_ context.Context, username string) (models.Account, error) {
			return storedAccount(username, "s3cret", []byte("0123456789abcdef")), nil
		},
	}
	svc := newRawAuthService(accounts, &mockChallengeRepository{}, &mockSessionRepository{})

	challenge1, _, err := svc.Identify(context.Background(), "arthur")
	require.NoError(t, err)
	challenge2, _, err := svc.Identify(context.Background(), "arthur")
	require.NoError(t, err)

	assert.NotEqual(t, challenge1, challenge2)
}

func TestAuthService_Identify_StorageError(t *testing.T) {
	accounts := &mockAccountRepository{
		findFn: func(_ context.Context, _ string) (models.Account, error) {
			return models.Account{}, errStorage
		},
	}
	svc := newRawAuthService(accounts, &mockChallengeRepository{}, &mockSessionRepository{})

	_, _, err := svc.Identify(context.Background(), "arthur")
	require.ErrorIs(t, err, errStorage)
}

// ─────────────────────────────────────────────
// Login
// ─────────────────────────────────────────────

func loginFixture(t *testing.T, password string) (*mockAccountRepository, *mockChallengeRepository, models.Account, models.Challenge, []byte) {
	t.Helper()

	chain := crypto.NewHashChainService()
	salt := []byte("0123456789abcdef")
	account := storedAccount("arthur", password, salt)
	challenge := models.Challenge{
		Username:  "arthur",
		Value:     []byte("fedcba9876543210"),
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}
	response := chain.ChallengeResponse(account.Digest, challenge.Value)

	accounts := &mockAccountRepository{
		findFn: func(_ context.Context, _ string) (models.Account, error) { return account, nil },
	}
	challenges := &mockChallengeRepository{
		findFn: func(_ context.Context, _ string) (models.Challenge, error) { return challenge, nil },
	}

	return accounts, challenges, account, challenge, response
}

func TestAuthService_Login_Success(t *testing.T) {
	accounts, challenges, _, _, response := loginFixture(t, "s3cret")

	var exchanged models.Session
	sessions := &mockSessionRepository{
		exchangeFn: func(_ context.Context, session models.Session) error {
			exchanged = session
			return nil
		},
	}
	svc := newRawAuthService(accounts, challenges, sessions)

	session, err := svc.Login(context.Background(), "arthur", response)
	require.NoError(t, err)

	assert.Len(t, session.ID, crypto.SessionIDSize)
	assert.Equal(t, "arthur", session.Username)
	assert.Equal(t, session.ID, exchanged.ID, "issued session must be the exchanged one")
	assert.True(t, session.ExpiresAt.After(time.Now()))
}

func TestAuthService_Login_WrongResponseConsumesChallenge(t *testing.T) {
	accounts, challenges, _, _, response := loginFixture(t, "s3cret")

	deleted := false
	challenges.deleteFn = func(_ context.Context, username string) error {
		deleted = true
		assert.Equal(t, "arthur", username)
		return nil
	}
	svc := newRawAuthService(accounts, challenges, &mockSessionRepository{})

	// Flip one bit of the correct response.
	response[0] ^= 0x01
	_, err := svc.Login(context.Background(), "arthur", response)
	require.ErrorIs(t, err, ErrWrongResponse)
	assert.True(t, deleted, "failed login must consume the challenge")
}

func TestAuthService_Login_ExpiredChallenge(t *testing.T) {
	accounts, challenges, account, challenge, _ := loginFixture(t, "s3cret")

	challenge.ExpiresAt = time.Now().Add(-time.Minute)
	challenges.findFn = func(_ context.Context, _ string) (models.Challenge, error) { return challenge, nil }

	deleted := false
	challenges.deleteFn = func(_ context.Context, _ string) error {
		deleted = true
		return nil
	}
	svc := newRawAuthService(accounts, challenges, &mockSessionRepository{})

	chain := crypto.NewHashChainService()
	response := chain.ChallengeResponse(account.Digest, challenge.Value)

	_, err := svc.Login(context.Background(), "arthur", response)
	require.ErrorIs(t, err, ErrWrongResponse, "a correct response to an expired challenge must fail")
	assert.True(t, deleted)
}

func TestAuthService_Login_NoChallenge(t *testing.T) {
	accounts, _, _, _, response := loginFixture(t, "s3cret")
	svc := newRawAuthService(accounts, &mockChallengeRepository{}, &mockSessionRepository{})

	_, err := svc.Login(context.Background(), "arthur", response)
	require.ErrorIs(t, err, ErrWrongResponse)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc := newRawAuthService(&mockAccountRepository{}, &mockChallengeRepository{}, &mockSessionRepository{})

	_, err := svc.Login(context.Background(), "ghost", make([]byte, crypto.DigestSize))
	require.ErrorIs(t, err, ErrWrongResponse)
}

func TestAuthService_Login_InvalidData(t *testing.T) {
	svc := newRawAuthService(&mockAccountRepository{}, &mockChallengeRepository{}, &mockSessionRepository{})

	_, err := svc.Login(context.Background(), "", make([]byte, crypto.DigestSize))
	require.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = svc.Login(context.Background(), "arthur", []byte("short"))
	require.ErrorIs(t, err, ErrInvalidDataProvided)
}

// ─────────────────────────────────────────────
// Authorize / Logout
// ─────────────────────────────────────────────

func TestAuthService_Authorize_Success(t *testing.T) {
	sessionID := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	sessions := &mockSessionRepository{
		findFn: func(_ context.Context, id []byte) (models.Session, error) {
			assert.Equal(t, sessionID, id)
			return models.Session{ID: id, Username: "arthur", ExpiresAt: time.Now().Add(time.Minute)}, nil
		},
	}
	svc := newRawAuthService(&mockAccountRepository{}, &mockChallengeRepository{}, sessions)

	username, err := svc.Authorize(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, "arthur", username)
}

func TestAuthService_Authorize_ExpiredSessionIsDeleted(t *testing.T) {
	sessionID := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	deleted := false
	sessions := &mockSessionRepository{
		findFn: func(_ context.Context, id []byte) (models.Session, error) {
			return models.Session{ID: id, Username: "arthur", ExpiresAt: time.Now().Add(-time.Minute)}, nil
		},
		deleteFn: func(_ context.Context, _ []byte) error {
			deleted = true
			return nil
		},
	}
	svc := newRawAuthService(&mockAccountRepository{}, &mockChallengeRepository{}, sessions)

	_, err := svc.Authorize(context.Background(), sessionID)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.True(t, deleted)
}

func TestAuthService_Authorize_UnknownOrMalformed(t *testing.T) {
	svc := newRawAuthService(&mockAccountRepository{}, &mockChallengeRepository{}, &mockSessionRepository{})

	_, err := svc.Authorize(context.Background(), []byte{1, 2, 3, 4, 5, 6, 7, 8})
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Authorize(context.Background(), []byte("bad"))
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_Logout_Idempotent(t *testing.T) {
	calls := 0
	sessions := &mockSessionRepository{
		deleteFn: func(_ context.Context, _ []byte) error {
			calls++
			return nil
		},
	}
	svc := newRawAuthService(&mockAccountRepository{}, &mockChallengeRepository{}, sessions)

	sessionID := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	require.NoError(t, svc.Logout(context.Background(), sessionID))
	require.NoError(t, svc.Logout(context.Background(), sessionID))
	assert.Equal(t, 2, calls)

	require.NoError(t, svc.Logout(context.Background(), nil), "logout without a session is a no-op")
	assert.Equal(t, 2, calls)
}

// ─────────────────────────────────────────────
// Full protocol round trip
// ─────────────────────────────────────────────

// memStore is a stateful in-memory implementation of the three auth
// repositories, used to drive the protocol end to end.
type memStore struct {
	accounts   map[string]models.Account
	challenges map[string]models.Challenge
	sessions   map[string]models.Session
}

func newMemStore() *memStore {
	return &memStore{
		accounts:   make(map[string]models.Account),
		challenges: make(map[string]models.Challenge),
		sessions:   make(map[string]models.Session),
	}
}

func (s *memStore) CreateAccount(_ context.Context, account models.Account) (models.Account, error) {
	if _, ok := s.accounts[account.Username]; ok {
		return models.Account{}, store.ErrDuplicateAccount
	}
	s.accounts[account.Username] = account
	return account, nil
}

func (s *memStore) FindAccount(_ context.Context, username string) (models.Account, error) {
	account, ok := s.accounts[username]
	if !ok {
		return models.Account{}, store.ErrAccountNotFound
	}
	return account, nil
}

func (s *memStore) UpsertChallenge(_ context.Context, challenge models.Challenge) error {
	s.challenges[challenge.Username] = challenge
	return nil
}

func (s *memStore) FindChallenge(_ context.Context, username string) (models.Challenge, error) {
	challenge, ok := s.challenges[username]
	if !ok {
		return models.Challenge{}, store.ErrChallengeNotFound
	}
	return challenge, nil
}

func (s *memStore) DeleteChallenge(_ context.Context, username string) error {
	delete(s.challenges, username)
	return nil
}

func (s *memStore) FindSession(_ context.Context, sessionID []byte) (models.Session, error) {
	session, ok := s.sessions[string(sessionID)]
	if !ok {
		return models.Session{}, store.ErrSessionNotFound
	}
	return session, nil
}

func (s *memStore) LoginExchange(_ context.Context, session models.Session) error {
	delete(s.challenges, session.Username)
	for id, existing := range s.sessions {
		if existing.Username == session.Username {
			delete(s.sessions, id)
		}
	}
	s.sessions[string(session.ID)] = session
	return nil
}

func (s *memStore) DeleteSession(_ context.Context, sessionID []byte) error {
	delete(s.sessions, string(sessionID))
	return nil
}

func TestAuthService_ProtocolRoundTrip(t *testing.T) {
	mem := newMemStore()
	chain := crypto.NewHashChainService()
	svc, err := NewAuthService(mem, mem, mem, chain, config.App{
		SessionTTL:   10 * time.Minute,
		ChallengeTTL: 15 * time.Minute,
	}, logger.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	// Signup: the client sends H(password), never the password itself.
	passwordDigest := chain.Digest([]byte("correct horse battery staple"))
	_, err = svc.Signup(ctx, "arthur", "arthur@example.com", passwordDigest)
	require.NoError(t, err)

	// Identify: server hands out salt and a single-use challenge.
	challenge, salt, err := svc.Identify(ctx, "arthur")
	require.NoError(t, err)

	// The client recomputes the stored digest from its password and the salt,
	// then proves knowledge of it against the challenge.
	response := chain.ChallengeResponse(chain.StoredDigest(passwordDigest, salt), challenge)

	session, err := svc.Login(ctx, "arthur", response)
	require.NoError(t, err)

	username, err := svc.Authorize(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "arthur", username)

	// Replaying the same response must fail: the challenge was consumed.
	_, err = svc.Login(ctx, "arthur", response)
	require.ErrorIs(t, err, ErrWrongResponse)

	// Logout invalidates the session.
	require.NoError(t, svc.Logout(ctx, session.ID))
	_, err = svc.Authorize(ctx, session.ID)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_ReloginReplacesSession(t *testing.T) {
	mem := newMemStore()
	chain := crypto.NewHashChainService()
	svc, err := NewAuthService(mem, mem, mem, chain, config.App{
		SessionTTL:   10 * time.Minute,
		ChallengeTTL: 15 * time.Minute,
	}, logger.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	passwordDigest := chain.Digest([]byte("s3cret"))
	_, err = svc.Signup(ctx, "arthur", "arthur@example.com", passwordDigest)
	require.NoError(t, err)

	login := func() models.Session {
		challenge, salt, err := svc.Identify(ctx, "arthur")
		require.NoError(t, err)
		response := chain.ChallengeResponse(chain.StoredDigest(passwordDigest, salt), challenge)
		session, err := svc.Login(ctx, "arthur", response)
		require.NoError(t, err)
		return session
	}

	first := login()
	second := login()
	require.NotEqual(t, first.ID, second.ID)

	_, err = svc.Authorize(ctx, first.ID)
	assert.ErrorIs(t, err, ErrUnauthorized, "re-login must invalidate the previous session")

	username, err := svc.Authorize(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "arthur", username)
}

func TestAuthService_WrongPasswordNeedsFreshChallenge(t *testing.T) {
	mem := newMemStore()
	chain := crypto.NewHashChainService()
	svc, err := NewAuthService(mem, mem, mem, chain, config.App{
		SessionTTL:   10 * time.Minute,
		ChallengeTTL: 15 * time.Minute,
	}, logger.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	passwordDigest := chain.Digest([]byte("s3cret"))
	_, err = svc.Signup(ctx, "arthur", "arthur@example.com", passwordDigest)
	require.NoError(t, err)

	challenge, salt, err := svc.Identify(ctx, "arthur")
	require.NoError(t, err)

	// Wrong password: the client derives the wrong stored digest.
	wrongDigest := chain.Digest([]byte("guess"))
	wrongResponse := chain.ChallengeResponse(chain.StoredDigest(wrongDigest, salt), challenge)
	_, err = svc.Login(ctx, "arthur", wrongResponse)
	require.ErrorIs(t, err, ErrWrongResponse)

	// The failed attempt burned the challenge, so even the right response is
	// now rejected until a new identify.
	rightResponse := chain.ChallengeResponse(chain.StoredDigest(passwordDigest, salt), challenge)
	_, err = svc.Login(ctx, "arthur", rightResponse)
	require.ErrorIs(t, err, ErrWrongResponse)
}

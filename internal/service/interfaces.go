package service

import (
	"context"

	"github.com/dkotelnikov/go-password-safe/models"
)

// AuthService implements the server half of the salted challenge-response
// login protocol: account creation, the identify/login exchange, and session
// lifecycle.
type AuthService interface {
	// Signup registers a new account. passwordDigest is the client-computed
	// H(password); the service salts it before storage, so the raw digest is
	// never persisted.
	Signup(ctx context.Context, username, email string, passwordDigest []byte) (models.Account, error)

	// Identify begins a login attempt: it issues a fresh single-use
	// challenge and returns it with the account's salt. Unknown usernames
	// receive a deterministic decoy salt and a fresh challenge so the
	// response is indistinguishable from a real account's.
	Identify(ctx context.Context, username string) (challenge, salt []byte, err error)

	// Login verifies the challenge response and, on success, opens a
	// session. The outstanding challenge is consumed whether or not
	// verification succeeds.
	Login(ctx context.Context, username string, response []byte) (models.Session, error)

	// Authorize resolves a session id to its username, rejecting unknown and
	// expired sessions.
	Authorize(ctx context.Context, sessionID []byte) (string, error)

	// Logout terminates the session. Idempotent.
	Logout(ctx context.Context, sessionID []byte) error
}

// VaultService stores and retrieves the client-encrypted vault entries. The
// server never sees a plaintext site password, only (ciphertext, iv) pairs.
type VaultService interface {
	// Sites lists the site names the user has entries for.
	Sites(ctx context.Context, username string) ([]string, error)

	// Save inserts or replaces the entry for (entry.Username, entry.Site).
	Save(ctx context.Context, entry models.VaultEntry) error

	// Load retrieves the entry for (username, site).
	Load(ctx context.Context, username, site string) (models.VaultEntry, error)
}

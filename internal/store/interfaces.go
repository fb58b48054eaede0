// Package store implements the record store of the password safe: four
// repositories (accounts, challenges, sessions, vault entries) over a
// relational database reachable through either the pgx PostgreSQL driver or
// the embedded sqlite3 driver.
package store

import (
	"context"

	"github.com/dkotelnikov/go-password-safe/models"
)

// AccountRepository persists user accounts. Accounts are created at signup
// and never mutated afterwards within the application's scope.
type AccountRepository interface {
	// CreateAccount inserts a new account row. Returns
	// [ErrDuplicateAccount] when the username or email already exists.
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)

	// FindAccount retrieves the account for username. Returns
	// [ErrAccountNotFound] when no such account exists.
	FindAccount(ctx context.Context, username string) (models.Account, error)
}

// ChallengeRepository persists the single outstanding login challenge per
// account.
type ChallengeRepository interface {
	// UpsertChallenge inserts the challenge row for its username, replacing
	// any previous one.
	UpsertChallenge(ctx context.Context, challenge models.Challenge) error

	// FindChallenge retrieves the outstanding challenge for username.
	// Returns [ErrChallengeNotFound] when none exists.
	FindChallenge(ctx context.Context, username string) (models.Challenge, error)

	// DeleteChallenge removes the outstanding challenge for username, if
	// any. Deleting an absent challenge is not an error.
	DeleteChallenge(ctx context.Context, username string) error
}

// SessionRepository persists login sessions, at most one per user.
type SessionRepository interface {
	// FindSession retrieves the session with the given opaque id. Returns
	// [ErrSessionNotFound] when no such session exists.
	FindSession(ctx context.Context, sessionID []byte) (models.Session, error)

	// LoginExchange atomically consumes the outstanding challenge of
	// session.Username and creates or refreshes that user's session row.
	// Both writes happen in one transaction so no request can observe a
	// consumed challenge alongside a missing session or vice versa.
	LoginExchange(ctx context.Context, session models.Session) error

	// DeleteSession removes the session with the given id, if any.
	// Deleting an absent session is not an error (logout is idempotent).
	DeleteSession(ctx context.Context, sessionID []byte) error
}

// VaultRepository persists encrypted vault entries keyed by (username, site).
type VaultRepository interface {
	// ListSites returns the site names saved for username, ordered by name.
	// An account with no entries yields an empty slice.
	ListSites(ctx context.Context, username string) ([]string, error)

	// UpsertEntry inserts the entry or replaces the stored site_user,
	// ciphertext, IV, and modified timestamp for its (username, site) pair.
	UpsertEntry(ctx context.Context, entry models.VaultEntry) error

	// FindEntry retrieves the entry for (username, site). Returns
	// [ErrEntryNotFound] when the pair does not exist.
	FindEntry(ctx context.Context, username, site string) (models.VaultEntry, error)
}

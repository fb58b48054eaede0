package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrDuplicateAccount is returned when signup fails because an account
	// with the same username or email already exists in the database.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrAccountNotFound is returned when a lookup by username produces an
	// empty result set.
	ErrAccountNotFound = errors.New("no account was found")

	// ErrChallengeNotFound is returned when no outstanding challenge exists
	// for the queried username.
	ErrChallengeNotFound = errors.New("no challenge was found")

	// ErrSessionNotFound is returned when no session exists for the
	// presented session id.
	ErrSessionNotFound = errors.New("no session was found")

	// ErrEntryNotFound is returned when a vault lookup targets a
	// (username, site) pair that does not exist.
	ErrEntryNotFound = errors.New("vault entry was not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain
// logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommittingTransaction is returned when committing an open
	// transaction fails. The transaction is considered rolled back at this
	// point.
	ErrCommittingTransaction = errors.New("failed to commit transaction")
)

package service

import (
	"context"

	"github.com/dkotelnikov/go-password-safe/models"
)

// ClientAuthService defines the client-side contract for account registration
// and the challenge-response login. Implementations own the digest
// computations; only hashes ever cross the wire.
type ClientAuthService interface {
	// Register creates a new account on the server. The master password is
	// reduced to H(password) locally before the request is sent.
	Register(ctx context.Context, username, email, masterPassword string) error

	// Login runs the identify/login exchange: it fetches the salt and
	// challenge, reconstructs the stored digest from the master password,
	// and submits the challenge response. On success it opens the vault
	// session with the key derived from the master password.
	Login(ctx context.Context, username, masterPassword string) error

	// Logout terminates the server session and closes the vault session,
	// discarding the derived key.
	Logout(ctx context.Context) error
}

// ClientVaultService manages the user's encrypted site credentials during a
// logged-in session. Ciphertext travels to and from the server; plaintext
// exists only inside the open [VaultSession].
type ClientVaultService interface {
	// OpenSession starts a vault session for username with the given
	// encryption key. Called by ClientAuthService after a successful login.
	OpenSession(username string, key []byte)

	// CloseSession drops the session and the key material it holds.
	CloseSession()

	// SaveSecret encrypts secret and uploads it for site.
	SaveSecret(ctx context.Context, site, siteUser, secret string) error

	// LoadSecret fetches the encrypted record for site into the session
	// without decrypting it.
	LoadSecret(ctx context.Context, site string) (models.SiteRecord, error)

	// RevealSecret returns the plaintext secret for site, fetching and
	// decrypting on first use. Revealing an already-decrypted record is a
	// no-op returning the cached plaintext.
	RevealSecret(ctx context.Context, site string) (string, error)

	// Sites lists the user's saved site names from the server.
	Sites(ctx context.Context) ([]string, error)
}

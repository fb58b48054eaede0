package models

import "time"

// VaultEntry is one encrypted site-credential record owned by exactly one
// user. Entries are keyed by the (Username, Site) pair: the first save
// inserts, subsequent saves replace the ciphertext and IV in place.
// The server stores the ciphertext opaquely and never decrypts it.
type VaultEntry struct {
	// Username of the owning account.
	Username string `json:"-"`

	// Site is the name of the site the credential belongs to.
	Site string `json:"site"`

	// SiteUser is the plaintext username used at the site.
	SiteUser string `json:"site_user"`

	// Ciphertext is the site password encrypted client-side under the
	// user's master-password-derived key. Opaque to the server.
	Ciphertext []byte `json:"-"`

	// IV is the 16-byte AES-CBC initialisation vector, generated fresh on
	// every save and never reused across records or re-saves.
	IV []byte `json:"-"`

	// ModifiedAt is the timestamp of the last save for this pair.
	ModifiedAt time.Time `json:"modified_at"`
}

// TableName returns the name of the database table
// associated with the VaultEntry model.
func (v VaultEntry) TableName() string {
	return "vault_entries"
}

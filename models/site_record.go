package models

// SiteRecord is the client-side view of one vault entry. It starts out as an
// opaque ciphertext fetched from the server; Secret is populated and
// Decrypted set once the record has been revealed with the session key.
type SiteRecord struct {
	Site     string
	SiteUser string

	Ciphertext []byte
	IV         []byte

	// Secret is the decrypted site password. Valid only when Decrypted.
	Secret string

	// Decrypted marks whether Secret has been recovered from Ciphertext.
	Decrypted bool
}

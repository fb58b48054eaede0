// Package crypto implements the two cryptographic cores of the password
// safe: the SHA-256 hash chain behind the salted challenge-response login
// protocol, and the client-side AES-CBC keychain that encrypts site
// passwords before they ever reach the server.
//
// The package knows nothing about the network, the database, or users.
// Its only job is to compute digests and protect secrets.
package crypto

// Sizes of the fixed-length byte values used throughout the protocol.
const (
	// SaltSize is the length of the per-account salt generated at signup.
	SaltSize = 16

	// ChallengeSize is the length of the single-use login challenge.
	ChallengeSize = 16

	// SessionIDSize is the length of the opaque session bearer token.
	SessionIDSize = 8

	// DigestSize is the length of every SHA-256 digest in the chain.
	DigestSize = 32

	// KeySize is the length of the client-side AES key derived from the
	// master password.
	KeySize = 16

	// IVSize is the AES-CBC initialisation vector length.
	IVSize = 16
)

// HashChainService provides the digest computations of the login protocol.
//
// Protocol walk-through:
//
//	storedDigest = StoredDigest(H(password), salt)        (signup)
//	response     = ChallengeResponse(storedDigest, chal)  (login, client side)
//	expected     = ChallengeResponse(storedDigest, chal)  (login, server side)
//	ok           = Equal(response, expected)
type HashChainService interface {
	// Digest computes SHA-256 over the concatenation of parts.
	Digest(parts ...[]byte) []byte

	// StoredDigest computes H(passwordDigest ‖ salt) — the value persisted
	// at signup and independently recomputed by the client at login.
	StoredDigest(passwordDigest, salt []byte) []byte

	// ChallengeResponse computes H(storedDigest ‖ challenge) — the proof the
	// client submits and the server recomputes for comparison.
	ChallengeResponse(storedDigest, challenge []byte) []byte

	// RandomBytes reads n bytes from the OS CSPRNG.
	RandomBytes(n int) ([]byte, error)

	// Equal compares two digests in constant time.
	Equal(a, b []byte) bool
}

// KeyChainService is the client-held symmetric cipher protecting vault
// secrets at rest on the server. The derived key exists only in client
// memory; the server only ever sees (ciphertext, iv) pairs.
type KeyChainService interface {
	// DeriveKey builds the fixed-length AES key from the master password:
	// UTF-8 bytes copied left-aligned into a KeySize buffer, zero-padded on
	// the right, truncated if longer. Deliberately unstretched — this is the
	// literal compatibility contract of the original scheme.
	DeriveKey(masterPassword string) []byte

	// Encrypt encrypts secret under key with a fresh random IV and returns
	// the (ciphertext, iv) pair.
	Encrypt(key []byte, secret string) (ciphertext, iv []byte, err error)

	// EncryptWithIV encrypts secret under key with the caller-supplied IV.
	EncryptWithIV(key, iv []byte, secret string) ([]byte, error)

	// Decrypt reverses Encrypt given the matching key and per-record IV.
	Decrypt(key, iv, ciphertext []byte) (string, error)
}

package crypto

import "errors"

// Sentinel errors returned by the keychain cipher operations. Callers can
// match against them with [errors.Is].
var (
	// ErrInvalidKeySize is returned when a key of the wrong length is passed
	// to an encrypt or decrypt operation.
	ErrInvalidKeySize = errors.New("invalid AES key size")

	// ErrInvalidIVSize is returned when the initialisation vector is not
	// exactly one AES block long.
	ErrInvalidIVSize = errors.New("invalid IV size")

	// ErrCiphertextNotAligned is returned when a ciphertext's length is zero
	// or not a multiple of the AES block size.
	ErrCiphertextNotAligned = errors.New("ciphertext is not block-aligned")

	// ErrBadPadding is returned when the PKCS#7 padding of a decrypted block
	// sequence is malformed, which almost always means the wrong key or IV
	// was used.
	ErrBadPadding = errors.New("malformed ciphertext padding")

	// ErrOddCiphertext is returned when a decrypted plaintext cannot be a
	// UTF-16 code-unit sequence because its byte length is odd.
	ErrOddCiphertext = errors.New("plaintext is not a UTF-16 code unit sequence")
)

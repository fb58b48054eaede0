// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"io"
)

// hashChainService is the private implementation of [HashChainService].
// It is stateless and safe for concurrent use.
type hashChainService struct{}

// NewHashChainService constructs a [HashChainService] wrapping SHA-256 and
// the OS CSPRNG.
func NewHashChainService() HashChainService {
	return &hashChainService{}
}

// Digest implements [HashChainService]. It feeds every part into a single
// SHA-256 instance, which is equivalent to hashing the concatenation.
func (h *hashChainService) Digest(parts ...[]byte) []byte {
	hasher := sha256.New()
	for _, part := range parts {
		hasher.Write(part)
	}
	return hasher.Sum(nil)
}

// StoredDigest implements [HashChainService]. The result is what the server
// persists at signup: SHA-256(passwordDigest ‖ salt). The raw password never
// appears here — the caller supplies SHA-256(password).
func (h *hashChainService) StoredDigest(passwordDigest, salt []byte) []byte {
	return h.Digest(passwordDigest, salt)
}

// ChallengeResponse implements [HashChainService]. It computes
// SHA-256(storedDigest ‖ challenge), the proof value of one login attempt.
// A single bit flip in password, salt, or challenge changes the result.
func (h *hashChainService) ChallengeResponse(storedDigest, challenge []byte) []byte {
	return h.Digest(storedDigest, challenge)
}

// RandomBytes implements [HashChainService]. It reads n bytes from the OS
// CSPRNG and returns an error if the random read fails.
func (h *hashChainService) RandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Equal implements [HashChainService] using a constant-time comparison so
// that response verification does not leak how many leading bytes matched.
func (h *hashChainService) Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"hash"
	"sync"
)

// MAC provides keyed HMAC-SHA256 hashing. The identify resource uses it to
// derive stable decoy salts for unknown usernames: the key is random per
// process and never persisted, so decoy material is indistinguishable from
// real salts yet consistent across repeated identify calls.
//
// A sync.Pool of hash instances avoids repeated HMAC allocations on the
// identify hot path.
type MAC struct {
	pool sync.Pool
}

// NewMAC constructs a MAC keyed with key. Each hasher in the internal pool
// is configured with the same key.
func NewMAC(key []byte) *MAC {
	// hmac.New retains the key slice; copy so the caller cannot mutate it.
	k := make([]byte, len(key))
	copy(k, key)

	return &MAC{
		pool: sync.Pool{
			New: func() any {
				return hmac.New(sha256.New, k)
			},
		},
	}
}

// Sum computes the HMAC-SHA256 digest of data using a hasher pulled from
// the pool. The hasher is reset before and after use and returned to the
// pool.
func (m *MAC) Sum(data []byte) []byte {
	h := m.pool.Get().(hash.Hash)
	h.Reset()

	h.Write(data)
	sum := h.Sum(nil)

	h.Reset()
	m.pool.Put(h)

	return sum
}

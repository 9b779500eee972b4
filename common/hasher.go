package common

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sync"

	"golang.org/x/crypto/sha3"
)

// HashHexLength is the length of the hex digest produced by the hashers of
// this package. All hashers are 256-bit wide.
const HashHexLength = 2 * sha256.Size

// Hasher maps a byte string to the lowercase hex encoding of its digest.
// Implementations must be deterministic and safe for concurrent use. The
// update engines treat the hasher as an opaque oracle; a tree is constructed
// with exactly one hasher and every engine operating on it shares it.
type Hasher interface {

	// Hash computes the digest of the given data and returns it hex encoded.
	// An empty (or nil) input is well-defined.
	Hash(data []byte) string
}

// NewSha256Hasher creates the default hasher, computing SHA-256 digests.
func NewSha256Hasher() Hasher {
	return newPooledHasher(sha256.New)
}

// NewKeccak256Hasher creates a hasher computing legacy Keccak256 digests.
// It exists for benchmark comparison runs only.
func NewKeccak256Hasher() Hasher {
	return newPooledHasher(func() hash.Hash { return sha3.NewLegacyKeccak256() })
}

// pooledHasher recycles hash instances through a sync.Pool, since hashing is
// on the hot path of every tree update. The digest of the empty input is
// precomputed, as every leaf of a fresh tree holds it.
type pooledHasher struct {
	pool  sync.Pool
	empty string
}

func newPooledHasher(factory func() hash.Hash) *pooledHasher {
	h := &pooledHasher{pool: sync.Pool{New: func() any { return factory() }}}
	h.empty = h.compute(nil)
	return h
}

func (h *pooledHasher) Hash(data []byte) string {
	if len(data) == 0 {
		return h.empty
	}
	return h.compute(data)
}

func (h *pooledHasher) compute(data []byte) string {
	hasher := h.pool.Get().(hash.Hash)
	hasher.Reset()
	hasher.Write(data)
	sum := hasher.Sum(nil)
	h.pool.Put(hasher)
	return hex.EncodeToString(sum)
}

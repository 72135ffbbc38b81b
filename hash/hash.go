// Package hash provides the blake3 hashing used for state roots.
package hash

import (
	"sync"

	"github.com/zeebo/blake3"
)

// Size of the digest in bytes.
const Size = 32

// pool amortizes allocations of blake3 hashers.
var pool = &sync.Pool{
	New: func() any {
		return blake3.New()
	},
}

// GetHasher will get a blake3 hasher from the pool.
// Consumers are expected to return it with PutHasher.
func GetHasher() *blake3.Hasher {
	return pool.Get().(*blake3.Hasher)
}

// PutHasher resets the hasher and returns it back to the pool.
func PutHasher(hasher *blake3.Hasher) {
	hasher.Reset()
	pool.Put(hasher)
}

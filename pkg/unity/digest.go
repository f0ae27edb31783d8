package unity

import (
	"encoding/hex"
	"hash"

	"github.com/cespare/xxhash/v2"
)

// Digester derives a fixed-length hex name from a seed. It names aggregates;
// it is not an integrity check.
type Digester interface {
	Digest(seed string) string
}

// HashFunc defines a function that creates a new hash.Hash instance.
type HashFunc func() hash.Hash

// HashDigester hex-encodes the sum of a fresh hash per seed.
type HashDigester struct {
	hashFunc HashFunc
}

// DigestOption configures a HashDigester.
type DigestOption func(*HashDigester)

// WithHashFunc sets the hash used for naming. The default is xxHash64;
// crypto/sha1.New reproduces 40 character names.
//
// Note: changing the hash renames every aggregate, so the next pass misses
// the cache once.
func WithHashFunc(hf HashFunc) DigestOption {
	return func(d *HashDigester) {
		d.hashFunc = hf
	}
}

// NewDigester returns a HashDigester, xxHash64 unless overridden.
func NewDigester(options ...DigestOption) *HashDigester {
	d := &HashDigester{hashFunc: defaultHashFunc}
	for _, option := range options {
		option(d)
	}
	return d
}

// Digest implements Digester.
func (d *HashDigester) Digest(seed string) string {
	h := d.hashFunc()
	h.Write([]byte(seed))
	return hex.EncodeToString(h.Sum(nil))
}

// defaultHashFunc returns the default hash function (xxHash64).
func defaultHashFunc() hash.Hash {
	return xxhash.New()
}

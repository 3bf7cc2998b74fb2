// Package key implements the symmetric keys that back the webauth
// cryptographic envelope: an algorithm tag plus raw secret bytes, created
// from caller-supplied material or from a cryptographically strong random
// source.
package key

import (
	"crypto/rand"
	"fmt"

	werrors "github.com/webauthkit/webauth/pkg/errors"
	"github.com/webauthkit/webauth/pkg/webauth/secret"
)

// Algorithm identifies the cipher a Key is used with. AES is the only
// algorithm this module supports, per the wire format's envelope.
type Algorithm string

// AlgAES is the only supported algorithm.
const AlgAES Algorithm = "aes"

// Size is a key length in bits. Only the three AES key sizes are valid.
type Size int

// Supported AES key sizes.
const (
	Size128 Size = 128
	Size192 Size = 192
	Size256 Size = 256
)

// bytes returns the number of raw key bytes for s.
func (s Size) bytes() int {
	return int(s) / 8
}

func (s Size) valid() bool {
	switch s {
	case Size128, Size192, Size256:
		return true
	default:
		return false
	}
}

// Key is an immutable symmetric key: an algorithm tag plus raw secret
// bytes. Keys are created by New (explicit material) or Generate (random)
// and never mutated afterward, except that Zero destroys the material.
type Key struct {
	alg    Algorithm
	size   Size
	secret secret.Bytes
}

// New creates a Key from explicit material. material must be exactly
// size/8 bytes long; a mismatch is reported as ErrBadKey.
func New(alg Algorithm, size Size, material []byte) (*Key, error) {
	if alg != AlgAES {
		return nil, werrors.NewBadKeyError(fmt.Sprintf("unsupported key algorithm %q", alg), nil)
	}
	if !size.valid() {
		return nil, werrors.NewBadKeyError(fmt.Sprintf("unsupported key size %d", size), nil)
	}
	if len(material) != size.bytes() {
		return nil, werrors.NewBadKeyError(
			fmt.Sprintf("key material is %d bytes, want %d for a %d-bit key", len(material), size.bytes(), size),
			nil,
		)
	}
	return &Key{alg: alg, size: size, secret: secret.New(material)}, nil
}

// Generate creates a fresh AES key of the given size using a
// cryptographically strong random source.
func Generate(size Size) (*Key, error) {
	if !size.valid() {
		return nil, werrors.NewBadKeyError(fmt.Sprintf("unsupported key size %d", size), nil)
	}
	raw := make([]byte, size.bytes())
	if _, err := rand.Read(raw); err != nil {
		return nil, werrors.NewBadKeyError("could not read random key material", err)
	}
	return &Key{alg: AlgAES, size: size, secret: secret.New(raw)}, nil
}

// Copy returns a deep copy of k, independent secret storage included.
func (k *Key) Copy() *Key {
	if k == nil {
		return nil
	}
	return &Key{alg: k.alg, size: k.size, secret: k.secret.Clone()}
}

// Algorithm reports k's algorithm tag.
func (k *Key) Algorithm() Algorithm { return k.alg }

// Size reports k's length in bits.
func (k *Key) Size() Size { return k.size }

// Bytes returns a copy of the raw key material. Callers must not retain
// the returned slice beyond the immediate cryptographic operation.
func (k *Key) Bytes() []byte {
	return append([]byte(nil), k.secret.Plain()...)
}

// Zero destroys the key material in place. Call this once the owning
// keyring entry is discarded.
func (k *Key) Zero() {
	k.secret.Zero()
}

// String implements fmt.Stringer without leaking key material.
func (k *Key) String() string {
	if k == nil {
		return "<nil>"
	}
	return fmt.Sprintf("Key{alg:%s size:%d}", k.alg, k.size)
}

// Package envelope implements the authenticated-encryption wrapper that
// every token's attribute payload travels in: AES-CBC confidentiality,
// an HMAC-SHA1 tag for integrity, and a leading key-hint that lets the
// decrypting side pick the right keyring entry without trying them all
// first. The wire layout is fixed (see encrypt/decrypt below); it is not
// configurable per call.
package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1" //nolint:gosec // wire format pins HMAC-SHA1, not a new design choice
	"encoding/binary"
	"fmt"
	"time"

	werrors "github.com/webauthkit/webauth/pkg/errors"
	"github.com/webauthkit/webauth/pkg/webauth/key"
	"github.com/webauthkit/webauth/pkg/webauth/keyring"
)

const (
	hintLen = 4
	ivLen   = aes.BlockSize
	tagLen  = sha1.Size
)

// Encrypt authenticates and encrypts payload under entry's key, returning
// the concatenation key-hint ‖ IV ‖ ciphertext ‖ HMAC tag. The key-hint is
// entry's Creation time truncated to a uint32 seconds-since-epoch value,
// letting the decrypting side locate the same (or a contemporaneous) key
// again via the keyring's best-key selection.
func Encrypt(payload []byte, entry *keyring.Entry) ([]byte, error) {
	block, err := aes.NewCipher(entry.Key.Bytes())
	if err != nil {
		return nil, werrors.NewBadKeyError("could not construct AES cipher from key material", err)
	}

	iv := make([]byte, ivLen)
	if _, err := rand.Read(iv); err != nil {
		return nil, werrors.NewBadKeyError("could not read random IV", err)
	}

	padded := pkcs7Pad(payload, block.BlockSize())
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	hint := make([]byte, hintLen)
	binary.BigEndian.PutUint32(hint, uint32(entry.Creation.Unix())) //nolint:gosec // wire format is a 32-bit field

	tag := mac(entry.Key, hint, iv, ciphertext)

	out := make([]byte, 0, hintLen+ivLen+len(ciphertext)+tagLen)
	out = append(out, hint...)
	out = append(out, iv...)
	out = append(out, ciphertext...)
	out = append(out, tag...)
	return out, nil
}

// Decrypt verifies and decrypts data, returning the original payload. The
// key-hint embedded in data drives a BestKey(Decrypt, ...) lookup in kr;
// if that candidate's MAC fails, every entry in kr is retried in order of
// decreasing ValidAfter before giving up with ErrBadHMAC. now bounds which
// entries are eligible at all (ValidAfter <= now).
func Decrypt(data []byte, kr *keyring.Keyring, now time.Time) ([]byte, error) {
	hint, iv, ciphertext, tag, err := split(data)
	if err != nil {
		return nil, err
	}

	hintTime := time.Unix(int64(binary.BigEndian.Uint32(hint)), 0).UTC()

	if entry, err := kr.BestKey(keyring.Decrypt, now, hintTime); err == nil {
		if payload, ok := tryOpen(entry.Key, hint, iv, ciphertext, tag); ok {
			return unpadOrCorrupt(payload)
		}
	}

	for _, entry := range kr.EntriesByValidAfterDesc() {
		if entry.ValidAfter.After(now) {
			continue
		}
		if payload, ok := tryOpen(entry.Key, hint, iv, ciphertext, tag); ok {
			return unpadOrCorrupt(payload)
		}
	}

	return nil, werrors.NewBadHMACError("envelope authentication failed under every candidate key", nil)
}

// split parses data into its key-hint, IV, ciphertext, and tag segments,
// validating only the lengths and block alignment a well-formed envelope
// must satisfy.
func split(data []byte) (hint, iv, ciphertext, tag []byte, err error) {
	minLen := hintLen + ivLen + tagLen
	if len(data) < minLen {
		return nil, nil, nil, nil, werrors.NewCorruptError(
			fmt.Sprintf("envelope is %d bytes, shorter than the %d-byte minimum", len(data), minLen), nil)
	}

	hint = data[:hintLen]
	iv = data[hintLen : hintLen+ivLen]
	ciphertext = data[hintLen+ivLen : len(data)-tagLen]
	tag = data[len(data)-tagLen:]

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, nil, nil, nil, werrors.NewCorruptError(
			fmt.Sprintf("envelope ciphertext length %d is not a positive multiple of the block size", len(ciphertext)), nil)
	}
	return hint, iv, ciphertext, tag, nil
}

// tryOpen verifies the tag under k and, on success, CBC-decrypts
// ciphertext. It reports ok=false on any MAC mismatch so callers can fall
// back to the next candidate key without distinguishing "wrong key" from
// "tampered ciphertext".
func tryOpen(k *key.Key, hint, iv, ciphertext, tag []byte) (payload []byte, ok bool) {
	want := mac(k, hint, iv, ciphertext)
	if !hmac.Equal(want, tag) {
		return nil, false
	}

	block, err := aes.NewCipher(k.Bytes())
	if err != nil {
		return nil, false
	}
	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)
	return plain, true
}

// mac computes the HMAC-SHA1 tag over hint || iv || ciphertext under k.
func mac(k *key.Key, hint, iv, ciphertext []byte) []byte {
	h := hmac.New(sha1.New, k.Bytes())
	h.Write(hint)
	h.Write(iv)
	h.Write(ciphertext)
	return h.Sum(nil)
}

// pkcs7Pad pads data to a multiple of blockSize per PKCS#7.
func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

// unpadOrCorrupt strips PKCS#7 padding, reporting ErrCorrupt if the
// padding is structurally invalid. This only runs after the MAC has
// already verified, so a failure here means a corrupt (but authentic)
// plaintext is genuinely unusable, not an attack surface.
func unpadOrCorrupt(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, werrors.NewCorruptError("envelope plaintext is empty", nil)
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > len(data) || padLen > aes.BlockSize {
		return nil, werrors.NewCorruptError(fmt.Sprintf("envelope padding length %d is invalid", padLen), nil)
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, werrors.NewCorruptError("envelope padding bytes are inconsistent", nil)
		}
	}
	return data[:len(data)-padLen], nil
}

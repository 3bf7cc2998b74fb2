// Package keyring implements the ordered, on-disk collection of dated
// symmetric keys that the cryptographic envelope selects from: add/remove
// entries, pick the best key for encryption or decryption, and encode or
// decode the whole collection to the attribute-coded file format.
package keyring

import (
	"fmt"
	"sort"
	"time"

	werrors "github.com/webauthkit/webauth/pkg/errors"
	"github.com/webauthkit/webauth/pkg/webauth/key"
)

// fileVersion is the only keyring file format version this implementation
// understands.
const fileVersion = 1

// Usage distinguishes the two directions best_key selection is asked to
// optimize for.
type Usage int

// The two usages best_key supports.
const (
	Encrypt Usage = iota
	Decrypt
)

// Entry is one dated key in a Keyring. An Entry owns its Key exclusively;
// entries are never shared across keyrings.
type Entry struct {
	// Creation is when the key was generated.
	Creation time.Time
	// ValidAfter is when the key becomes eligible for use. Keyring stores
	// whatever it is given; no layer of this module replaces a zero or
	// Epoch value with the current time.
	ValidAfter time.Time
	// Key is the entry's owned symmetric key.
	Key *key.Key
}

// Keyring is an ordered, index-addressable sequence of Entries.
type Keyring struct {
	entries []Entry
}

// New returns an empty Keyring pre-sized for capacity entries.
func New(capacity int) *Keyring {
	return &Keyring{entries: make([]Entry, 0, capacity)}
}

// Epoch is the wire-format representation of "zero": Unix time 0, not Go's
// zero time.Time (year 1), since the wire format stores seconds since the
// Unix epoch. BestKey, the envelope's key-hint and rotation's aging check
// all treat Epoch as the real instant 1970-01-01T00:00:00Z, not as "now".
var Epoch = time.Unix(0, 0).UTC()

// FromKey returns a Keyring containing a single entry wrapping k, with
// Creation and ValidAfter both Epoch (wire-format zero).
func FromKey(k *key.Key) *Keyring {
	kr := New(1)
	kr.Add(Epoch, Epoch, k)
	return kr
}

// Add appends a new entry to the tail of the keyring.
func (kr *Keyring) Add(creation, validAfter time.Time, k *key.Key) {
	kr.entries = append(kr.entries, Entry{Creation: creation, ValidAfter: validAfter, Key: k})
}

// Len reports the number of entries.
func (kr *Keyring) Len() int {
	return len(kr.entries)
}

// Entry returns a copy of the entry at index i. The returned Key still
// aliases the keyring's key; callers must not mutate it.
func (kr *Keyring) Entry(i int) (Entry, error) {
	if i < 0 || i >= len(kr.entries) {
		return Entry{}, werrors.NewNotFoundError(fmt.Sprintf("keyring index %d out of range", i), nil)
	}
	return kr.entries[i], nil
}

// Remove deletes the entry at index i, shifting later entries down by one.
func (kr *Keyring) Remove(i int) error {
	if i < 0 || i >= len(kr.entries) {
		return werrors.NewNotFoundError(fmt.Sprintf("keyring index %d out of range", i), nil)
	}
	kr.entries = append(kr.entries[:i], kr.entries[i+1:]...)
	return nil
}

// BestKey selects the entry best suited to usage, using now as the
// current time and hint as the decryption time hint (ignored for
// Encrypt). Only entries with ValidAfter <= now are considered.
func (kr *Keyring) BestKey(usage Usage, now, hint time.Time) (*Entry, error) {
	var best *Entry
	for i := range kr.entries {
		e := &kr.entries[i]
		if e.ValidAfter.After(now) {
			continue
		}
		switch usage {
		case Encrypt:
			if best == nil || e.ValidAfter.After(best.ValidAfter) || e.ValidAfter.Equal(best.ValidAfter) {
				best = e
			}
		case Decrypt:
			if e.ValidAfter.After(hint) {
				continue
			}
			if best == nil || e.ValidAfter.After(best.ValidAfter) {
				best = e
			}
		}
	}
	if best == nil {
		return nil, werrors.NewNotFoundError("no valid key available for requested usage", nil)
	}
	return best, nil
}

// EntriesByValidAfterDesc returns a copy of all entries ordered by
// decreasing ValidAfter, regardless of now or usage. The envelope's
// decrypt path walks this order when the hinted key fails its MAC check,
// so a tampered or stale hint doesn't strand a payload that some other
// key in the ring can still open.
func (kr *Keyring) EntriesByValidAfterDesc() []Entry {
	out := make([]Entry, len(kr.entries))
	copy(out, kr.entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ValidAfter.After(out[j].ValidAfter)
	})
	return out
}

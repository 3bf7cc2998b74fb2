// Package secret provides a byte-slice wrapper that refuses to render its
// contents through the usual formatting and marshaling hooks, so that key
// material and token secrets (session keys, Kerberos blobs) don't leak into
// logs, debug dumps, or JSON responses by accident.
package secret

import "encoding/json"

// redacted is what a non-empty Bytes value prints as.
const redacted = "<redacted>"

// Bytes holds sensitive binary data. The zero value is an empty, non-secret
// byte string; use New to copy caller-provided bytes into a Bytes value.
type Bytes []byte

// New copies b into a new Bytes value. The caller's slice is not retained.
func New(b []byte) Bytes {
	if b == nil {
		return nil
	}
	out := make(Bytes, len(b))
	copy(out, b)
	return out
}

// Plain returns the underlying bytes. Callers that need the raw secret
// (encryption, MAC, wire serialization) call this explicitly; every other
// code path should treat Bytes as opaque.
func (b Bytes) Plain() []byte {
	return []byte(b)
}

// Clone returns a deep copy.
func (b Bytes) Clone() Bytes {
	return New(b)
}

// Equal reports whether b and o hold identical bytes. It is not
// constant-time; callers comparing authentication tags must use a
// constant-time comparison such as hmac.Equal (as pkg/webauth/envelope does).
func (b Bytes) Equal(o Bytes) bool {
	if len(b) != len(o) {
		return false
	}
	for i := range b {
		if b[i] != o[i] {
			return false
		}
	}
	return true
}

// Zero overwrites the underlying array with zero bytes. Call this when a
// secret's lifetime ends (e.g. a Key being replaced by keyring rotation).
func (b Bytes) Zero() {
	for i := range b {
		b[i] = 0
	}
}

// String implements fmt.Stringer with redaction.
func (b Bytes) String() string {
	if len(b) == 0 {
		return "<empty>"
	}
	return redacted
}

// GoString implements fmt.GoStringer so %#v also redacts.
func (b Bytes) GoString() string {
	return b.String()
}

// MarshalJSON implements json.Marshaler with redaction.
func (b Bytes) MarshalJSON() ([]byte, error) {
	if len(b) == 0 {
		return json.Marshal("")
	}
	return json.Marshal(redacted)
}

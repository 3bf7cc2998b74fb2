// Package token implements the ten typed, authenticated messages exchanged
// between the WebKDC, application servers, and browsers: a discriminated
// union dispatched by a "t" wire attribute, each variant with its own
// field set and cross-field invariants, serialized through the attribute
// codec and sealed in the cryptographic envelope.
package token

import (
	"encoding/base64"
	"fmt"
	"time"

	werrors "github.com/webauthkit/webauth/pkg/errors"
	"github.com/webauthkit/webauth/pkg/webauth/attr"
	"github.com/webauthkit/webauth/pkg/webauth/envelope"
	"github.com/webauthkit/webauth/pkg/webauth/keyring"
)

// Type identifies a token variant by its wire "t" attribute value.
type Type string

// The ten token variants, named by the literal strings §6 of the wire
// format specifies. Any is a sentinel used only as Decode's expected_type
// argument; it is never a real token's wire type.
const (
	App            Type = "app"
	Cred           Type = "cred"
	ErrorToken     Type = "error"
	ID             Type = "id"
	Login          Type = "login"
	Proxy          Type = "proxy"
	Request        Type = "req"
	WebKDCFactor   Type = "webkdc-factor"
	WebKDCProxy    Type = "webkdc-proxy"
	WebKDCService  Type = "webkdc-service"
	Any            Type = "any"
)

// mode distinguishes the two points at which a variant's validate method
// runs. Encode skips the expiration check; decode enforces it.
type mode int

const (
	encodeMode mode = iota
	decodeMode
)

// Token is the tagged-union interface every variant implements. Values are
// immutable after validation: a freshly decoded Token is a newly allocated
// struct populated from wire bytes and validated before being returned to
// the caller.
type Token interface {
	// Type reports the variant's wire type tag.
	Type() Type
	// toAttrs serializes the variant's fields to their attribute-coded
	// wire form, keyed by each field's short attribute code.
	toAttrs() attr.List
	// fromAttrs populates the variant's fields from a decoded attribute
	// list. It does not validate; callers run validate separately.
	fromAttrs(list attr.List) error
	// validate enforces the variant's cross-field invariants for the
	// given mode, returning a Corrupt or TokenExpired error on failure.
	validate(m mode) error
}

// newByType returns a zero-valued instance of the variant named by t, or
// an Invalid error if t names no known variant.
func newByType(t Type) (Token, error) {
	switch t {
	case App:
		return &AppToken{}, nil
	case Cred:
		return &CredToken{}, nil
	case ErrorToken:
		return &ErrorTok{}, nil
	case ID:
		return &IDToken{}, nil
	case Login:
		return &LoginToken{}, nil
	case Proxy:
		return &ProxyToken{}, nil
	case Request:
		return &RequestToken{}, nil
	case WebKDCFactor:
		return &WebKDCFactorToken{}, nil
	case WebKDCProxy:
		return &WebKDCProxyToken{}, nil
	case WebKDCService:
		return &WebKDCServiceToken{}, nil
	default:
		return nil, werrors.NewInvalidError(fmt.Sprintf("unknown token type %q", t), nil)
	}
}

// Encode validates tok for encoding, serializes and seals it under kr's
// best encryption key, and returns the base64-wrapped envelope.
func Encode(tok Token, kr *keyring.Keyring) (string, error) {
	raw, err := EncodeRaw(tok, kr)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// EncodeRaw is Encode without the outer base64 framing.
func EncodeRaw(tok Token, kr *keyring.Keyring) ([]byte, error) {
	if err := tok.validate(encodeMode); err != nil {
		return nil, err
	}

	list := attr.List{}
	list.AddString("t", string(tok.Type()))
	list = append(list, tok.toAttrs()...)
	payload := attr.Encode(list)

	entry, err := kr.BestKey(keyring.Encrypt, nowFunc(), time.Time{})
	if err != nil {
		return nil, err
	}

	return envelope.Encrypt(payload, entry)
}

// Decode base64-decodes s, opens the envelope under kr, parses the
// attribute list, dispatches on the "t" attribute, and validates the
// resulting token for decoding (including the expiration check). expected
// restricts which variant is accepted; pass Any to accept any variant.
func Decode(s string, expected Type, kr *keyring.Keyring) (Token, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, werrors.NewCorruptError("token is not valid base64", err)
	}
	return DecodeRaw(raw, expected, kr)
}

// DecodeRaw is Decode without the outer base64 framing.
func DecodeRaw(raw []byte, expected Type, kr *keyring.Keyring) (Token, error) {
	payload, err := envelope.Decrypt(raw, kr, nowFunc())
	if err != nil {
		return nil, err
	}

	list, err := attr.Decode(payload)
	if err != nil {
		return nil, err
	}

	typeStr, ok := list.String("t")
	if !ok {
		return nil, werrors.NewCorruptError("token is missing its type attribute", nil)
	}
	wireType := Type(typeStr)

	if expected != Any && expected != wireType {
		return nil, werrors.NewCorruptError(
			fmt.Sprintf("token type %q does not match requested type %q", wireType, expected), nil)
	}

	tok, err := newByType(wireType)
	if err != nil {
		return nil, err
	}
	if err := tok.fromAttrs(list); err != nil {
		return nil, err
	}
	if err := tok.validate(decodeMode); err != nil {
		return nil, err
	}
	return tok, nil
}

// nowFunc is a var, not a direct time.Now call, so tests can deterministically
// exercise expiration edges without sleeping real wall-clock time.
var nowFunc = time.Now

// SetNowForTest overrides the clock used for best-key selection and
// expiration checks, returning a function that restores the previous
// clock. Test-only; production callers never need this. The clock is
// process-wide, so tests that call this must not run in parallel.
func SetNowForTest(now func() time.Time) func() {
	prev := nowFunc
	nowFunc = now
	return func() { nowFunc = prev }
}

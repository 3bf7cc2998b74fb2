package token

import (
	"time"

	"github.com/webauthkit/webauth/pkg/webauth/attr"
)

// IDToken asserts a subject's identity and how it was established,
// either directly by the WebKDC or via a Kerberos credential.
type IDToken struct {
	Subject        string
	Auth           string
	AuthData       []byte
	InitialFactors []string
	SessionFactors []string
	LOA            uint32
	Creation       time.Time
	Expiration     time.Time
}

// Type implements Token.
func (t *IDToken) Type() Type { return ID }

func (t *IDToken) toAttrs() attr.List {
	var list attr.List
	if t.Subject != "" {
		list.AddString("s", t.Subject)
	}
	list.AddString("au", t.Auth)
	if len(t.AuthData) > 0 {
		list.Add("ad", t.AuthData)
	}
	if f := factorsToWire(t.InitialFactors); f != "" {
		list.AddString("f", f)
	}
	if f := factorsToWire(t.SessionFactors); f != "" {
		list.AddString("sf", f)
	}
	if t.LOA != 0 {
		list.AddUint32("loa", t.LOA)
	}
	list.AddTime("ct", t.Creation)
	list.AddTime("et", t.Expiration)
	return list
}

func (t *IDToken) fromAttrs(list attr.List) error {
	t.Subject = requireString(list, "s")
	t.Auth = requireString(list, "au")
	t.AuthData = requireBinary(list, "ad")
	t.InitialFactors = factorsFromWire(requireString(list, "f"))
	t.SessionFactors = factorsFromWire(requireString(list, "sf"))

	loa, err := requireUint32(list, "loa")
	if err != nil {
		return err
	}
	t.LOA = loa

	ct, err := requireTime(list, "ct")
	if err != nil {
		return err
	}
	t.Creation = ct

	et, err := requireTime(list, "et")
	if err != nil {
		return err
	}
	t.Expiration = et
	return nil
}

func (t *IDToken) validate(m mode) error {
	if t.Auth == "" {
		return missingErr("auth", "id")
	}
	if t.Auth != "webkdc" && t.Auth != "krb5" {
		return unknownErr("auth", "id", t.Auth)
	}
	if t.Creation.IsZero() {
		return missingErr("creation", "id")
	}
	if t.Expiration.IsZero() {
		return missingErr("expiration", "id")
	}
	if m == decodeMode && t.Expiration.Before(nowFunc()) {
		return tokenExpiredErr("id")
	}
	return nil
}

package token

import (
	"time"

	"github.com/webauthkit/webauth/pkg/webauth/attr"
)

// ProxyToken lets a WebKDC act on a subject's behalf across requests,
// carrying the opaque Kerberos delegated-credential blob that makes that
// possible.
type ProxyToken struct {
	Subject        string
	ProxyType      string
	WebKDCProxy    []byte
	InitialFactors []string
	SessionFactors []string
	LOA            uint32
	Creation       time.Time
	Expiration     time.Time
}

// Type implements Token.
func (t *ProxyToken) Type() Type { return Proxy }

func (t *ProxyToken) toAttrs() attr.List {
	var list attr.List
	list.AddString("s", t.Subject)
	list.AddString("ty", t.ProxyType)
	list.Add("wp", t.WebKDCProxy)
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

func (t *ProxyToken) fromAttrs(list attr.List) error {
	t.Subject = requireString(list, "s")
	t.ProxyType = requireString(list, "ty")
	t.WebKDCProxy = requireBinary(list, "wp")
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

func (t *ProxyToken) validate(m mode) error {
	if t.Subject == "" {
		return missingErr("subject", "proxy")
	}
	if t.ProxyType == "" {
		return missingErr("type", "proxy")
	}
	if t.ProxyType != "krb5" {
		return unknownErr("type", "proxy", t.ProxyType)
	}
	if len(t.WebKDCProxy) == 0 {
		return missingErr("webkdc_proxy", "proxy")
	}
	if t.Creation.IsZero() {
		return missingErr("creation", "proxy")
	}
	if t.Expiration.IsZero() {
		return missingErr("expiration", "proxy")
	}
	if m == decodeMode && t.Expiration.Before(nowFunc()) {
		return tokenExpiredErr("proxy")
	}
	return nil
}

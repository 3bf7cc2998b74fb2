package token

import (
	"time"

	"github.com/webauthkit/webauth/pkg/webauth/attr"
)

// WebKDCProxyToken is the WebKDC's internal record of a delegated proxy
// credential obtained for a subject, tagged by the mechanism that
// produced it.
type WebKDCProxyToken struct {
	Subject        string
	ProxyType      string
	ProxySubject   string
	Data           []byte
	InitialFactors []string
	LOA            uint32
	Creation       time.Time
	Expiration     time.Time
}

// Type implements Token.
func (t *WebKDCProxyToken) Type() Type { return WebKDCProxy }

func (t *WebKDCProxyToken) toAttrs() attr.List {
	var list attr.List
	list.AddString("s", t.Subject)
	list.AddString("pt", t.ProxyType)
	list.AddString("ps", t.ProxySubject)
	list.Add("d", t.Data)
	if f := factorsToWire(t.InitialFactors); f != "" {
		list.AddString("f", f)
	}
	if t.LOA != 0 {
		list.AddUint32("loa", t.LOA)
	}
	list.AddTime("ct", t.Creation)
	list.AddTime("et", t.Expiration)
	return list
}

func (t *WebKDCProxyToken) fromAttrs(list attr.List) error {
	t.Subject = requireString(list, "s")
	t.ProxyType = requireString(list, "pt")
	t.ProxySubject = requireString(list, "ps")
	t.Data = requireBinary(list, "d")
	t.InitialFactors = factorsFromWire(requireString(list, "f"))

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

func (t *WebKDCProxyToken) validate(m mode) error {
	if t.Subject == "" {
		return missingErr("subject", "webkdc-proxy")
	}
	if t.ProxyType == "" {
		return missingErr("proxy_type", "webkdc-proxy")
	}
	switch t.ProxyType {
	case "krb5", "remuser", "otp":
	default:
		return unknownErr("proxy_type", "webkdc-proxy", t.ProxyType)
	}
	if t.ProxySubject == "" {
		return missingErr("proxy_subject", "webkdc-proxy")
	}
	if len(t.Data) == 0 {
		return missingErr("data", "webkdc-proxy")
	}
	if t.Creation.IsZero() {
		return missingErr("creation", "webkdc-proxy")
	}
	if t.Expiration.IsZero() {
		return missingErr("expiration", "webkdc-proxy")
	}
	if m == decodeMode && t.Expiration.Before(nowFunc()) {
		return tokenExpiredErr("webkdc-proxy")
	}
	return nil
}

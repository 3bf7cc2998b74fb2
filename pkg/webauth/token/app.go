package token

import (
	"time"

	"github.com/webauthkit/webauth/pkg/webauth/attr"
)

// AppToken carries a web application's view of an authenticated session:
// either a full identity assertion or, when SessionKey is set, a bare
// session-key carrier with every identity field excluded.
type AppToken struct {
	Subject        string
	SessionKey     []byte
	AuthzSubject   string
	LastUsed       time.Time
	InitialFactors []string
	SessionFactors []string
	LOA            uint32
	Creation       time.Time
	Expiration     time.Time
}

// Type implements Token.
func (t *AppToken) Type() Type { return App }

func (t *AppToken) toAttrs() attr.List {
	var list attr.List
	if t.Subject != "" {
		list.AddString("s", t.Subject)
	}
	if len(t.SessionKey) > 0 {
		list.Add("k", t.SessionKey)
	}
	if t.AuthzSubject != "" {
		list.AddString("az", t.AuthzSubject)
	}
	if !t.LastUsed.IsZero() {
		list.AddTime("lu", t.LastUsed)
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

func (t *AppToken) fromAttrs(list attr.List) error {
	t.Subject = requireString(list, "s")
	t.SessionKey = requireBinary(list, "k")
	t.AuthzSubject = requireString(list, "az")
	t.InitialFactors = factorsFromWire(requireString(list, "f"))
	t.SessionFactors = factorsFromWire(requireString(list, "sf"))

	lu, _, err := list.Time("lu")
	if err != nil {
		return err
	}
	t.LastUsed = lu

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

func (t *AppToken) validate(m mode) error {
	if len(t.SessionKey) > 0 {
		if t.Subject != "" {
			return forbiddenErr("subject", "session_key", "app")
		}
		if t.AuthzSubject != "" {
			return forbiddenErr("authz_subject", "session_key", "app")
		}
		if !t.LastUsed.IsZero() {
			return forbiddenErr("last_used", "session_key", "app")
		}
		if len(t.InitialFactors) > 0 {
			return forbiddenErr("initial_factors", "session_key", "app")
		}
		if len(t.SessionFactors) > 0 {
			return forbiddenErr("session_factors", "session_key", "app")
		}
		if t.LOA != 0 {
			return forbiddenErr("loa", "session_key", "app")
		}
	} else if t.Subject == "" {
		return missingErr("subject", "app")
	}

	if t.Creation.IsZero() {
		return missingErr("creation", "app")
	}
	if t.Expiration.IsZero() {
		return missingErr("expiration", "app")
	}
	if m == decodeMode && t.Expiration.Before(nowFunc()) {
		return tokenExpiredErr("app")
	}
	return nil
}

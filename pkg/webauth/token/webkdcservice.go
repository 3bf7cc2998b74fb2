package token

import (
	"time"

	"github.com/webauthkit/webauth/pkg/webauth/attr"
)

// WebKDCServiceToken hands an application server the session key the
// WebKDC will use to seal subsequent app tokens issued to it.
type WebKDCServiceToken struct {
	Subject    string
	SessionKey []byte
	Creation   time.Time
	Expiration time.Time
}

// Type implements Token.
func (t *WebKDCServiceToken) Type() Type { return WebKDCService }

func (t *WebKDCServiceToken) toAttrs() attr.List {
	var list attr.List
	list.AddString("s", t.Subject)
	list.Add("k", t.SessionKey)
	list.AddTime("ct", t.Creation)
	list.AddTime("et", t.Expiration)
	return list
}

func (t *WebKDCServiceToken) fromAttrs(list attr.List) error {
	t.Subject = requireString(list, "s")
	t.SessionKey = requireBinary(list, "k")

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

func (t *WebKDCServiceToken) validate(m mode) error {
	if t.Subject == "" {
		return missingErr("subject", "webkdc-service")
	}
	if len(t.SessionKey) == 0 {
		return missingErr("session_key", "webkdc-service")
	}
	if t.Creation.IsZero() {
		return missingErr("creation", "webkdc-service")
	}
	if t.Expiration.IsZero() {
		return missingErr("expiration", "webkdc-service")
	}
	if m == decodeMode && t.Expiration.Before(nowFunc()) {
		return tokenExpiredErr("webkdc-service")
	}
	return nil
}

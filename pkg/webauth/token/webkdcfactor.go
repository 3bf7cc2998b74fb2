package token

import (
	"time"

	"github.com/webauthkit/webauth/pkg/webauth/attr"
)

// WebKDCFactorToken records which authentication factors a subject has
// satisfied, for the WebKDC's own bookkeeping across requests.
type WebKDCFactorToken struct {
	Subject        string
	Expiration     time.Time
	InitialFactors []string
	SessionFactors []string
}

// Type implements Token.
func (t *WebKDCFactorToken) Type() Type { return WebKDCFactor }

func (t *WebKDCFactorToken) toAttrs() attr.List {
	var list attr.List
	list.AddString("s", t.Subject)
	list.AddTime("et", t.Expiration)
	if f := factorsToWire(t.InitialFactors); f != "" {
		list.AddString("f", f)
	}
	if f := factorsToWire(t.SessionFactors); f != "" {
		list.AddString("sf", f)
	}
	return list
}

func (t *WebKDCFactorToken) fromAttrs(list attr.List) error {
	t.Subject = requireString(list, "s")
	t.InitialFactors = factorsFromWire(requireString(list, "f"))
	t.SessionFactors = factorsFromWire(requireString(list, "sf"))

	et, err := requireTime(list, "et")
	if err != nil {
		return err
	}
	t.Expiration = et
	return nil
}

func (t *WebKDCFactorToken) validate(m mode) error {
	if t.Subject == "" {
		return missingErr("subject", "webkdc-factor")
	}
	if t.Expiration.IsZero() {
		return missingErr("expiration", "webkdc-factor")
	}
	if len(t.InitialFactors) == 0 && len(t.SessionFactors) == 0 {
		return missingErr("initial_factors or session_factors", "webkdc-factor")
	}
	if m == decodeMode && t.Expiration.Before(nowFunc()) {
		return tokenExpiredErr("webkdc-factor")
	}
	return nil
}

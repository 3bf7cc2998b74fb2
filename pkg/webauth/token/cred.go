package token

import (
	"time"

	"github.com/webauthkit/webauth/pkg/webauth/attr"
)

// CredToken carries an opaque Kerberos credential blob (or, in principle,
// another credential type the "type" enumerant might later name) issued
// by the WebKDC on a subject's behalf.
type CredToken struct {
	Subject    string
	CredType   string
	Service    string
	Data       []byte
	Creation   time.Time
	Expiration time.Time
}

// Type implements Token.
func (t *CredToken) Type() Type { return Cred }

func (t *CredToken) toAttrs() attr.List {
	var list attr.List
	list.AddString("s", t.Subject)
	list.AddString("ty", t.CredType)
	list.AddString("sv", t.Service)
	list.Add("d", t.Data)
	list.AddTime("ct", t.Creation)
	list.AddTime("et", t.Expiration)
	return list
}

func (t *CredToken) fromAttrs(list attr.List) error {
	t.Subject = requireString(list, "s")
	t.CredType = requireString(list, "ty")
	t.Service = requireString(list, "sv")
	t.Data = requireBinary(list, "d")

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

func (t *CredToken) validate(m mode) error {
	if t.Subject == "" {
		return missingErr("subject", "cred")
	}
	if t.CredType == "" {
		return missingErr("type", "cred")
	}
	if t.CredType != "krb5" {
		return unknownErr("type", "cred", t.CredType)
	}
	if t.Service == "" {
		return missingErr("service", "cred")
	}
	if len(t.Data) == 0 {
		return missingErr("data", "cred")
	}
	if t.Creation.IsZero() {
		return missingErr("creation", "cred")
	}
	if t.Expiration.IsZero() {
		return missingErr("expiration", "cred")
	}
	if m == decodeMode && t.Expiration.Before(nowFunc()) {
		return tokenExpiredErr("cred")
	}
	return nil
}

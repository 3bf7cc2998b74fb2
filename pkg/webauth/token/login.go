package token

import (
	"time"

	"github.com/webauthkit/webauth/pkg/webauth/attr"
)

// LoginToken carries a user's submitted credential, exactly one of a
// password or a one-time-password, from the login form to the WebKDC.
type LoginToken struct {
	Username string
	Password string
	OTP      string
	OTPType  string
	Creation time.Time
}

// Type implements Token.
func (t *LoginToken) Type() Type { return Login }

func (t *LoginToken) toAttrs() attr.List {
	var list attr.List
	list.AddString("u", t.Username)
	if t.Password != "" {
		list.AddString("p", t.Password)
	}
	if t.OTP != "" {
		list.AddString("o", t.OTP)
	}
	if t.OTPType != "" {
		list.AddString("ot", t.OTPType)
	}
	list.AddTime("ct", t.Creation)
	return list
}

func (t *LoginToken) fromAttrs(list attr.List) error {
	t.Username = requireString(list, "u")
	t.Password = requireString(list, "p")
	t.OTP = requireString(list, "o")
	t.OTPType = requireString(list, "ot")

	ct, err := requireTime(list, "ct")
	if err != nil {
		return err
	}
	t.Creation = ct
	return nil
}

func (t *LoginToken) validate(mode) error {
	if t.Username == "" {
		return missingErr("username", "login")
	}
	switch {
	case t.Password != "" && t.OTP != "":
		return forbiddenErr("otp", "password", "login")
	case t.Password == "" && t.OTP == "":
		return missingErr("password or otp", "login")
	}
	if t.OTPType != "" && t.OTP == "" {
		return forbiddenErr("otp_type", "password", "login")
	}
	if t.Creation.IsZero() {
		return missingErr("creation", "login")
	}
	return nil
}

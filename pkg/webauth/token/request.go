package token

import (
	"github.com/webauthkit/webauth/pkg/webauth/attr"
)

// RequestToken asks the WebKDC for one of two things: either it names a
// bare Command, or it names a ReqType ("id" or "proxy") of token the
// requester wants back along with a ReturnURL, the two forms being
// mutually exclusive.
type RequestToken struct {
	Command   string
	ReqType   string
	ReturnURL string
	Auth      string
	ProxyType string
	State     []byte
}

// Type implements Token.
func (t *RequestToken) Type() Type { return Request }

func (t *RequestToken) toAttrs() attr.List {
	var list attr.List
	if t.Command != "" {
		list.AddString("c", t.Command)
		return list
	}
	list.AddString("ty", t.ReqType)
	list.AddString("ru", t.ReturnURL)
	if t.Auth != "" {
		list.AddString("au", t.Auth)
	}
	if t.ProxyType != "" {
		list.AddString("pt", t.ProxyType)
	}
	if len(t.State) > 0 {
		list.Add("st", t.State)
	}
	return list
}

func (t *RequestToken) fromAttrs(list attr.List) error {
	t.Command = requireString(list, "c")
	t.ReqType = requireString(list, "ty")
	t.ReturnURL = requireString(list, "ru")
	t.Auth = requireString(list, "au")
	t.ProxyType = requireString(list, "pt")
	t.State = requireBinary(list, "st")
	return nil
}

func (t *RequestToken) validate(mode) error {
	if t.Command != "" {
		switch {
		case t.ReqType != "":
			return forbiddenErr("type", "command", "req")
		case t.ReturnURL != "":
			return forbiddenErr("return_url", "command", "req")
		case t.Auth != "":
			return forbiddenErr("auth", "command", "req")
		case t.ProxyType != "":
			return forbiddenErr("proxy_type", "command", "req")
		case len(t.State) > 0:
			return forbiddenErr("state", "command", "req")
		}
		return nil
	}

	if t.ReqType == "" {
		return missingErr("command or type", "req")
	}
	if t.ReqType != "id" && t.ReqType != "proxy" {
		return unknownErr("type", "req", t.ReqType)
	}
	if t.ReturnURL == "" {
		return missingErr("return_url", "req")
	}
	switch t.ReqType {
	case "id":
		if t.Auth == "" {
			return missingErr("auth", "req")
		}
		if t.ProxyType != "" {
			return forbiddenErr("proxy_type", "type=id", "req")
		}
	case "proxy":
		if t.ProxyType == "" {
			return missingErr("proxy_type", "req")
		}
		if t.Auth != "" {
			return forbiddenErr("auth", "type=proxy", "req")
		}
	}
	return nil
}

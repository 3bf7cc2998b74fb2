package token

import (
	"time"

	"github.com/webauthkit/webauth/pkg/webauth/attr"
)

// ErrorTok carries a WebKDC-reported failure code back to a requester as
// a token in its own right, so error reporting flows through the same
// authenticated channel as every other message.
type ErrorTok struct {
	Code     uint32
	Message  string
	Creation time.Time
}

// Type implements Token.
func (t *ErrorTok) Type() Type { return ErrorToken }

func (t *ErrorTok) toAttrs() attr.List {
	var list attr.List
	list.AddUint32("c", t.Code)
	list.AddString("m", t.Message)
	list.AddTime("ct", t.Creation)
	return list
}

func (t *ErrorTok) fromAttrs(list attr.List) error {
	c, err := requireUint32(list, "c")
	if err != nil {
		return err
	}
	t.Code = c
	t.Message = requireString(list, "m")

	ct, err := requireTime(list, "ct")
	if err != nil {
		return err
	}
	t.Creation = ct
	return nil
}

func (t *ErrorTok) validate(mode) error {
	if t.Code == 0 {
		return missingErr("code", "error")
	}
	if t.Message == "" {
		return missingErr("message", "error")
	}
	if t.Creation.IsZero() {
		return missingErr("creation", "error")
	}
	return nil
}

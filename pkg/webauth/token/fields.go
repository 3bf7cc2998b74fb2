package token

import (
	"fmt"
	"strings"
	"time"

	werrors "github.com/webauthkit/webauth/pkg/errors"
	"github.com/webauthkit/webauth/pkg/webauth/attr"
)

// missingErr reports a required field absent from variant's wire form.
func missingErr(field, variant string) error {
	return werrors.NewCorruptError(fmt.Sprintf("missing %s in %s token", field, variant), nil)
}

// forbiddenErr reports a field present alongside another that excludes it.
func forbiddenErr(field, with, variant string) error {
	return werrors.NewCorruptError(
		fmt.Sprintf("%s not valid with %s in %s token", field, with, variant), nil)
}

// unknownErr reports an enumerated field holding a value outside its set.
func unknownErr(field, variant, got string) error {
	return werrors.NewCorruptError(
		fmt.Sprintf("unknown %s %q in %s token", field, got, variant), nil)
}

// tokenExpiredErr reports a decode-time expiration check failure.
func tokenExpiredErr(variant string) error {
	return werrors.NewTokenExpiredError(fmt.Sprintf("%s token has expired", variant), nil)
}

func requireString(list attr.List, code string) string {
	v, _ := list.String(code)
	return v
}

func requireBinary(list attr.List, code string) []byte {
	v, _ := list.Get(code)
	return v
}

func requireUint32(list attr.List, code string) (uint32, error) {
	v, _, err := list.Uint32(code)
	return v, err
}

func requireTime(list attr.List, code string) (time.Time, error) {
	t, _, err := list.Time(code)
	return t, err
}

// factorsToWire joins a factor list into its comma-separated wire form,
// trimming empty elements so round-tripping an empty list yields an
// absent attribute rather than a spurious empty string.
func factorsToWire(factors []string) string {
	clean := make([]string, 0, len(factors))
	for _, f := range factors {
		f = strings.TrimSpace(f)
		if f != "" {
			clean = append(clean, f)
		}
	}
	return strings.Join(clean, ",")
}

// factorsFromWire splits a comma-separated factor list, trimming empty
// elements produced by leading/trailing/doubled commas.
func factorsFromWire(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

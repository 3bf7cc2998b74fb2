package keyring

import (
	"fmt"
	"strconv"

	werrors "github.com/webauthkit/webauth/pkg/errors"
	"github.com/webauthkit/webauth/pkg/webauth/attr"
	"github.com/webauthkit/webauth/pkg/webauth/key"
)

// keyTypeTag encodes a key's algorithm and size into the short wire tag
// used for the "kt<i>" attribute, e.g. "aes128".
func keyTypeTag(k *key.Key) string {
	return fmt.Sprintf("%s%d", k.Algorithm(), k.Size())
}

// parseKeyTypeTag reverses keyTypeTag.
func parseKeyTypeTag(tag string) (key.Algorithm, key.Size, error) {
	for _, size := range []key.Size{key.Size128, key.Size192, key.Size256} {
		want := fmt.Sprintf("%s%d", key.AlgAES, size)
		if tag == want {
			return key.AlgAES, size, nil
		}
	}
	return "", 0, werrors.NewCorruptError(fmt.Sprintf("unknown key type tag %q", tag), nil)
}

// Encode serializes the keyring to its attribute-coded wire form:
// v=1;n=<count>;ct0=...;va0=...;kt0=...;kd0=...;ct1=...
func (kr *Keyring) Encode() []byte {
	var list attr.List
	list.AddString("v", strconv.Itoa(fileVersion))
	list.AddString("n", strconv.Itoa(len(kr.entries)))
	for i, e := range kr.entries {
		list.AddTime(fmt.Sprintf("ct%d", i), e.Creation)
		list.AddTime(fmt.Sprintf("va%d", i), e.ValidAfter)
		list.AddString(fmt.Sprintf("kt%d", i), keyTypeTag(e.Key))
		list.Add(fmt.Sprintf("kd%d", i), e.Key.Bytes())
	}
	return attr.Encode(list)
}

// Decode parses the wire form produced by Encode. A version tag other
// than 1 is reported as ErrFileVersion.
func Decode(data []byte) (*Keyring, error) {
	list, err := attr.Decode(data)
	if err != nil {
		return nil, err
	}

	v, ok := list.String("v")
	if !ok {
		return nil, werrors.NewCorruptError("keyring missing version attribute", nil)
	}
	if v != strconv.Itoa(fileVersion) {
		return nil, werrors.NewFileVersionError(
			fmt.Sprintf("keyring file version %q is not supported (want %d)", v, fileVersion), nil)
	}

	nStr, ok := list.String("n")
	if !ok {
		return nil, werrors.NewCorruptError("keyring missing entry count attribute", nil)
	}
	n, err := strconv.Atoi(nStr)
	if err != nil || n < 0 {
		return nil, werrors.NewCorruptError(fmt.Sprintf("keyring entry count %q is not a valid number", nStr), err)
	}

	kr := New(n)
	for i := 0; i < n; i++ {
		creation, ok, err := list.Time(fmt.Sprintf("ct%d", i))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, werrors.NewCorruptError(fmt.Sprintf("keyring entry %d missing creation time", i), nil)
		}

		validAfter, ok, err := list.Time(fmt.Sprintf("va%d", i))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, werrors.NewCorruptError(fmt.Sprintf("keyring entry %d missing valid-after time", i), nil)
		}

		ktTag, ok := list.String(fmt.Sprintf("kt%d", i))
		if !ok {
			return nil, werrors.NewCorruptError(fmt.Sprintf("keyring entry %d missing key type", i), nil)
		}
		alg, size, err := parseKeyTypeTag(ktTag)
		if err != nil {
			return nil, err
		}

		kd, ok := list.Get(fmt.Sprintf("kd%d", i))
		if !ok {
			return nil, werrors.NewCorruptError(fmt.Sprintf("keyring entry %d missing key data", i), nil)
		}

		k, err := key.New(alg, size, kd)
		if err != nil {
			return nil, err
		}

		kr.Add(creation, validAfter, k)
	}

	return kr, nil
}

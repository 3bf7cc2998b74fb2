// Package attr implements the attribute-list wire codec shared by every
// webauth token variant and by the keyring file format: an ordered
// sequence of (name, value) pairs serialized as self-delimiting
// "name=value;" records, with a literal ";" inside a value escaped by
// doubling it.
package attr

import (
	"encoding/binary"
	"time"

	werrors "github.com/webauthkit/webauth/pkg/errors"
)

// Pair is a single (name, value) attribute.
type Pair struct {
	Name  string
	Value []byte
}

// List is an ordered sequence of attributes. Order is preserved by Encode
// and by Decode, so schema code can build a List positionally.
type List []Pair

// Add appends a raw binary attribute.
func (l *List) Add(name string, value []byte) {
	*l = append(*l, Pair{Name: name, Value: value})
}

// AddString appends a UTF-8 string attribute.
func (l *List) AddString(name, value string) {
	l.Add(name, []byte(value))
}

// AddUint32 appends a 4-byte big-endian attribute.
func (l *List) AddUint32(name string, v uint32) {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	l.Add(name, b)
}

// AddTime appends a time as 4-byte big-endian seconds-since-epoch. Wire
// timestamps are 32-bit unsigned; callers should be aware this format
// cannot represent instants past 2106 (see spec Open Questions).
func (l *List) AddTime(name string, t time.Time) {
	l.AddUint32(name, uint32(t.Unix()))
}

// Get returns the raw value for name and whether it was present. If name
// occurs more than once, the first occurrence wins.
func (l List) Get(name string) ([]byte, bool) {
	for _, p := range l {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// String returns the UTF-8 decoded value for name.
func (l List) String(name string) (string, bool) {
	v, ok := l.Get(name)
	if !ok {
		return "", false
	}
	return string(v), true
}

// Uint32 decodes a 4-byte big-endian attribute.
func (l List) Uint32(name string) (uint32, bool, error) {
	v, ok := l.Get(name)
	if !ok {
		return 0, false, nil
	}
	if len(v) != 4 {
		return 0, true, werrors.NewCorruptError(
			"attribute "+name+" is not a 4-byte uint32", nil)
	}
	return binary.BigEndian.Uint32(v), true, nil
}

// Time decodes a uint32-seconds-since-epoch attribute.
func (l List) Time(name string) (time.Time, bool, error) {
	v, ok, err := l.Uint32(name)
	if err != nil || !ok {
		return time.Time{}, ok, err
	}
	return time.Unix(int64(v), 0), true, nil
}

// Encode serializes list to its wire form.
func Encode(list List) []byte {
	var out []byte
	for _, p := range list {
		out = append(out, p.Name...)
		out = append(out, '=')
		out = append(out, escape(p.Value)...)
		out = append(out, ';')
	}
	return out
}

// escape doubles every literal ';' in value.
func escape(value []byte) []byte {
	out := make([]byte, 0, len(value))
	for _, b := range value {
		if b == ';' {
			out = append(out, ';', ';')
			continue
		}
		out = append(out, b)
	}
	return out
}

// Decode parses the wire form produced by Encode. An unterminated final
// record, a record missing its '=', or trailing garbage after a value's
// terminator that never completes is reported as ErrCorrupt.
func Decode(data []byte) (List, error) {
	var list List
	i := 0
	for i < len(data) {
		eq := indexByteFrom(data, i, '=')
		term := indexByteFrom(data, i, ';')
		if eq == -1 || (term != -1 && term < eq) {
			return nil, werrors.NewCorruptError("attribute record missing '='", nil)
		}
		name := string(data[i:eq])

		value, next, ok := parseValue(data, eq+1)
		if !ok {
			return nil, werrors.NewCorruptError(
				"unterminated attribute record for "+name, nil)
		}
		list = append(list, Pair{Name: name, Value: value})
		i = next
	}
	return list, nil
}

// parseValue reads an escaped, ';'-terminated value starting at start. It
// returns the decoded value, the index just past the terminating ';', and
// whether a terminator was actually found.
func parseValue(data []byte, start int) (value []byte, next int, ok bool) {
	j := start
	for j < len(data) {
		if data[j] == ';' {
			if j+1 < len(data) && data[j+1] == ';' {
				value = append(value, ';')
				j += 2
				continue
			}
			return value, j + 1, true
		}
		value = append(value, data[j])
		j++
	}
	return nil, 0, false
}

func indexByteFrom(data []byte, from int, b byte) int {
	for i := from; i < len(data); i++ {
		if data[i] == b {
			return i
		}
	}
	return -1
}

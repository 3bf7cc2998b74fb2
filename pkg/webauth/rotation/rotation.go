// Package rotation implements the higher-level policy that keeps a
// keyring file fresh: open or create it at a path, add a new key once the
// newest entry has aged past its configured lifetime, and persist the
// result atomically.
package rotation

import (
	"time"

	"github.com/webauthkit/webauth/internal/filelock"
	werrors "github.com/webauthkit/webauth/pkg/errors"
	"github.com/webauthkit/webauth/pkg/logger"
	"github.com/webauthkit/webauth/pkg/webauth/key"
	"github.com/webauthkit/webauth/pkg/webauth/keyring"
)

// Status reports what AutoUpdate did to the keyring file.
type Status int

// The three outcomes AutoUpdate can report.
const (
	None Status = iota
	Created
	Updated
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Created:
		return "created"
	case Updated:
		return "updated"
	default:
		return "none"
	}
}

const lockTimeout = 5 * time.Second

// AutoUpdate opens the keyring at path, creating it if it does not exist
// and mayCreate is true, then adds a fresh 128-bit AES key if the newest
// entry's valid_after has aged past lifetime (a non-positive lifetime
// disables the aging check). The read-modify-write cycle is guarded by an
// advisory file lock so concurrent processes touching the same path don't
// race each other's rotation.
func AutoUpdate(path string, mayCreate bool, lifetime time.Duration) (*keyring.Keyring, Status, error) {
	lock := filelock.New(path)
	unlock, err := lock.Acquire(lockTimeout)
	if err != nil {
		return nil, None, werrors.NewFileOpenWriteError("could not acquire keyring lock", err)
	}
	defer unlock()

	kr, err := keyring.Read(path)
	if err != nil {
		if werrors.IsFileNotFound(err) {
			if !mayCreate {
				return nil, None, err
			}
			return create(path)
		}
		return nil, None, err
	}

	now := time.Now()
	if lifetime > 0 && needsRotation(kr, now, lifetime) {
		return update(path, kr, now)
	}

	return kr, None, nil
}

// needsRotation reports whether every entry's valid_after has aged past
// lifetime as of now, meaning no entry is "fresh" enough to skip rotation.
func needsRotation(kr *keyring.Keyring, now time.Time, lifetime time.Duration) bool {
	for i := 0; i < kr.Len(); i++ {
		e, err := kr.Entry(i)
		if err != nil {
			continue
		}
		if e.ValidAfter.Add(lifetime).After(now) {
			return false
		}
	}
	return true
}

func create(path string) (*keyring.Keyring, Status, error) {
	k, err := key.Generate(key.Size128)
	if err != nil {
		return nil, None, err
	}

	now := time.Now()
	kr := keyring.New(1)
	kr.Add(now, now, k)

	if err := kr.Write(path); err != nil {
		return nil, None, err
	}
	logger.Infow("created new keyring", "path", path)
	return kr, Created, nil
}

func update(path string, kr *keyring.Keyring, now time.Time) (*keyring.Keyring, Status, error) {
	k, err := key.Generate(key.Size128)
	if err != nil {
		return nil, None, err
	}
	kr.Add(now, now, k)

	if err := kr.Write(path); err != nil {
		return nil, None, err
	}
	logger.Infow("rotated keyring", "path", path)
	return kr, Updated, nil
}

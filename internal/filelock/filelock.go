// Package filelock provides a small wrapper around an advisory file lock,
// used to guard the read-modify-write cycle of keyring rotation against
// concurrent processes touching the same keyring file. It exists in place
// of the teacher's pkg/lockfile, whose implementation was not present in
// the retrieval pack (only its test file was); see DESIGN.md.
package filelock

import (
	"context"
	"time"

	"github.com/gofrs/flock"
)

// Lock wraps a path-scoped advisory lock, held for the duration of a
// single rotation attempt.
type Lock struct {
	fl *flock.Flock
}

// New returns a Lock for the given path. The lock file is path+".lock" so
// it never collides with the keyring file's own atomic temp-and-rename
// writes.
func New(path string) *Lock {
	return &Lock{fl: flock.New(path + ".lock")}
}

// Acquire blocks (with a bounded retry) until the lock is held or timeout
// elapses.
func (l *Lock) Acquire(timeout time.Duration) (func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	locked, err := l.fl.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, context.DeadlineExceeded
	}
	return func() { _ = l.fl.Unlock() }, nil
}

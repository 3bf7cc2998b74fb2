package keyring

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	werrors "github.com/webauthkit/webauth/pkg/errors"
)

// Read loads and decodes the keyring stored at path.
func Read(path string) (*Keyring, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, werrors.NewFileNotFoundError(fmt.Sprintf("keyring file %q does not exist", path), err)
		}
		if errors.Is(err, os.ErrPermission) {
			return nil, werrors.NewFileOpenReadError(fmt.Sprintf("cannot open keyring file %q", path), err)
		}
		return nil, werrors.NewFileReadError(fmt.Sprintf("cannot read keyring file %q", path), err)
	}
	return Decode(data)
}

// Write atomically replaces the file at path with kr's encoding: write to
// a sibling temp file (mode 0600, exclusive create), then rename over the
// destination. On any failure the temp file is removed before returning.
func (kr *Keyring) Write(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*")
	if err != nil {
		return werrors.NewFileOpenWriteError(fmt.Sprintf("cannot create temp file for keyring %q", path), err)
	}
	tmpPath := tmp.Name()

	cleanup := func() { _ = os.Remove(tmpPath) }

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		cleanup()
		return werrors.NewFileWriteError(fmt.Sprintf("cannot chmod temp keyring file %q", tmpPath), err)
	}

	if _, err := tmp.Write(kr.Encode()); err != nil {
		_ = tmp.Close()
		cleanup()
		return werrors.NewFileWriteError(fmt.Sprintf("cannot write temp keyring file %q", tmpPath), err)
	}

	if err := tmp.Close(); err != nil {
		cleanup()
		return werrors.NewFileWriteError(fmt.Sprintf("cannot close temp keyring file %q", tmpPath), err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return werrors.NewFileWriteError(fmt.Sprintf("cannot rename temp keyring file into place at %q", path), err)
	}

	return nil
}

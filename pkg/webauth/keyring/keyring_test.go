package keyring_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	werrors "github.com/webauthkit/webauth/pkg/errors"
	"github.com/webauthkit/webauth/pkg/webauth/key"
	"github.com/webauthkit/webauth/pkg/webauth/keyring"
)

func mustKey(t *testing.T) *key.Key {
	t.Helper()
	k, err := key.Generate(key.Size128)
	require.NoError(t, err)
	return k
}

func TestAddRemove(t *testing.T) {
	t.Parallel()

	kr := keyring.New(0)
	k1, k2, k3 := mustKey(t), mustKey(t), mustKey(t)
	now := time.Unix(1000, 0)

	kr.Add(now, now, k1)
	kr.Add(now, now.Add(time.Hour), k2)
	kr.Add(now, now.Add(2*time.Hour), k3)
	require.Equal(t, 3, kr.Len())

	require.NoError(t, kr.Remove(1))
	require.Equal(t, 2, kr.Len())

	e0, err := kr.Entry(0)
	require.NoError(t, err)
	require.Equal(t, k1.Bytes(), e0.Key.Bytes())

	e1, err := kr.Entry(1)
	require.NoError(t, err)
	require.Equal(t, k3.Bytes(), e1.Key.Bytes())
}

func TestRemoveOutOfRange(t *testing.T) {
	t.Parallel()

	kr := keyring.New(0)
	err := kr.Remove(0)
	require.Error(t, err)
	require.True(t, werrors.IsNotFound(err))
}

func TestBestKeyEncryptPicksNewestValid(t *testing.T) {
	t.Parallel()

	kr := keyring.New(0)
	now := time.Unix(10_000, 0)

	kOld := mustKey(t)
	kNew := mustKey(t)
	kFuture := mustKey(t)

	kr.Add(now, now.Add(-time.Hour), kOld)
	kr.Add(now, now.Add(-time.Minute), kNew)
	kr.Add(now, now.Add(time.Hour), kFuture) // not yet valid

	best, err := kr.BestKey(keyring.Encrypt, now, time.Time{})
	require.NoError(t, err)
	require.Equal(t, kNew.Bytes(), best.Key.Bytes())
}

func TestBestKeyEncryptNoValidKey(t *testing.T) {
	t.Parallel()

	kr := keyring.New(0)
	now := time.Unix(10_000, 0)
	kr.Add(now, now.Add(time.Hour), mustKey(t))

	_, err := kr.BestKey(keyring.Encrypt, now, time.Time{})
	require.Error(t, err)
	require.True(t, werrors.IsNotFound(err))
}

func TestBestKeyDecryptPrefersHintEra(t *testing.T) {
	t.Parallel()

	kr := keyring.New(0)
	k1 := mustKey(t)
	k2 := mustKey(t)

	va1 := time.Unix(1000, 0)
	va2 := time.Unix(2000, 0)
	now := time.Unix(3000, 0)
	hint := time.Unix(1500, 0)

	kr.Add(va1, va1, k1)
	kr.Add(va2, va2, k2)

	best, err := kr.BestKey(keyring.Decrypt, now, hint)
	require.NoError(t, err)
	require.Equal(t, k1.Bytes(), best.Key.Bytes())
}

func TestBestKeyEncryptTieBreaksByLaterInsertion(t *testing.T) {
	t.Parallel()

	kr := keyring.New(0)
	now := time.Unix(5000, 0)
	va := time.Unix(1000, 0)

	kFirst := mustKey(t)
	kSecond := mustKey(t)
	kr.Add(now, va, kFirst)
	kr.Add(now, va, kSecond)

	best, err := kr.BestKey(keyring.Encrypt, now, time.Time{})
	require.NoError(t, err)
	require.Equal(t, kSecond.Bytes(), best.Key.Bytes())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	kr := keyring.New(0)
	k1, err := key.Generate(key.Size128)
	require.NoError(t, err)
	k2, err := key.Generate(key.Size256)
	require.NoError(t, err)

	kr.Add(time.Unix(1000, 0), time.Unix(1000, 0), k1)
	kr.Add(time.Unix(2000, 0), time.Unix(2000, 0), k2)

	decoded, err := keyring.Decode(kr.Encode())
	require.NoError(t, err)
	require.Equal(t, kr.Len(), decoded.Len())

	for i := 0; i < kr.Len(); i++ {
		want, err := kr.Entry(i)
		require.NoError(t, err)
		got, err := decoded.Entry(i)
		require.NoError(t, err)
		require.Equal(t, want.Creation.Unix(), got.Creation.Unix())
		require.Equal(t, want.ValidAfter.Unix(), got.ValidAfter.Unix())
		require.Equal(t, want.Key.Bytes(), got.Key.Bytes())
		require.Equal(t, want.Key.Size(), got.Key.Size())
	}
}

func TestDecodeRejectsWrongVersion(t *testing.T) {
	t.Parallel()

	_, err := keyring.Decode([]byte("v=2;n=0;"))
	require.Error(t, err)
	require.True(t, werrors.IsFileVersion(err))
}

func TestDecodeCorruptWireIsRejected(t *testing.T) {
	t.Parallel()

	_, err := keyring.Decode([]byte("not attribute data at all"))
	require.Error(t, err)
}

func TestReadWriteRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "webauth.keyring")

	kr := keyring.New(0)
	k, err := key.Generate(key.Size128)
	require.NoError(t, err)
	kr.Add(time.Unix(1000, 0), time.Unix(1000, 0), k)

	require.NoError(t, kr.Write(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := keyring.Read(path)
	require.NoError(t, err)
	require.Equal(t, 1, loaded.Len())

	e, err := loaded.Entry(0)
	require.NoError(t, err)
	require.Equal(t, k.Bytes(), e.Key.Bytes())

	// No leftover temp files.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestReadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := keyring.Read(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	require.True(t, werrors.IsFileNotFound(err))
}

func TestFromKey(t *testing.T) {
	t.Parallel()

	k := mustKey(t)
	kr := keyring.FromKey(k)
	require.Equal(t, 1, kr.Len())

	e, err := kr.Entry(0)
	require.NoError(t, err)
	require.True(t, e.Creation.Equal(keyring.Epoch))
	require.True(t, e.ValidAfter.Equal(keyring.Epoch))
}

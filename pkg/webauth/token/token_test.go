package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	werrors "github.com/webauthkit/webauth/pkg/errors"
	"github.com/webauthkit/webauth/pkg/webauth/key"
	"github.com/webauthkit/webauth/pkg/webauth/keyring"
	"github.com/webauthkit/webauth/pkg/webauth/token"
)

func singleKeyring(t *testing.T, at time.Time) *keyring.Keyring {
	t.Helper()
	k, err := key.Generate(key.Size128)
	require.NoError(t, err)
	kr := keyring.New(1)
	kr.Add(at, at, k)
	return kr
}

// Scenario 1: round-trip an app token.
func TestRoundTripAppToken(t *testing.T) {
	restore := token.SetNowForTest(func() time.Time { return time.Unix(1_700_000_000, 0) })
	defer restore()

	kr := singleKeyring(t, time.Unix(1_700_000_000, 0))

	tok := &token.AppToken{
		Subject:    "user",
		Creation:   time.Unix(1_700_000_000, 0),
		Expiration: time.Unix(1_700_003_600, 0),
	}

	encoded, err := token.Encode(tok, kr)
	require.NoError(t, err)

	decoded, err := token.Decode(encoded, token.App, kr)
	require.NoError(t, err)

	got, ok := decoded.(*token.AppToken)
	require.True(t, ok)
	require.Equal(t, "user", got.Subject)
	require.Equal(t, tok.Creation.Unix(), got.Creation.Unix())
	require.Equal(t, tok.Expiration.Unix(), got.Expiration.Unix())
}

// Scenario 2: key rotation during decode.
func TestKeyRotationDuringDecode(t *testing.T) {
	restore := token.SetNowForTest(func() time.Time { return time.Unix(1500, 0) })
	k1, err := key.Generate(key.Size128)
	require.NoError(t, err)
	k2, err := key.Generate(key.Size128)
	require.NoError(t, err)

	kr := keyring.New(0)
	kr.Add(time.Unix(1000, 0), time.Unix(1000, 0), k1)
	kr.Add(time.Unix(2000, 0), time.Unix(2000, 0), k2)

	tok := &token.AppToken{
		Subject:    "user",
		Creation:   time.Unix(1500, 0),
		Expiration: time.Unix(900_000_000_000, 0),
	}
	encoded, err := token.Encode(tok, kr)
	require.NoError(t, err)
	restore()

	restore = token.SetNowForTest(func() time.Time { return time.Unix(3000, 0) })
	defer restore()

	decoded, err := token.Decode(encoded, token.App, kr)
	require.NoError(t, err)
	require.Equal(t, "user", decoded.(*token.AppToken).Subject)
}

// Scenario 3: expired token.
func TestDecodeExpiredToken(t *testing.T) {
	restore := token.SetNowForTest(func() time.Time { return time.Unix(50, 0) })
	kr := singleKeyring(t, time.Unix(0, 0))

	tok := &token.AppToken{
		Subject:    "user",
		Creation:   time.Unix(10, 0),
		Expiration: time.Unix(100, 0),
	}
	encoded, err := token.Encode(tok, kr)
	require.NoError(t, err)
	restore()

	restore = token.SetNowForTest(func() time.Time { return time.Unix(1000, 0) })
	defer restore()

	_, err = token.Decode(encoded, token.App, kr)
	require.Error(t, err)
	require.True(t, werrors.IsTokenExpired(err))
}

// Scenario 4: wrong expected type.
func TestDecodeWrongExpectedType(t *testing.T) {
	restore := token.SetNowForTest(func() time.Time { return time.Unix(1000, 0) })
	defer restore()

	kr := singleKeyring(t, time.Unix(1000, 0))
	tok := &token.IDToken{
		Subject:    "user",
		Auth:       "webkdc",
		Creation:   time.Unix(1000, 0),
		Expiration: time.Unix(1_000_000_000, 0),
	}
	encoded, err := token.Encode(tok, kr)
	require.NoError(t, err)

	_, err = token.Decode(encoded, token.App, kr)
	require.Error(t, err)
	require.True(t, werrors.IsCorrupt(err))
	require.Contains(t, err.Error(), "id")
	require.Contains(t, err.Error(), "app")
}

func TestDecodeAnyAcceptsAnyType(t *testing.T) {
	restore := token.SetNowForTest(func() time.Time { return time.Unix(1000, 0) })
	defer restore()

	kr := singleKeyring(t, time.Unix(1000, 0))
	tok := &token.IDToken{
		Subject:    "user",
		Auth:       "webkdc",
		Creation:   time.Unix(1000, 0),
		Expiration: time.Unix(1_000_000_000, 0),
	}
	encoded, err := token.Encode(tok, kr)
	require.NoError(t, err)

	decoded, err := token.Decode(encoded, token.Any, kr)
	require.NoError(t, err)
	require.Equal(t, token.ID, decoded.Type())
}

// Scenario 6: malformed base64.
func TestDecodeMalformedBase64(t *testing.T) {
	t.Parallel()

	kr := singleKeyring(t, time.Unix(1000, 0))
	_, err := token.Decode("not$$$base64", token.Any, kr)
	require.Error(t, err)
	require.True(t, werrors.IsCorrupt(err))
}

// Scenario 7: removed key, lingering token.
func TestDecodeAfterKeyRemoved(t *testing.T) {
	restore := token.SetNowForTest(func() time.Time { return time.Unix(1000, 0) })
	k1, err := key.Generate(key.Size128)
	require.NoError(t, err)

	kr := keyring.New(0)
	kr.Add(time.Unix(1000, 0), time.Unix(1000, 0), k1)

	tok := &token.LoginToken{
		Username: "user",
		Password: "secret",
		Creation: time.Unix(1000, 0),
	}
	encoded, err := token.Encode(tok, kr)
	require.NoError(t, err)
	restore()

	require.NoError(t, kr.Remove(0))

	_, err = token.Decode(encoded, token.Any, kr)
	require.Error(t, err)
	require.True(t, werrors.IsBadHMAC(err))
}

func TestEncodeTwiceNotByteEqualButDecodesSame(t *testing.T) {
	restore := token.SetNowForTest(func() time.Time { return time.Unix(1000, 0) })
	defer restore()

	kr := singleKeyring(t, time.Unix(1000, 0))
	tok := &token.LoginToken{Username: "user", Password: "pw", Creation: time.Unix(1000, 0)}

	a, err := token.Encode(tok, kr)
	require.NoError(t, err)
	b, err := token.Encode(tok, kr)
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	da, err := token.Decode(a, token.Login, kr)
	require.NoError(t, err)
	db, err := token.Decode(b, token.Login, kr)
	require.NoError(t, err)
	require.Equal(t, da, db)
}

func TestEncodeFailsWithoutValidKey(t *testing.T) {
	restore := token.SetNowForTest(func() time.Time { return time.Unix(1000, 0) })
	defer restore()

	kr := singleKeyring(t, time.Unix(5000, 0)) // not yet valid
	tok := &token.LoginToken{Username: "user", Password: "pw", Creation: time.Unix(1000, 0)}

	_, err := token.Encode(tok, kr)
	require.Error(t, err)
	require.True(t, werrors.IsNotFound(err))
}

func TestEncodeRawDecodeRawRoundTrip(t *testing.T) {
	restore := token.SetNowForTest(func() time.Time { return time.Unix(1000, 0) })
	defer restore()

	kr := singleKeyring(t, time.Unix(1000, 0))
	tok := &token.ErrorTok{Code: 42, Message: "boom", Creation: time.Unix(1000, 0)}

	raw, err := token.EncodeRaw(tok, kr)
	require.NoError(t, err)

	decoded, err := token.DecodeRaw(raw, token.ErrorToken, kr)
	require.NoError(t, err)
	require.Equal(t, tok, decoded)
}

func TestDecodeBitFlipFails(t *testing.T) {
	restore := token.SetNowForTest(func() time.Time { return time.Unix(1000, 0) })
	defer restore()

	kr := singleKeyring(t, time.Unix(1000, 0))
	tok := &token.ErrorTok{Code: 42, Message: "boom", Creation: time.Unix(1000, 0)}

	raw, err := token.EncodeRaw(tok, kr)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0x01

	_, err = token.DecodeRaw(raw, token.Any, kr)
	require.Error(t, err)
	require.True(t, werrors.IsBadHMAC(err) || werrors.IsCorrupt(err))
}

// Boundary: keyring with single entry valid_after > now.
func TestEncryptNoValidKeyIsNotFound(t *testing.T) {
	restore := token.SetNowForTest(func() time.Time { return time.Unix(1000, 0) })
	defer restore()

	kr := singleKeyring(t, time.Unix(5000, 0))
	_, err := kr.BestKey(keyring.Encrypt, time.Unix(1000, 0), time.Time{})
	require.Error(t, err)
	require.True(t, werrors.IsNotFound(err))
}

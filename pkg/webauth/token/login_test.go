package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	werrors "github.com/webauthkit/webauth/pkg/errors"
	"github.com/webauthkit/webauth/pkg/webauth/token"
)

func TestLoginPasswordAndOTPBothSetFails(t *testing.T) {
	restore := token.SetNowForTest(func() time.Time { return time.Unix(1000, 0) })
	defer restore()

	kr := singleKeyring(t, time.Unix(1000, 0))
	tok := &token.LoginToken{Username: "user", Password: "pw", OTP: "123456", Creation: time.Unix(1000, 0)}

	_, err := token.Encode(tok, kr)
	require.Error(t, err)
	require.True(t, werrors.IsCorrupt(err))
}

func TestLoginNeitherPasswordNorOTPFails(t *testing.T) {
	restore := token.SetNowForTest(func() time.Time { return time.Unix(1000, 0) })
	defer restore()

	kr := singleKeyring(t, time.Unix(1000, 0))
	tok := &token.LoginToken{Username: "user", Creation: time.Unix(1000, 0)}

	_, err := token.Encode(tok, kr)
	require.Error(t, err)
	require.True(t, werrors.IsCorrupt(err))
}

func TestLoginOTPTypeOnlyValidWithOTP(t *testing.T) {
	restore := token.SetNowForTest(func() time.Time { return time.Unix(1000, 0) })
	defer restore()

	kr := singleKeyring(t, time.Unix(1000, 0))
	tok := &token.LoginToken{Username: "user", Password: "pw", OTPType: "totp", Creation: time.Unix(1000, 0)}

	_, err := token.Encode(tok, kr)
	require.Error(t, err)
	require.True(t, werrors.IsCorrupt(err))
}

func TestLoginWithOTPRoundTrips(t *testing.T) {
	restore := token.SetNowForTest(func() time.Time { return time.Unix(1000, 0) })
	defer restore()

	kr := singleKeyring(t, time.Unix(1000, 0))
	tok := &token.LoginToken{Username: "user", OTP: "123456", OTPType: "totp", Creation: time.Unix(1000, 0)}

	encoded, err := token.Encode(tok, kr)
	require.NoError(t, err)

	decoded, err := token.Decode(encoded, token.Login, kr)
	require.NoError(t, err)
	got := decoded.(*token.LoginToken)
	require.Equal(t, "123456", got.OTP)
	require.Equal(t, "totp", got.OTPType)
	require.Empty(t, got.Password)
}

package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	werrors "github.com/webauthkit/webauth/pkg/errors"
	"github.com/webauthkit/webauth/pkg/webauth/keyring"
	"github.com/webauthkit/webauth/pkg/webauth/token"
	"github.com/webauthkit/webauth/pkg/webauthconfig"
)

// tokenFlags holds the union of flags exposed across variants; buildToken
// only reads the fields the variant named by --type actually uses.
type tokenFlags struct {
	typ        string
	subject    string
	username   string
	password   string
	otp        string
	otpType    string
	auth       string
	loa        uint32
	ttl        time.Duration
}

func newTokenCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Encode or decode a webauth token against a keyring",
	}
	cmd.AddCommand(newTokenEncodeCmd(v))
	cmd.AddCommand(newTokenDecodeCmd(v))
	return cmd
}

func newTokenEncodeCmd(v *viper.Viper) *cobra.Command {
	flags := &tokenFlags{}
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Build, validate, and seal a token under the keyring's best encryption key",
		RunE: func(*cobra.Command, []string) error {
			cfg, err := webauthconfig.Load(v)
			if err != nil {
				return err
			}
			kr, err := keyring.Read(cfg.KeyringPath)
			if err != nil {
				return err
			}

			tok, err := buildToken(flags)
			if err != nil {
				return err
			}

			encoded, err := token.Encode(tok, kr)
			if err != nil {
				return err
			}
			fmt.Println(encoded)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.typ, "type", "", "token variant: app, id, or login")
	cmd.Flags().StringVar(&flags.subject, "subject", "", "subject (app, id)")
	cmd.Flags().StringVar(&flags.username, "username", "", "username (login)")
	cmd.Flags().StringVar(&flags.password, "password", "", "password (login)")
	cmd.Flags().StringVar(&flags.otp, "otp", "", "one-time password (login)")
	cmd.Flags().StringVar(&flags.otpType, "otp-type", "", "one-time password type (login, with --otp)")
	cmd.Flags().StringVar(&flags.auth, "auth", "webkdc", "auth mechanism: webkdc or krb5 (id)")
	cmd.Flags().Uint32Var(&flags.loa, "loa", 0, "level of assurance (app, id)")
	cmd.Flags().DurationVar(&flags.ttl, "ttl", time.Hour, "time until expiration (app, id)")
	return cmd
}

func buildToken(flags *tokenFlags) (token.Token, error) {
	now := time.Now()
	switch token.Type(flags.typ) {
	case token.App:
		return &token.AppToken{
			Subject:    flags.subject,
			LOA:        flags.loa,
			Creation:   now,
			Expiration: now.Add(flags.ttl),
		}, nil
	case token.ID:
		return &token.IDToken{
			Subject:    flags.subject,
			Auth:       flags.auth,
			LOA:        flags.loa,
			Creation:   now,
			Expiration: now.Add(flags.ttl),
		}, nil
	case token.Login:
		return &token.LoginToken{
			Username: flags.username,
			Password: flags.password,
			OTP:      flags.otp,
			OTPType:  flags.otpType,
			Creation: now,
		}, nil
	default:
		return nil, werrors.NewInvalidError(fmt.Sprintf("unsupported --type %q for encode (want app, id, or login)", flags.typ), nil)
	}
}

func newTokenDecodeCmd(v *viper.Viper) *cobra.Command {
	var typ string
	cmd := &cobra.Command{
		Use:   "decode <token>",
		Short: "Open, parse, and validate a token string against the keyring",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := webauthconfig.Load(v)
			if err != nil {
				return err
			}
			kr, err := keyring.Read(cfg.KeyringPath)
			if err != nil {
				return err
			}

			expected := token.Any
			if typ != "" {
				expected = token.Type(typ)
			}

			tok, err := token.Decode(args[0], expected, kr)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %+v\n", tok.Type(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "expected token variant, or empty for any")
	return cmd
}

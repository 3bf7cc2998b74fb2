package app

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/webauthkit/webauth/pkg/logger"
	"github.com/webauthkit/webauth/pkg/webauth/key"
	"github.com/webauthkit/webauth/pkg/webauth/keyring"
	"github.com/webauthkit/webauth/pkg/webauth/rotation"
	"github.com/webauthkit/webauth/pkg/webauthconfig"
)

func newKeyringCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keyring",
		Short: "Manage a webauth keyring file",
	}
	cmd.AddCommand(newKeyringInitCmd(v))
	cmd.AddCommand(newKeyringRotateCmd(v))
	cmd.AddCommand(newKeyringListCmd(v))
	return cmd
}

func newKeyringInitCmd(v *viper.Viper) *cobra.Command {
	var bits int
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new keyring file with a single fresh key",
		RunE: func(*cobra.Command, []string) error {
			cfg, err := webauthconfig.Load(v)
			if err != nil {
				return err
			}
			size, err := sizeFromBits(bits)
			if err != nil {
				return err
			}

			k, err := key.Generate(size)
			if err != nil {
				return err
			}
			kr := keyring.FromKey(k)
			if err := kr.Write(cfg.KeyringPath); err != nil {
				return err
			}
			logger.Infow("keyring created", "path", cfg.KeyringPath, "bits", int(size))
			fmt.Printf("created keyring at %s\n", cfg.KeyringPath)
			return nil
		},
	}
	cmd.Flags().IntVar(&bits, "bits", 128, "AES key size in bits (128, 192, or 256)")
	return cmd
}

func newKeyringRotateCmd(v *viper.Viper) *cobra.Command {
	var mayCreate bool
	cmd := &cobra.Command{
		Use:   "rotate",
		Short: "Add a fresh key if the newest key has aged past its lifetime",
		RunE: func(*cobra.Command, []string) error {
			cfg, err := webauthconfig.Load(v)
			if err != nil {
				return err
			}
			_, status, err := rotation.AutoUpdate(cfg.KeyringPath, mayCreate, cfg.Lifetime)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", status)
			return nil
		},
	}
	cmd.Flags().BoolVar(&mayCreate, "create", false, "create the keyring if it does not exist")
	return cmd
}

func newKeyringListCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the entries in a keyring file",
		RunE: func(*cobra.Command, []string) error {
			cfg, err := webauthconfig.Load(v)
			if err != nil {
				return err
			}
			kr, err := keyring.Read(cfg.KeyringPath)
			if err != nil {
				return err
			}
			for i := 0; i < kr.Len(); i++ {
				e, err := kr.Entry(i)
				if err != nil {
					return err
				}
				fmt.Printf("%d\tcreation=%s\tvalid_after=%s\t%s\n",
					i, e.Creation.UTC().Format("2006-01-02T15:04:05Z"),
					e.ValidAfter.UTC().Format("2006-01-02T15:04:05Z"), e.Key)
			}
			return nil
		},
	}
}

func sizeFromBits(bits int) (key.Size, error) {
	switch key.Size(bits) {
	case key.Size128, key.Size192, key.Size256:
		return key.Size(bits), nil
	default:
		return 0, fmt.Errorf("unsupported key size %d (want 128, 192, or 256)", bits)
	}
}

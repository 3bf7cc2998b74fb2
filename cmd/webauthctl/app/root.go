// Package app wires together webauthctl's command tree: keyring
// lifecycle management and token encode/decode, both operating on the
// same on-disk keyring file.
package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/webauthkit/webauth/pkg/logger"
	"github.com/webauthkit/webauth/pkg/webauthconfig"
)

// NewRootCmd builds the webauthctl command tree.
func NewRootCmd() *cobra.Command {
	v := webauthconfig.New()

	root := &cobra.Command{
		Use:               "webauthctl",
		DisableAutoGenTag: true,
		Short:             "Inspect and maintain a webauth keyring and its tokens",
		PersistentPreRun: func(*cobra.Command, []string) {
			logger.Initialize()
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().String("keyring", "", "path to the keyring file (default: ~/.webauth/keyring)")
	root.PersistentFlags().Duration("lifetime", 0, "key lifetime before auto-rotation adds a new key (0 disables aging-based rotation)")
	bindFlag(v, webauthconfig.KeyringPath, root.PersistentFlags().Lookup("keyring"))
	bindFlag(v, webauthconfig.KeyLifetime, root.PersistentFlags().Lookup("lifetime"))

	root.AddCommand(newKeyringCmd(v))
	root.AddCommand(newTokenCmd(v))

	return root
}

func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		logger.Errorf("failed to bind flag %s: %v", key, err)
	}
}

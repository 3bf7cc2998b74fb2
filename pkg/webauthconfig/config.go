// Package webauthconfig loads the operational settings webauthctl needs
// to locate and maintain a keyring: file path, key lifetime, and AES key
// size. Settings come from flags and environment variables (prefixed
// WEBAUTH_), in that precedence order, via viper; no config file is read.
package webauthconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	werrors "github.com/webauthkit/webauth/pkg/errors"
	"github.com/webauthkit/webauth/pkg/webauth/key"
)

// Keys of the settings this package binds. Exported so cmd/webauthctl can
// bind its flags to exactly these names.
const (
	KeyringPath = "keyring.path"
	KeyLifetime = "keyring.lifetime"
	KeySize     = "keyring.key_size"
)

const (
	defaultLifetime = 30 * 24 * time.Hour
	defaultKeySize  = key.Size128
)

// Config is the resolved set of operational settings.
type Config struct {
	// KeyringPath is the on-disk location of the keyring file.
	KeyringPath string
	// Lifetime is how long a key stays current before auto-rotation adds
	// a new one. Zero disables aging-based rotation.
	Lifetime time.Duration
	// KeySize is the validated keyring.key_size setting. webauthctl does
	// not read it: keyring init takes its size from --bits, and rotation
	// always generates 128-bit keys.
	KeySize key.Size
}

// HomeDirer resolves the current user's home directory. It exists as a
// seam so Load's fallback default path can be tested without depending on
// the real invoking user's environment.
type HomeDirer interface {
	UserHomeDir() (string, error)
}

// osHomeDir implements HomeDirer via os.UserHomeDir.
type osHomeDir struct{}

func (osHomeDir) UserHomeDir() (string, error) { return os.UserHomeDir() }

// New builds a *viper.Viper pre-configured with this package's defaults
// and the WEBAUTH_ environment variable prefix. Callers bind flags to it
// before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("webauth")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyringPath, "")
	v.SetDefault(KeyLifetime, defaultLifetime.String())
	v.SetDefault(KeySize, int(defaultKeySize))
	return v
}

// Load resolves a Config from v, falling back to "<home>/.webauth/keyring"
// for KeyringPath when it is unset by flag or environment.
func Load(v *viper.Viper) (*Config, error) {
	return LoadWithHomeDir(v, osHomeDir{})
}

// LoadWithHomeDir is Load with an injectable HomeDirer, exposed for tests
// that need a deterministic home directory.
func LoadWithHomeDir(v *viper.Viper, home HomeDirer) (*Config, error) {
	path := v.GetString(KeyringPath)
	if path == "" {
		dir, err := home.UserHomeDir()
		if err != nil {
			return nil, werrors.NewInvalidError("keyring path is not configured and home directory is unavailable", err)
		}
		path = filepath.Join(dir, ".webauth", "keyring")
	}

	lifetimeStr := v.GetString(KeyLifetime)
	lifetime, err := time.ParseDuration(lifetimeStr)
	if err != nil {
		return nil, werrors.NewInvalidError(
			fmt.Sprintf("keyring lifetime %q is not a valid duration", lifetimeStr), err)
	}

	size, err := parseKeySize(v.GetInt(KeySize))
	if err != nil {
		return nil, err
	}

	return &Config{KeyringPath: path, Lifetime: lifetime, KeySize: size}, nil
}

func parseKeySize(bits int) (key.Size, error) {
	switch key.Size(bits) {
	case key.Size128, key.Size192, key.Size256:
		return key.Size(bits), nil
	default:
		return 0, werrors.NewInvalidError(fmt.Sprintf("key size %d is not one of 128, 192, 256", bits), nil)
	}
}

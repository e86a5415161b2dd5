package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	sgreperr "github.com/arthur-debert/sgrep/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultSettings []byte

// UserSettingsFile is the optional per-user override file, looked up in
// the XDG config directory.
const UserSettingsFile = "sgrep.toml"

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Default returns the built-in settings with no user or environment
// overrides applied. It never fails: the embedded defaults are validated
// by the package tests.
func Default() Settings {
	s, err := load(false)
	if err != nil {
		// Embedded TOML is compiled in; a parse failure here is a build
		// defect, not a runtime condition.
		panic(err)
	}
	return s
}

// Load returns the effective settings: embedded defaults, then the user
// sgrep.toml if present, then SGREP_-prefixed environment variables.
func Load() (Settings, error) {
	return load(true)
}

func load(withOverrides bool) (Settings, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultSettings}, toml.Parser()); err != nil {
		return Settings{}, sgreperr.Wrap(err, sgreperr.ErrSettingsLoad, "failed to load built-in defaults")
	}

	if withOverrides {
		// 2. User settings file, if one exists
		userPath := userSettingsPath()
		if _, err := os.Stat(userPath); err == nil {
			if err := k.Load(file.Provider(userPath), toml.Parser()); err != nil {
				return Settings{}, sgreperr.Wrapf(err, sgreperr.ErrSettingsLoad,
					"failed to load settings from %s", userPath)
			}
		}

		// 3. Environment variables: SGREP_TEMPLATE_URL -> template.url
		if err := k.Load(env.Provider("SGREP_", ".", func(s string) string {
			return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "SGREP_")), "_", ".")
		}), nil); err != nil {
			return Settings{}, sgreperr.Wrap(err, sgreperr.ErrSettingsLoad, "failed to load environment overrides")
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return Settings{}, sgreperr.Wrap(err, sgreperr.ErrSettingsLoad, "failed to unmarshal settings")
	}
	return s, nil
}

func userSettingsPath() string {
	return filepath.Join(xdg.ConfigHome, "sgrep", UserSettingsFile)
}

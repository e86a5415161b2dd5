// Package config holds the immutable settings consumed by the resolution
// pipeline: the rule registry (alias -> archive URL), the template source,
// and the conventional file names. Settings are a value injected into the
// resolver, never read ambiently, so tests can substitute alternate
// registries.
package config

// Conventional names and extensions.
// IMPORTANT: these are not user-configurable; the exclusion rule and the
// default-probe order depend on them staying consistent across installs.
const (
	// DefaultConfigFile is probed first when no specifier is given
	DefaultConfigFile = "sgrep.yml"

	// DefaultConfigFolder is probed second when no specifier is given
	DefaultConfigFolder = ".sgrep"

	// ConfigMarkerName exempts hidden directories from the scan exclusion
	// rule: a dotted ancestor directory is skipped unless its name contains
	// this marker (keeps src/.sgrep/bad_pattern.yml, drops .github/foo.yml).
	ConfigMarkerName = "sgrep"

	// DefaultRegistryKey names the registry entry used when callers want
	// "the" rule set without naming one.
	DefaultRegistryKey = "r2c"
)

// YMLExtensions are the recognized structured-text extensions.
var YMLExtensions = []string{".yml", ".yaml"}

// Settings is the injected, immutable configuration value for one
// resolution run.
type Settings struct {
	// Registry maps short alias names to rule archive URLs
	Registry map[string]string `koanf:"registry" toml:"registry"`

	// Template configures starter-config generation
	Template TemplateSettings `koanf:"template" toml:"template"`
}

// TemplateSettings configures where the starter config template comes from.
type TemplateSettings struct {
	URL string `koanf:"url" toml:"url"`
}

// LookupRegistry resolves a registry alias to its archive URL. The second
// return reports whether the alias exists; classification as a registry
// specifier only ever happens on a hit.
func (s Settings) LookupRegistry(name string) (string, bool) {
	url, ok := s.Registry[name]
	return url, ok
}

// HasExtension reports whether path ends in one of the recognized
// structured-text extensions.
func HasExtension(ext string) bool {
	for _, e := range YMLExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

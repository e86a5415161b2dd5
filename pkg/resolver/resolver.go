package resolver

import (
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/sgrep/pkg/config"
	"github.com/arthur-debert/sgrep/pkg/errors"
	"github.com/arthur-debert/sgrep/pkg/logging"
	"github.com/arthur-debert/sgrep/pkg/paths"
)

// Resolver resolves configuration specifiers against an injected
// settings value and base path. It owns no mutable state across calls;
// the only filesystem writes are per-call archive scratch directories.
type Resolver struct {
	settings config.Settings
	paths    *paths.Paths

	// client performs the primary config fetch. It deliberately has no
	// timeout: rule archives can be large and slow mirrors are still
	// usable. The template fetch in template.go uses its own short-lived
	// client instead.
	client *http.Client

	logger zerolog.Logger
}

// Option configures a Resolver during construction.
type Option func(*Resolver)

// WithHTTPClient overrides the HTTP client used for config fetches.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) {
		r.client = c
	}
}

// New creates a Resolver over the given settings and base paths.
func New(settings config.Settings, p *paths.Paths, opts ...Option) *Resolver {
	r := &Resolver{
		settings: settings,
		paths:    p,
		client:   &http.Client{},
		logger:   logging.GetLogger("resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve classifies spec and dispatches: registry aliases and URLs are
// fetched, paths are read locally, and an empty spec probes the default
// locations. The returned set maps config ids to parsed documents, with
// nil entries for sources that failed softly. A non-nil error is always
// fatal: no partial set accompanies it.
func (r *Resolver) Resolve(spec string) (ConfigSet, error) {
	start := time.Now()

	var (
		configs ConfigSet
		err     error
	)
	switch Classify(spec, r.settings) {
	case SpecifierAbsent:
		configs, err = r.resolveDefault()
	case SpecifierRegistry:
		url, _ := r.settings.LookupRegistry(spec)
		configs, err = r.fetchConfig(url)
	case SpecifierURL:
		configs, err = r.fetchConfig(spec)
	default:
		configs, err = r.resolveLocal(spec)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Debug().
		Int("configs", len(configs)).
		Dur("duration", time.Since(start)).
		Msg("Loaded configs")
	return configs, nil
}

// resolveDefault probes the conventional locations under the base path:
// the single default file first, then the default folder. Neither
// existing is a soft condition recorded as a single absence entry.
func (r *Resolver) resolveDefault() (ConfigSet, error) {
	defaultFile := r.paths.Join(config.DefaultConfigFile)
	defaultFolder := r.paths.Join(config.DefaultConfigFolder)

	if _, err := os.Stat(defaultFile); err == nil {
		return parseConfigFile(defaultFile, ""), nil
	}
	if info, err := os.Stat(defaultFolder); err == nil && info.IsDir() {
		return r.scanFolder(defaultFolder, true), nil
	}

	r.logger.Info().
		Str("file", defaultFile).
		Str("folder", defaultFolder).
		Msg("No config found at default locations")
	return ConfigSet{defaultFile: nil}, nil
}

// resolveLocal resolves an explicit path specifier. Unlike the default
// probe, an explicit path that does not exist is fatal: the caller named
// a source and no document set at all can be produced from it.
func (r *Resolver) resolveLocal(location string) (ConfigSet, error) {
	loc := r.paths.Join(location)

	info, err := os.Stat(loc)
	if err != nil {
		addendum := ""
		if r.paths.IsDockerBase() {
			addendum = " (since you are running in docker, you cannot specify arbitrary paths on the host; they must be mounted into the container)"
		}
		return nil, errors.Newf(errors.ErrConfigPathNotFound,
			"unable to find a config; path `%s` does not exist%s", loc, addendum)
	}

	switch {
	case info.Mode().IsRegular():
		return parseConfigFile(loc, ""), nil
	case info.IsDir():
		return r.scanFolder(loc, false), nil
	default:
		return nil, errors.Newf(errors.ErrConfigLocationType,
			"config location `%s` is not a file or folder!", loc)
	}
}

// Manual synthesizes a one-rule config set from an inline pattern and a
// language tag, bypassing the resolution pipeline entirely.
func Manual(pattern, lang string) ConfigSet {
	return ConfigSet{
		"manual": {Tree: map[string]interface{}{
			"rules": []interface{}{
				map[string]interface{}{
					"id":        "-",
					"pattern":   pattern,
					"message":   pattern,
					"languages": []interface{}{lang},
					"severity":  "ERROR",
				},
			},
		}},
	}
}

package resolver

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/arthur-debert/sgrep/pkg/config"
	"github.com/arthur-debert/sgrep/pkg/errors"
	"github.com/arthur-debert/sgrep/pkg/logging"
	"github.com/arthur-debert/sgrep/pkg/paths"
)

// templateFetchTimeout bounds the starter-template download. Unlike the
// primary config fetch, generation has a trivial built-in fallback, so
// waiting on a slow mirror buys nothing.
const templateFetchTimeout = 10 * time.Second

// fallbackTemplate is written when the remote template cannot be fetched
const fallbackTemplate = `rules:
  - id: eqeq-is-bad
    pattern: $X == $X
    message: "$X == $X is a useless equality check"
    languages: [python]
    severity: ERROR`

// GenerateConfig writes a starter config to the default file under the
// base path, fetching the shared template and falling back to the
// built-in rule on any fetch problem. It refuses to overwrite an
// existing config. Returns the destination path and whether the
// fallback was used.
func GenerateConfig(settings config.Settings, p *paths.Paths) (string, bool, error) {
	logger := logging.GetLogger("resolver.template")

	dest := p.Join(config.DefaultConfigFile)
	if _, err := os.Stat(dest); err == nil {
		return "", false, errors.Newf(errors.ErrConfigExists,
			"%s already exists. Please remove and try again", dest)
	}

	template, usedFallback := fetchTemplate(settings.Template.URL)
	if usedFallback {
		logger.Info().Str("url", settings.Template.URL).Msg("Using built-in fallback template")
	}

	if err := os.WriteFile(dest, []byte(template), 0644); err != nil {
		return "", usedFallback, errors.Wrapf(err, errors.ErrFileWrite,
			"cannot write template config to %s", dest)
	}
	return dest, usedFallback, nil
}

func fetchTemplate(url string) (string, bool) {
	logger := logging.GetLogger("resolver.template")

	client := &http.Client{Timeout: templateFetchTimeout}
	resp, err := client.Get(url)
	if err != nil {
		logger.Debug().Err(err).Msg("Template download failed")
		return fallbackTemplate, true
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		logger.Debug().Int("status", resp.StatusCode).Msg("Template download returned bad status")
		return fallbackTemplate, true
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Debug().Err(err).Msg("Reading template body failed")
		return fallbackTemplate, true
	}
	return string(body), false
}

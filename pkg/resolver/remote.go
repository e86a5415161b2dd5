package resolver

import (
	"io"
	"net/http"
	"strings"

	"github.com/arthur-debert/sgrep/pkg/errors"
)

// Content types accepted from a config URL. Anything else is fatal:
// unknown formats are never guessed.
const (
	contentTypePlain = "text/plain"
	contentTypeGzip  = "application/x-gzip"
)

// remoteConfigID keys the single document obtained from a text/plain URL
const remoteConfigID = "remote-url"

// fetchConfig issues a blocking GET for url and routes the response by
// declared content type: plain text goes to the parser, a gzip archive
// is extracted and scanned. Transport and decode failures degrade to an
// absence entry keyed by the URL; a bad status or an unrecognized
// content type is fatal.
func (r *Resolver) fetchConfig(url string) (ConfigSet, error) {
	logger := r.logger.With().Str("url", url).Logger()
	logger.Debug().Msg("Trying to download config")

	resp, err := r.client.Get(url)
	if err != nil {
		logger.Error().Err(err).Msg("Config download failed")
		return ConfigSet{url: nil}, nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.ErrConfigHTTPStatus,
			"bad status code: %d returned by config url: %s", resp.StatusCode, url).
			WithDetail("status", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	switch {
	case strings.Contains(contentType, contentTypePlain):
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			logger.Error().Err(err).Msg("Reading config body failed")
			return ConfigSet{url: nil}, nil
		}
		return parseConfigString(remoteConfigID, string(body)), nil

	case contentType == contentTypeGzip:
		configs, err := r.extractArchive(url, resp.Body)
		if err != nil {
			if errors.IsFatal(err) {
				return nil, err
			}
			logger.Error().Err(err).Msg("Archive extraction failed")
			return ConfigSet{url: nil}, nil
		}
		return configs, nil

	default:
		return nil, errors.Newf(errors.ErrConfigContentType,
			"unknown content-type: %s returned by config url: %s. Can not parse", contentType, url)
	}
}

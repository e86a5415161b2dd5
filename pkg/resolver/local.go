package resolver

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/sgrep/pkg/config"
)

// scanFolder recursively resolves every eligible file under root:
// regular files with a recognized extension whose ancestor directories
// pass the hidden-directory rule. Each file is parsed independently;
// one file's syntax error never stops the walk. With relative set, ids
// are stripped of the root prefix.
func (r *Resolver) scanFolder(root string, relative bool) ConfigSet {
	logger := r.logger.With().Str("root", root).Logger()

	idRoot := ""
	if relative {
		idRoot = root
	}

	configs := ConfigSet{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn().Str("path", path).Err(err).Msg("Skipping unreadable entry")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !config.HasExtension(filepath.Ext(path)) {
			return nil
		}
		// The exclusion rule inspects components below the scan root only,
		// so a scan rooted under a hidden directory (the extraction
		// scratch in ~/.cache, say) is not excluded wholesale.
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if isHiddenConfigDir(rel) {
			logger.Trace().Str("path", path).Msg("Skipping hidden directory entry")
			return nil
		}

		for id, doc := range parseConfigFile(path, idRoot) {
			if _, exists := configs[id]; exists {
				logger.Debug().Str("id", id).Msg("Duplicate config id, overwriting earlier entry")
			}
			configs[id] = doc
		}
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Folder scan ended early")
	}

	logger.Debug().Int("count", len(configs)).Msg("Scanned config folder")
	return configs
}

// isHiddenConfigDir reports whether any ancestor directory component of
// loc (never the leaf filename, never the . and .. markers) is hidden
// and not marker-named. Keeps rules/.sgrep.yml and src/.sgrep/x.yml,
// drops path/.github/foo.yml.
func isHiddenConfigDir(loc string) bool {
	parts := strings.Split(filepath.ToSlash(loc), "/")
	for _, part := range parts[:len(parts)-1] {
		if part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") && !strings.Contains(part, config.ConfigMarkerName) {
			return true
		}
	}
	return false
}

package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/sgrep/pkg/logging"
)

// parseConfigString parses one unit of YAML into a single-entry set.
// Syntax errors are isolated to this unit: they are logged with the id
// and an indented rendition of the parser diagnostic, and recorded as
// an absence entry.
func parseConfigString(id, contents string) ConfigSet {
	logger := logging.GetLogger("resolver.parser")

	var tree interface{}
	if err := yaml.Unmarshal([]byte(contents), &tree); err != nil {
		logger.Error().
			Str("id", id).
			Msgf("invalid yaml file %s:\n%s", id, indent(err.Error()))
		return ConfigSet{id: nil}
	}
	return ConfigSet{id: &Document{Tree: tree}}
}

// parseConfigFile reads and parses the file at loc. If root is non-empty
// the config id is loc relative to root; otherwise the id is loc as
// given. A file that vanished between discovery and read is a soft,
// logged absence, not a fault.
func parseConfigFile(loc, root string) ConfigSet {
	logger := logging.GetLogger("resolver.parser")

	id := loc
	if root != "" {
		if rel, err := filepath.Rel(root, loc); err == nil {
			id = rel
		}
	}

	contents, err := os.ReadFile(loc)
	if err != nil {
		logger.Error().Str("path", loc).Err(err).Msgf("YAML file at %s not found", loc)
		return ConfigSet{id: nil}
	}
	return parseConfigString(id, string(contents))
}

// indent prefixes every line of msg with a tab
func indent(msg string) string {
	lines := strings.Split(msg, "\n")
	for i, line := range lines {
		lines[i] = "\t" + line
	}
	return strings.Join(lines, "\n")
}

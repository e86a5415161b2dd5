package config

import (
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// GenerateSettingsContent renders the built-in defaults as a sgrep.toml
// sample with every value commented out, ready for a user to uncomment
// and edit.
func GenerateSettingsContent() (string, error) {
	raw, err := toml.Marshal(Default())
	if err != nil {
		return "", err
	}
	return commentOutValues(string(raw)), nil
}

// commentOutValues comments out assignment lines while keeping blank
// lines, existing comments, and [section] headers as-is.
func commentOutValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			result = append(result, line)
			continue
		}

		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}

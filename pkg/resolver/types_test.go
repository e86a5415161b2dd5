package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/sgrep/pkg/config"
)

func TestClassify(t *testing.T) {
	settings := config.Settings{
		Registry: map[string]string{
			"r2c": "https://example.com/rules/tarball/master",
		},
	}

	tests := []struct {
		spec string
		want SpecifierKind
	}{
		{"", SpecifierAbsent},
		{"r2c", SpecifierRegistry},
		{"https://example.com/rules.yml", SpecifierURL},
		{"http://example.com/rules.yml", SpecifierURL},
		// Registry membership wins before URL detection, path is catch-all
		{"r2c-develop", SpecifierPath},
		{"ftp://example.com/rules.yml", SpecifierPath},
		{"https://", SpecifierPath},
		{"rules/", SpecifierPath},
		{"./rules", SpecifierPath},
		{"/abs/rules.yml", SpecifierPath},
		{"sgrep.yml", SpecifierPath},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.spec, settings))
		})
	}
}

func TestConfigSetValidity(t *testing.T) {
	set := ConfigSet{
		"a.yml": {Tree: map[string]interface{}{"rules": []interface{}{}}},
		"b.yml": nil,
	}
	assert.False(t, set.Valid())
	assert.Equal(t, []string{"b.yml"}, set.Invalid())

	delete(set, "b.yml")
	assert.True(t, set.Valid())
	assert.Empty(t, set.Invalid())
}

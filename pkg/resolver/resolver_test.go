package resolver

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/sgrep/pkg/errors"
	"github.com/arthur-debert/sgrep/pkg/testutil"
)

func rulesDoc(t *testing.T, doc *Document) map[string]interface{} {
	t.Helper()
	require.NotNil(t, doc)
	tree, ok := doc.Tree.(map[string]interface{})
	require.True(t, ok, "document tree is not a mapping")
	return tree
}

func TestResolveSingleFile(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"myrule.yml": "rules: []",
	})
	testutil.Chdir(t, dir)

	r := newTestResolver(t)
	configs, err := r.Resolve("myrule.yml")
	require.NoError(t, err)

	require.Len(t, configs, 1)
	tree := rulesDoc(t, configs["myrule.yml"])
	assert.Equal(t, []interface{}{}, tree["rules"])
}

func TestResolveDefaultFile(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"sgrep.yml": "rules: []",
	})
	testutil.Chdir(t, dir)

	r := newTestResolver(t)
	configs, err := r.Resolve("")
	require.NoError(t, err)

	require.Len(t, configs, 1)
	tree := rulesDoc(t, configs["sgrep.yml"])
	assert.Equal(t, []interface{}{}, tree["rules"])
}

func TestResolveDefaultFolder(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		".sgrep/one.yml":        "rules: []",
		".sgrep/nested/two.yml": "rules: []",
	})
	testutil.Chdir(t, dir)

	r := newTestResolver(t)
	configs, err := r.Resolve("")
	require.NoError(t, err)

	require.Len(t, configs, 2)
	assert.Contains(t, configs, "one.yml")
	assert.Contains(t, configs, "nested/two.yml")
}

func TestResolveDefaultFileWinsOverFolder(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"sgrep.yml":      "rules: []",
		".sgrep/one.yml": "rules: []",
	})
	testutil.Chdir(t, dir)

	r := newTestResolver(t)
	configs, err := r.Resolve("")
	require.NoError(t, err)

	require.Len(t, configs, 1)
	assert.Contains(t, configs, "sgrep.yml")
}

func TestResolveDefaultMissingIsSoft(t *testing.T) {
	testutil.Chdir(t, t.TempDir())

	r := newTestResolver(t)
	configs, err := r.Resolve("")
	require.NoError(t, err)

	require.Len(t, configs, 1)
	assert.Contains(t, configs, "sgrep.yml")
	assert.Nil(t, configs["sgrep.yml"])
}

func TestResolveFolderWithMalformedSibling(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"rules/a.yml": "rules: []",
		"rules/b.yml": "rules: [\n  - broken",
	})
	testutil.Chdir(t, dir)

	r := newTestResolver(t)
	configs, err := r.Resolve("./rules")
	require.NoError(t, err)

	require.Len(t, configs, 2)
	tree := rulesDoc(t, configs["rules/a.yml"])
	assert.Equal(t, []interface{}{}, tree["rules"])
	require.Contains(t, configs, "rules/b.yml")
	assert.Nil(t, configs["rules/b.yml"])
}

func TestResolveFolderExclusionBoundary(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"proj/.github/rule.yml":  "rules: []",
		"proj/.sgrep/rule.yml":   "rules: []",
		"proj/rules/.hidden.yml": "rules: []",
		"proj/rules/ok.yml":      "rules: []",
	})
	testutil.Chdir(t, dir)

	r := newTestResolver(t)
	configs, err := r.Resolve("proj")
	require.NoError(t, err)

	require.Len(t, configs, 3)
	assert.NotContains(t, configs, "proj/.github/rule.yml")
	assert.Contains(t, configs, "proj/.sgrep/rule.yml")
	assert.Contains(t, configs, "proj/rules/.hidden.yml")
	assert.Contains(t, configs, "proj/rules/ok.yml")
}

func TestResolveMissingPathIsFatal(t *testing.T) {
	r := newTestResolver(t)
	configs, err := r.Resolve("/does/not/exist")

	require.Error(t, err)
	assert.Nil(t, configs)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigPathNotFound))
	assert.True(t, errors.IsFatal(err))
}

func TestResolveSpecialFileIsFatal(t *testing.T) {
	if _, err := os.Stat(os.DevNull); err != nil {
		t.Skipf("%s not available", os.DevNull)
	}

	r := newTestResolver(t)
	_, err := r.Resolve(os.DevNull)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLocationType))
	assert.True(t, errors.IsFatal(err))
}

func TestManual(t *testing.T) {
	configs := Manual("$X == $X", "python")

	require.Len(t, configs, 1)
	tree := rulesDoc(t, configs["manual"])
	rules, ok := tree["rules"].([]interface{})
	require.True(t, ok)
	require.Len(t, rules, 1)

	rule, ok := rules[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "-", rule["id"])
	assert.Equal(t, "$X == $X", rule["pattern"])
	assert.Equal(t, "$X == $X", rule["message"])
	assert.Equal(t, []interface{}{"python"}, rule["languages"])
	assert.Equal(t, "ERROR", rule["severity"])
}

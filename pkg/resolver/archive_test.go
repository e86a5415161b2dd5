package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/sgrep/pkg/errors"
	"github.com/arthur-debert/sgrep/pkg/testutil"
)

func TestResolveArchiveURL(t *testing.T) {
	archive := testutil.TarGz(t, map[string]string{
		"sgrep-rules-master/a.yml":     "rules: []",
		"sgrep-rules-master/sub/b.yml": "rules: []",
		"sgrep-rules-master/README.md": "not a rule file",
	})
	srv := testutil.Serve(t, "application/x-gzip", archive)

	r := newTestResolver(t)
	configs, err := r.Resolve(srv.URL)
	require.NoError(t, err)

	// Ids are relative to the synthetic top directory
	require.Len(t, configs, 2)
	assert.Contains(t, configs, "a.yml")
	assert.Contains(t, configs, "sub/b.yml")
	tree := rulesDoc(t, configs["a.yml"])
	assert.Equal(t, []interface{}{}, tree["rules"])
}

func TestResolveArchiveExcludesHiddenDirs(t *testing.T) {
	archive := testutil.TarGz(t, map[string]string{
		"top/.github/ci.yml":  "rules: []",
		"top/.sgrep/keep.yml": "rules: []",
		"top/ok.yml":          "rules: []",
	})
	srv := testutil.Serve(t, "application/x-gzip", archive)

	r := newTestResolver(t)
	configs, err := r.Resolve(srv.URL)
	require.NoError(t, err)

	require.Len(t, configs, 2)
	assert.Contains(t, configs, "ok.yml")
	assert.Contains(t, configs, ".sgrep/keep.yml")
	assert.NotContains(t, configs, ".github/ci.yml")
}

func TestResolveArchiveWithoutTopDirIsFatal(t *testing.T) {
	// Loose top-level file, no wrapping directory
	archive := testutil.TarGz(t, map[string]string{
		"a.yml": "rules: []",
	})
	srv := testutil.Serve(t, "application/x-gzip", archive)

	r := newTestResolver(t)
	configs, err := r.Resolve(srv.URL)

	require.Error(t, err)
	assert.Nil(t, configs)
	assert.True(t, errors.IsErrorCode(err, errors.ErrArchiveLayout))
	assert.True(t, errors.IsFatal(err))
}

func TestResolveCorruptArchiveIsSoft(t *testing.T) {
	srv := testutil.Serve(t, "application/x-gzip", []byte("definitely not gzip"))

	r := newTestResolver(t)
	configs, err := r.Resolve(srv.URL)
	require.NoError(t, err)

	require.Len(t, configs, 1)
	assert.Nil(t, configs[srv.URL])
}

func TestResolveArchiveTraversalMemberIsSoft(t *testing.T) {
	archive := testutil.TarGz(t, map[string]string{
		"../evil.yml": "rules: []",
	})
	srv := testutil.Serve(t, "application/x-gzip", archive)

	r := newTestResolver(t)
	configs, err := r.Resolve(srv.URL)
	require.NoError(t, err)

	require.Contains(t, configs, srv.URL)
	assert.Nil(t, configs[srv.URL])
}

func TestConfinePath(t *testing.T) {
	tests := []struct {
		name    string
		member  string
		wantErr bool
	}{
		{"plain", "dir/file.yml", false},
		{"dot segments collapse", "dir/./file.yml", false},
		{"inner parent stays inside", "dir/sub/../file.yml", false},
		{"escapes root", "../file.yml", true},
		{"deep escape", "dir/../../file.yml", true},
		{"absolute", "/etc/passwd", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := confinePath("/scratch", tt.member)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

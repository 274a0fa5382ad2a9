package filter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_OverlapIsFatal(t *testing.T) {
	_, err := NewRegistry(map[string]Policy{
		"workspace": {
			AlwaysKeep: []string{"id"},
			Drop:       []string{"id", "name"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workspace")
	assert.Contains(t, err.Error(), "id")
}

func TestNewRegistry_OverlapOnPaths(t *testing.T) {
	_, err := NewRegistry(map[string]Policy{
		"run": {
			AlwaysKeep: []string{"data.attributes.created-at"},
			Drop:       []string{"data.attributes.created-at"},
		},
	})
	require.Error(t, err)
}

func TestNewRegistry_DisjointSetsValidate(t *testing.T) {
	_, err := NewRegistry(map[string]Policy{
		"run": {
			AlwaysKeep: []string{"links.next"},
			Drop:       []string{"links"}, // ancestor of a keep path, not an overlap
		},
	})
	require.NoError(t, err)
}

func TestMerge_OverridesReplaceWholePolicy(t *testing.T) {
	base := map[string]Policy{
		"workspace": {Drop: []string{"a", "b"}},
		"run":       {Drop: []string{"c"}},
	}
	overrides := map[string]Policy{
		"workspace": {Drop: []string{"z"}},
		"custom":    {AlwaysKeep: []string{"id"}},
	}

	merged := Merge(base, overrides)
	assert.Equal(t, []string{"z"}, merged["workspace"].Drop)
	assert.Equal(t, []string{"c"}, merged["run"].Drop)
	assert.Contains(t, merged, "custom")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policies.yaml")
	content := `
workspace:
  drop:
    - data.attributes.vcs-repo
  always_keep:
    - data.attributes.created-at
  nested:
    project: project
run:
  drop:
    - data.attributes.terraform-version
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	policies, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, policies, 2)
	assert.Equal(t, []string{"data.attributes.vcs-repo"}, policies["workspace"].Drop)
	assert.Equal(t, "project", policies["workspace"].Nested["project"])
	assert.Equal(t, []string{"data.attributes.terraform-version"}, policies["run"].Drop)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workspace: [unclosed"), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
}

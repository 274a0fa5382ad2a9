package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("TFC_TOKEN", "")
	t.Setenv("TFC_ADDRESS", "")
	t.Setenv("ENABLE_DELETE_TOOLS", "")
	t.Setenv("TFCMCP_FILTER_POLICIES", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Empty(t, cfg.Token, "missing token is not fatal at startup")
	assert.False(t, cfg.EnableDeleteTools)
	assert.NotNil(t, cfg.Filters)
}

func TestFromEnv_Values(t *testing.T) {
	t.Setenv("TFC_TOKEN", "tok-123")
	t.Setenv("TFC_ADDRESS", "https://tfe.example.com")
	t.Setenv("ENABLE_DELETE_TOOLS", "true")
	t.Setenv("TFCMCP_FILTER_POLICIES", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", cfg.Token)
	assert.Equal(t, "https://tfe.example.com", cfg.Address)
	assert.True(t, cfg.EnableDeleteTools)
}

func TestFromEnv_DeleteToolsSpellings(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"YES", true},
		{"on", true},
		{"false", false},
		{"0", false},
		{"", false},
		{"maybe", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("ENABLE_DELETE_TOOLS", tt.value)
			t.Setenv("TFCMCP_FILTER_POLICIES", "")

			cfg, err := FromEnv()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.EnableDeleteTools)
		})
	}
}

func TestFromEnv_PolicyOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policies.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workspace:\n  drop:\n    - data.attributes.vcs-repo\n"), 0o644))
	t.Setenv("TFCMCP_FILTER_POLICIES", path)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.NotNil(t, cfg.Filters)
}

func TestFromEnv_InvalidPolicyIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policies.yaml")
	content := "workspace:\n  always_keep: [id]\n  drop: [id, name]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("TFCMCP_FILTER_POLICIES", path)

	_, err := FromEnv()
	require.Error(t, err, "an always_keep/drop overlap must fail at startup")
	assert.Contains(t, err.Error(), "filter")
}

func TestFromEnv_MissingPolicyFileIsFatal(t *testing.T) {
	t.Setenv("TFCMCP_FILTER_POLICIES", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := FromEnv()
	require.Error(t, err)
}

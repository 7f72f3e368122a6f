package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:8000", cfg.APIURL)
	assert.Equal(t, ThemeDark, cfg.Theme)
	assert.Equal(t, 10, cfg.SearchTopK)
}

func TestValidateRejectsBadValues(t *testing.T) {
	assert.Error(t, (&Config{}).Validate(), "api url is required")
	assert.Error(t, (&Config{APIURL: "http://x", Theme: "sepia"}).Validate())
	assert.Error(t, (&Config{APIURL: "http://x", SearchTopK: 500}).Validate())
}

func TestLoadFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")
	require.NoError(t, os.WriteFile(path, []byte("api_url: http://example.com:9000\ntheme: light\nsearch_top_k: 25\n"), 0600))

	cfg, err := loadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com:9000", cfg.APIURL)
	assert.Equal(t, ThemeLight, cfg.Theme)
	assert.Equal(t, 25, cfg.SearchTopK)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := loadFile(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvAPIURL, "http://override:7000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://override:7000", cfg.APIURL)
}

package ui

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcinsik/knowledge-assistant/internal/api"
	"github.com/marcinsik/knowledge-assistant/internal/config"
	"github.com/marcinsik/knowledge-assistant/internal/store"
)

func TestSettingsHealthCheck(t *testing.T) {
	client := itemsTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	model := NewSettingsModel(client, store.New(), config.Default())
	model.width = 100

	cmd := model.Init()
	require.NotNil(t, cmd)
	model, _ = model.Update(cmd())

	assert.True(t, model.healthOK)
	assert.Contains(t, model.View(), "ok")
}

func TestSettingsHealthFailure(t *testing.T) {
	model := NewSettingsModel(api.NewClient(api.DefaultBaseURL), store.New(), config.Default())
	model.width = 100
	model, _ = model.Update(healthCheckedMsg{err: errors.New("connection refused")})

	assert.False(t, model.healthOK)
	assert.Contains(t, model.View(), "connection refused")
}

func TestSettingsSemanticToggle(t *testing.T) {
	st := store.New()
	model := NewSettingsModel(nil, st, config.Default())
	require.True(t, st.SemanticEnabled())

	model, _ = model.Update(keyRune('s'))
	assert.False(t, st.SemanticEnabled())

	model, _ = model.Update(keyRune('s'))
	assert.True(t, st.SemanticEnabled())
}

func TestSettingsThemeToggleSaves(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := config.Default()
	model := NewSettingsModel(nil, store.New(), cfg)

	model, cmd := model.Update(keyRune('t'))
	require.NotNil(t, cmd)
	assert.Equal(t, config.ThemeLight, cfg.Theme)

	saved, ok := cmd().(configSavedMsg)
	require.True(t, ok)
	assert.NoError(t, saved.err)

	reloaded, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.ThemeLight, reloaded.Theme)
}

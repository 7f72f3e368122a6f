package ui

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcinsik/knowledge-assistant/internal/api"
	"github.com/marcinsik/knowledge-assistant/internal/config"
	"github.com/marcinsik/knowledge-assistant/internal/store"
	"github.com/marcinsik/knowledge-assistant/internal/ui/components"
)

type healthCheckedMsg struct {
	status *api.HealthStatus
	err    error
}

type configSavedMsg struct{ err error }

// SettingsModel shows the active configuration, the server health, and
// the two runtime toggles (theme and semantic search).
type SettingsModel struct {
	client *api.Client
	store  *store.Store
	cfg    *config.Config

	healthText string
	healthOK   bool
	checking   bool

	width int
}

func NewSettingsModel(client *api.Client, st *store.Store, cfg *config.Config) SettingsModel {
	return SettingsModel{client: client, store: st, cfg: cfg}
}

// Init probes the server so the screen opens with a live status.
func (m SettingsModel) Init() tea.Cmd {
	return m.healthCmd()
}

func (m SettingsModel) healthCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.client.Health()
		return healthCheckedMsg{status: status, err: err}
	}
}

func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case healthCheckedMsg:
		m.checking = false
		if msg.err != nil {
			m.healthOK = false
			m.healthText = msg.err.Error()
		} else {
			m.healthOK = true
			m.healthText = msg.status.Status
			if msg.status.Message != "" {
				m.healthText += " · " + msg.status.Message
			}
		}
		return m, nil

	case configSavedMsg:
		if msg.err != nil {
			return m, showToast(toastError, errText("Saving config failed", msg.err))
		}
		return m, showToast(toastSuccess, "Settings saved.")

	case tea.KeyMsg:
		switch {
		case isKey(msg, "h"):
			m.checking = true
			return m, m.healthCmd()
		case isKey(msg, "s"):
			m.store.SetSemantic(!m.store.SemanticEnabled())
			return m, nil
		case isKey(msg, "t"):
			if m.cfg.Theme == config.ThemeDark {
				m.cfg.Theme = config.ThemeLight
			} else {
				m.cfg.Theme = config.ThemeDark
			}
			ApplyTheme(m.cfg.Theme)
			cfg := *m.cfg
			return m, func() tea.Msg {
				return configSavedMsg{err: cfg.Save()}
			}
		}
	}
	return m, nil
}

func (m SettingsModel) View() string {
	health := "unknown"
	switch {
	case m.checking:
		health = "checking..."
	case m.healthText != "":
		health = m.healthText
	}

	semantic := "off (local substring search)"
	if m.store.SemanticEnabled() {
		semantic = "on"
	}

	rows := []components.TableRow{
		{Label: "Server", Value: m.client.BaseURL()},
		{Label: "Health", Value: health},
		{Label: "Semantic search (s)", Value: semantic},
		{Label: "Theme (t)", Value: m.cfg.Theme},
		{Label: "Search top-k", Value: strconv.Itoa(m.cfg.SearchTopK)},
	}

	footer := MutedStyle.Render("h re-check server health · config: " + configPathText())
	return components.Indent(components.Table("Settings", rows, m.width)+"\n\n"+footer, 1)
}

func configPathText() string {
	if path := config.Path(); path != "" {
		return path
	}
	return "~/.knowassist/config"
}

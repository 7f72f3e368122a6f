package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcinsik/knowledge-assistant/internal/api"
	"github.com/marcinsik/knowledge-assistant/internal/config"
	"github.com/marcinsik/knowledge-assistant/internal/store"
	"github.com/marcinsik/knowledge-assistant/internal/ui/components"
)

type appTab int

const (
	tabItems appTab = iota
	tabAdd
	tabSettings
	tabCount
)

var tabTitles = [tabCount]string{"Items", "Add", "Settings"}

// App is the root bubbletea model. It owns the tab bar and the toast
// stack and routes every other message to the screen models.
type App struct {
	client *api.Client
	store  *store.Store
	cfg    *config.Config

	activeTab appTab
	items     ItemsModel
	add       AddModel
	settings  SettingsModel

	toasts []toast

	width  int
	height int
}

// NewApp wires the screens around a shared client and store.
func NewApp(client *api.Client, cfg *config.Config) App {
	st := store.New()
	return App{
		client:   client,
		store:    st,
		cfg:      cfg,
		items:    NewItemsModel(client, st, cfg.SearchTopK),
		add:      NewAddModel(client),
		settings: NewSettingsModel(client, st, cfg),
	}
}

// Store exposes the shared item store, mainly for tests.
func (a App) Store() *store.Store {
	return a.store
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.items.Init(), a.settings.Init())
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.items.width = msg.Width
		a.items.height = msg.Height
		a.add.width = msg.Width
		a.settings.width = msg.Width
		return a, nil

	case toastRequestMsg:
		return a, a.pushToast(msg.kind, msg.text)

	case toastExpiredMsg:
		a.dismissToast(msg.id)
		return a, nil

	case itemCreatedMsg:
		// Creation succeeds from the Add tab; the new item jumps to the
		// head of the list, so land the user there with a clean view.
		a.store.Add(msg.item)
		a.store.ClearQuery()
		a.store.ClearSelection()
		a.items.reset()
		a.items.refreshRows(true)
		a.activeTab = tabItems
		var cmd tea.Cmd
		a.add, cmd = a.add.Update(msg)
		return a, tea.Batch(cmd, showToast(toastSuccess, "Added "+components.SanitizeOneLine(msg.item.Title)))

	case itemCreateFailedMsg:
		var cmd tea.Cmd
		a.add, cmd = a.add.Update(msg)
		return a, cmd

	case healthCheckedMsg, configSavedMsg:
		var cmd tea.Cmd
		a.settings, cmd = a.settings.Update(msg)
		return a, cmd

	case itemsLoadedMsg, itemsLoadFailedMsg, searchDebounceMsg, searchResultsMsg,
		searchFailedMsg, itemUpdatedMsg, itemUpdateFailedMsg, itemDeletedMsg,
		itemDeleteFailedMsg, pdfSavedMsg, pdfSaveFailedMsg:
		var cmd tea.Cmd
		a.items, cmd = a.items.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKeys(msg)
	}
	return a, nil
}

func (a App) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if isQuit(msg) {
		return a, tea.Quit
	}

	if isKey(msg, "ctrl+x") && len(a.toasts) > 0 {
		a.dismissToast(a.toasts[0].id)
		return a, nil
	}

	if a.connectionLost() {
		if isKey(msg, "r") {
			a.store.BeginReload()
			return a, a.items.reloadCmd()
		}
		return a, nil
	}

	// Tab switching rides on left/right, which no screen claims for
	// editing.
	switch {
	case isKey(msg, "right"):
		return a.switchTab((a.activeTab + 1) % tabCount)
	case isKey(msg, "left"):
		return a.switchTab((a.activeTab + tabCount - 1) % tabCount)
	}

	var cmd tea.Cmd
	switch a.activeTab {
	case tabItems:
		a.items, cmd = a.items.Update(msg)
	case tabAdd:
		a.add, cmd = a.add.Update(msg)
	case tabSettings:
		a.settings, cmd = a.settings.Update(msg)
	}
	return a, cmd
}

func (a App) switchTab(next appTab) (tea.Model, tea.Cmd) {
	if next == a.activeTab {
		return a, nil
	}
	if a.activeTab == tabItems {
		// Leaving the items screen abandons any in-flight search and
		// drops the selection so the tab reopens on the list.
		a.items.reset()
		a.items.refreshRows(true)
	}
	a.activeTab = next
	if next == tabSettings {
		return a, a.settings.healthCmd()
	}
	return a, nil
}

// connectionLost reports whether the full-screen connection error page
// should replace the UI: the very first load failed and there is no
// cached collection to fall back on.
func (a App) connectionLost() bool {
	return !a.store.Loaded() && !a.store.Loading() && a.store.LastError() != ""
}

func (a App) View() string {
	var b []byte
	out := func(s string) { b = append(b, s...) }

	out(RenderBanner())
	out("\n")

	if a.connectionLost() {
		out(components.Indent(components.ErrorBox(
			"Connection Error",
			"Could not reach the knowledge server at "+a.client.BaseURL()+".\n"+
				components.SanitizeOneLine(a.store.LastError())+"\n\nPress r to retry.",
			a.width,
		), 1))
		out("\n")
		out(components.StatusBar([]string{components.Hint("r", "retry"), components.Hint("ctrl+c", "quit")}, a.width))
		return string(b)
	}

	out(a.renderTabs())
	out("\n")

	switch a.activeTab {
	case tabItems:
		out(a.items.View())
	case tabAdd:
		out(a.add.View())
	case tabSettings:
		out(a.settings.View())
	}

	if toasts := a.renderToasts(); toasts != "" {
		out("\n")
		out(toasts)
	}

	out("\n")
	out(components.StatusBar(a.statusHints(), a.width))
	return string(b)
}

func (a App) renderTabs() string {
	var b []byte
	b = append(b, "  "...)
	for i, title := range tabTitles {
		style := TabInactiveStyle
		if appTab(i) == a.activeTab {
			style = TabActiveStyle
		}
		b = append(b, style.Render(" "+title+" ")...)
		if i < len(tabTitles)-1 {
			b = append(b, ' ')
		}
	}
	return string(b)
}

func (a App) statusHints() []string {
	hints := []string{components.Hint("←/→", "tabs")}
	switch a.activeTab {
	case tabItems:
		switch {
		case a.items.deleting != nil:
			hints = append(hints, components.Hint("y", "delete"), components.Hint("n", "keep"))
		case a.items.view == itemsViewDetail:
			hints = append(hints,
				components.Hint("e", "edit"),
				components.Hint("d", "delete"),
				components.Hint("x", "download pdf"),
				components.Hint("esc", "back"))
		case a.items.view == itemsViewEdit:
			hints = append(hints, components.Hint("ctrl+s", "save"), components.Hint("esc", "cancel"))
		case a.items.filtering:
			hints = append(hints,
				components.Hint("space", "toggle tag"),
				components.Hint("t", "type"),
				components.Hint("s/o", "sort"),
				components.Hint("esc", "close"))
		case a.items.searching:
			hints = append(hints, components.Hint("enter", "done"), components.Hint("esc", "clear"))
		default:
			hints = append(hints,
				components.Hint("/", "search"),
				components.Hint("f", "filter"),
				components.Hint("enter", "open"),
				components.Hint("r", "reload"))
		}
	case tabAdd:
		hints = append(hints, components.Hint("ctrl+t", "note/pdf"), components.Hint("ctrl+s", "save"))
	case tabSettings:
		hints = append(hints,
			components.Hint("h", "health"),
			components.Hint("s", "semantic"),
			components.Hint("t", "theme"))
	}
	if len(a.toasts) > 0 {
		hints = append(hints, components.Hint("ctrl+x", "dismiss"))
	}
	return append(hints, components.Hint("ctrl+c", "quit"))
}

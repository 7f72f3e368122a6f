package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcinsik/knowledge-assistant/internal/api"
	"github.com/marcinsik/knowledge-assistant/internal/store"
	"github.com/marcinsik/knowledge-assistant/internal/ui/components"
)

// --- Messages ---

type itemsLoadedMsg struct{ items []api.KnowledgeItem }
type itemsLoadFailedMsg struct{ err error }
type searchDebounceMsg struct{ token int }
type searchResultsMsg struct {
	token int
	items []api.KnowledgeItem
}
type searchFailedMsg struct {
	token int
	err   error
}
type itemUpdatedMsg struct{ item api.KnowledgeItem }
type itemUpdateFailedMsg struct{ err error }
type itemDeletedMsg struct{ id int }
type itemDeleteFailedMsg struct{ err error }
type pdfSavedMsg struct{ path string }
type pdfSaveFailedMsg struct{ err error }

// searchDebounce is how long typing must pause before a semantic
// search request goes out.
const searchDebounce = 350 * time.Millisecond

type itemsView int

const (
	itemsViewList itemsView = iota
	itemsViewDetail
	itemsViewEdit
)

// Edit form field indices.
const (
	editFieldTitle = iota
	editFieldTags
	editFieldContent
	editFieldCount
)

type formField struct {
	label string
	value string
}

// ItemsModel is the list/detail/edit screen over the knowledge item
// store. All store mutations run here (or in App), on the event loop;
// commands only talk to the network.
type ItemsModel struct {
	client *api.Client
	store  *store.Store
	topK   int

	view      itemsView
	searching bool
	filtering bool
	deleting  *api.KnowledgeItem

	list         *components.List
	filterCursor int
	filterTags   []string

	detailOffset int

	editFields []formField
	editFocus  int
	editErr    string
	submitting bool

	width  int
	height int
}

// NewItemsModel builds the items screen.
func NewItemsModel(client *api.Client, st *store.Store, topK int) ItemsModel {
	return ItemsModel{
		client: client,
		store:  st,
		topK:   topK,
		list:   components.NewList(12),
		editFields: []formField{
			{label: "Title"},
			{label: "Tags"},
			{label: "Content"},
		},
	}
}

// Init reloads the collection from the server.
func (m ItemsModel) Init() tea.Cmd {
	m.store.BeginReload()
	return m.reloadCmd()
}

func (m ItemsModel) reloadCmd() tea.Cmd {
	return func() tea.Msg {
		items, err := m.client.ListItems()
		if err != nil {
			return itemsLoadFailedMsg{err: err}
		}
		return itemsLoadedMsg{items: items}
	}
}

func (m ItemsModel) Update(msg tea.Msg) (ItemsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case itemsLoadedMsg:
		m.store.ApplyReload(msg.items)
		m.refreshRows(true)
		return m, nil

	case itemsLoadFailedMsg:
		hadItems := len(m.store.Items()) > 0
		m.store.FailReload(msg.err)
		if hadItems {
			// Stale list stays visible; failure degrades to a toast.
			return m, showToast(toastError, errText("Reload failed", msg.err))
		}
		return m, nil

	case searchDebounceMsg:
		if !m.store.ShouldSearch(msg.token) {
			return m, nil
		}
		return m, m.searchCmd(msg.token)

	case searchResultsMsg:
		if m.store.ApplySearchResults(msg.token, msg.items) {
			m.refreshRows(true)
		}
		return m, nil

	case searchFailedMsg:
		if m.store.FailSearch(msg.token) {
			m.refreshRows(true)
			return m, showToast(toastError, errText("Search failed", msg.err))
		}
		return m, nil

	case itemUpdatedMsg:
		m.submitting = false
		m.store.ApplyUpdate(msg.item)
		m.refreshRows(false)
		// Submitting an edit lands back on the list.
		m.store.ClearSelection()
		m.view = itemsViewList
		m.detailOffset = 0
		return m, showToast(toastSuccess, "Note updated.")

	case itemUpdateFailedMsg:
		// The form keeps its values so the user can retry.
		m.submitting = false
		m.editErr = msg.err.Error()
		return m, showToast(toastError, errText("Update failed", msg.err))

	case itemDeletedMsg:
		m.store.ApplyDelete(msg.id)
		m.refreshRows(false)
		if m.view != itemsViewList && m.store.Selected() == nil {
			m.view = itemsViewList
		}
		return m, showToast(toastSuccess, "Item deleted.")

	case itemDeleteFailedMsg:
		return m, showToast(toastError, errText("Delete failed", msg.err))

	case pdfSavedMsg:
		return m, showToast(toastSuccess, "Saved "+msg.path)

	case pdfSaveFailedMsg:
		return m, showToast(toastError, errText("Download failed", msg.err))

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m ItemsModel) handleKeys(msg tea.KeyMsg) (ItemsModel, tea.Cmd) {
	if m.deleting != nil {
		switch {
		case isKey(msg, "y"):
			target := *m.deleting
			m.deleting = nil
			return m, m.deleteCmd(target.ID)
		case isKey(msg, "n"), isBack(msg):
			m.deleting = nil
		}
		return m, nil
	}

	switch m.view {
	case itemsViewDetail:
		return m.handleDetailKeys(msg)
	case itemsViewEdit:
		return m.handleEditKeys(msg)
	}
	if m.filtering {
		return m.handleFilterKeys(msg)
	}
	if m.searching {
		return m.handleSearchKeys(msg)
	}
	return m.handleListKeys(msg)
}

func (m ItemsModel) handleListKeys(msg tea.KeyMsg) (ItemsModel, tea.Cmd) {
	switch {
	case isUp(msg):
		m.list.Up()
	case isDown(msg):
		m.list.Down()
	case isEnter(msg):
		display := m.store.Display()
		if idx := m.list.Selected(); idx < len(display) {
			m.store.Select(display[idx])
			m.view = itemsViewDetail
			m.detailOffset = 0
		}
	case isKey(msg, "/"):
		m.searching = true
	case isKey(msg, "f"):
		m.filtering = true
		m.filterCursor = 0
		m.filterTags = m.store.AvailableTags()
	case isKey(msg, "r"):
		m.store.BeginReload()
		return m, m.reloadCmd()
	case isKey(msg, "e"):
		display := m.store.Display()
		if idx := m.list.Selected(); idx < len(display) {
			return m.enterEdit(display[idx])
		}
	case isKey(msg, "d"):
		display := m.store.Display()
		if idx := m.list.Selected(); idx < len(display) {
			item := display[idx]
			m.deleting = &item
		}
	case isBack(msg):
		if m.store.Query() != "" {
			m.clearQuery()
		}
	}
	return m, nil
}

func (m ItemsModel) handleSearchKeys(msg tea.KeyMsg) (ItemsModel, tea.Cmd) {
	switch {
	case isBack(msg):
		if m.store.Query() != "" {
			m.clearQuery()
			return m, nil
		}
		m.searching = false
	case isEnter(msg):
		m.searching = false
	case isUp(msg):
		m.list.Up()
	case isDown(msg):
		m.list.Down()
	case isKey(msg, "ctrl+u"):
		if m.store.Query() != "" {
			m.clearQuery()
		}
	case isKey(msg, "backspace", "delete"):
		q := m.store.Query()
		if q != "" {
			return m, m.applyQuery(trimLastRune(q))
		}
	default:
		if len(msg.Runes) > 0 || msg.Type == tea.KeySpace {
			ch := keyText(msg)
			q := m.store.Query()
			if ch == " " && q == "" {
				return m, nil
			}
			return m, m.applyQuery(q + ch)
		}
	}
	return m, nil
}

// applyQuery records a query edit and, when a remote search is needed,
// restarts the debounce window. The token makes superseded timers and
// late responses no-ops.
func (m *ItemsModel) applyQuery(query string) tea.Cmd {
	needRemote, token := m.store.SetQuery(query)
	if !needRemote {
		m.refreshRows(true)
		return nil
	}
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{token: token}
	})
}

func (m ItemsModel) searchCmd(token int) tea.Cmd {
	query := strings.TrimSpace(m.store.Query())
	topK := m.topK
	return func() tea.Msg {
		items, err := m.client.SemanticSearch(query, topK)
		if err != nil {
			return searchFailedMsg{token: token, err: err}
		}
		return searchResultsMsg{token: token, items: items}
	}
}

func (m *ItemsModel) clearQuery() {
	m.store.ClearQuery()
	m.refreshRows(true)
}

func (m ItemsModel) handleFilterKeys(msg tea.KeyMsg) (ItemsModel, tea.Cmd) {
	filters := m.store.Filters()
	switch {
	case isBack(msg), isEnter(msg):
		m.filtering = false
		return m, nil
	case isUp(msg):
		if m.filterCursor > 0 {
			m.filterCursor--
		}
		return m, nil
	case isDown(msg):
		if m.filterCursor < len(m.filterTags)-1 {
			m.filterCursor++
		}
		return m, nil
	case isKey(msg, " "):
		if m.filterCursor < len(m.filterTags) {
			filters = filters.ToggleTag(m.filterTags[m.filterCursor])
		}
	case isKey(msg, "t"):
		filters.Type = nextType(filters.Type)
	case isKey(msg, "s"):
		if filters.SortBy == store.SortByDate {
			filters.SortBy = store.SortByTitle
		} else {
			filters.SortBy = store.SortByDate
		}
	case isKey(msg, "o"):
		if filters.SortOrder == store.SortDesc {
			filters.SortOrder = store.SortAsc
		} else {
			filters.SortOrder = store.SortDesc
		}
	case isKey(msg, "c"):
		filters.Tags = nil
	default:
		return m, nil
	}
	m.store.SetFilters(filters)
	m.refreshRows(true)
	return m, nil
}

func nextType(t store.ItemType) store.ItemType {
	switch t {
	case store.TypeAll:
		return store.TypeText
	case store.TypeText:
		return store.TypePDF
	default:
		return store.TypeAll
	}
}

func (m ItemsModel) handleDetailKeys(msg tea.KeyMsg) (ItemsModel, tea.Cmd) {
	item := m.store.Selected()
	if item == nil {
		m.view = itemsViewList
		return m, nil
	}
	switch {
	case isBack(msg):
		m.store.ClearSelection()
		m.view = itemsViewList
		m.detailOffset = 0
	case isUp(msg):
		if m.detailOffset > 0 {
			m.detailOffset--
		}
	case isDown(msg):
		m.detailOffset++
	case isKey(msg, "e"):
		return m.enterEdit(*item)
	case isKey(msg, "d"):
		target := *item
		m.deleting = &target
	case isKey(msg, "x"):
		return m, m.downloadCmd(*item)
	}
	return m, nil
}

// enterEdit opens the edit form, refusing PDF-backed items before any
// network traffic happens.
func (m ItemsModel) enterEdit(item api.KnowledgeItem) (ItemsModel, tea.Cmd) {
	if err := m.store.CanEdit(item); err != nil {
		return m, showToast(toastError, err.Error())
	}
	m.store.Select(item)
	m.view = itemsViewEdit
	m.editFocus = editFieldTitle
	m.editErr = ""
	m.editFields[editFieldTitle].value = item.Title
	m.editFields[editFieldTags].value = joinTags(item.Tags)
	m.editFields[editFieldContent].value = item.TextContent
	return m, nil
}

func (m ItemsModel) handleEditKeys(msg tea.KeyMsg) (ItemsModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	switch {
	case isBack(msg):
		m.store.ClearSelection()
		m.view = itemsViewList
		m.editErr = ""
	case isUp(msg):
		if m.editFocus > 0 {
			m.editFocus--
		}
	case isDown(msg), isKey(msg, "tab"):
		if m.editFocus < editFieldCount-1 {
			m.editFocus++
		}
	case isKey(msg, "ctrl+s"):
		return m.submitEdit()
	case isEnter(msg):
		if m.editFocus == editFieldContent {
			m.editFields[editFieldContent].value += "\n"
		} else if m.editFocus < editFieldCount-1 {
			m.editFocus++
		}
	case isKey(msg, "backspace", "delete"):
		v := m.editFields[m.editFocus].value
		if v != "" {
			m.editFields[m.editFocus].value = trimLastRune(v)
		}
	default:
		if len(msg.Runes) > 0 || msg.Type == tea.KeySpace {
			m.editFields[m.editFocus].value += keyText(msg)
		}
	}
	return m, nil
}

func (m ItemsModel) submitEdit() (ItemsModel, tea.Cmd) {
	item := m.store.Selected()
	if item == nil {
		m.view = itemsViewList
		return m, nil
	}
	input := api.UpdateInput{
		Title:   strings.TrimSpace(m.editFields[editFieldTitle].value),
		Content: m.editFields[editFieldContent].value,
		Tags:    strings.TrimSpace(m.editFields[editFieldTags].value),
	}
	if err := validateNoteInput(input.Title, input.Content); err != nil {
		m.editErr = err.Error()
		return m, nil
	}
	m.editErr = ""
	m.submitting = true
	id := item.ID
	client := m.client
	return m, func() tea.Msg {
		updated, err := client.UpdateItem(id, input)
		if err != nil {
			return itemUpdateFailedMsg{err: err}
		}
		return itemUpdatedMsg{item: *updated}
	}
}

func (m ItemsModel) deleteCmd(id int) tea.Cmd {
	return func() tea.Msg {
		if err := m.client.DeleteItem(id); err != nil {
			// A 404 means someone beat us to it; the outcome the user
			// asked for holds either way.
			if api.IsNotFound(err) {
				return itemDeletedMsg{id: id}
			}
			return itemDeleteFailedMsg{err: err}
		}
		return itemDeletedMsg{id: id}
	}
}

func (m ItemsModel) downloadCmd(item api.KnowledgeItem) tea.Cmd {
	return func() tea.Msg {
		var (
			data []byte
			err  error
			path string
		)
		if item.IsPDF() {
			data, err = m.client.DownloadPDF(item.ID)
			path = item.OriginalFilename
		} else {
			data, err = m.client.DownloadNotePDF(item.ID)
			path = fmt.Sprintf("note_%d.pdf", item.ID)
		}
		if err != nil {
			return pdfSaveFailedMsg{err: err}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return pdfSaveFailedMsg{err: err}
		}
		return pdfSavedMsg{path: path}
	}
}

// refreshRows mirrors the store's display set into the list widget.
func (m *ItemsModel) refreshRows(resetCursor bool) {
	display := m.store.Display()
	labels := make([]string, len(display))
	for i, item := range display {
		labels[i] = formatItemLine(item)
	}
	if resetCursor {
		m.list.SetItems(labels)
	} else {
		m.list.ReplaceItems(labels)
	}
}

// reset drops transient screen state when the tab is navigated away
// from: selection, open sub-views, and any pending search tokens.
func (m *ItemsModel) reset() {
	m.view = itemsViewList
	m.searching = false
	m.filtering = false
	m.deleting = nil
	m.detailOffset = 0
	m.editErr = ""
	m.store.ClearSelection()
	m.store.CancelSearch()
}

// --- View ---

func (m ItemsModel) View() string {
	if m.deleting != nil {
		title := components.SanitizeOneLine(m.deleting.Title)
		return components.Indent(components.ConfirmDialog(
			"Delete item",
			fmt.Sprintf("Delete %q? This cannot be undone.", title),
		), 1)
	}
	switch m.view {
	case itemsViewDetail:
		return m.viewDetail()
	case itemsViewEdit:
		return m.viewEdit()
	}
	if m.filtering {
		return m.viewFilter()
	}
	return m.viewList()
}

func (m ItemsModel) viewList() string {
	var b strings.Builder

	query := components.SanitizeOneLine(m.store.Query())
	prompt := "  / " + query
	if m.searching {
		prompt += AccentStyle.Render("█")
	}
	b.WriteString(prompt)
	b.WriteString("\n")
	b.WriteString(MutedStyle.Render("  " + m.filterSummary()))
	b.WriteString("\n\n")

	display := m.store.Display()
	switch {
	case m.store.Loading():
		b.WriteString(MutedStyle.Render("Loading..."))
	case len(display) == 0 && m.store.SearchActive():
		b.WriteString(MutedStyle.Render("No results."))
	case len(display) == 0 && m.store.Filters().Active():
		b.WriteString(MutedStyle.Render("Nothing matches the current filters."))
	case len(display) == 0:
		b.WriteString(MutedStyle.Render("No knowledge items yet. Add one from the Add tab."))
	default:
		contentWidth := components.BoxContentWidth(m.width)
		visible := m.list.Visible()
		for i, label := range visible {
			if contentWidth > 4 {
				label = components.ClampTextWidth(label, contentWidth-4)
			}
			absIdx := m.list.RelToAbs(i)
			if m.list.IsSelected(absIdx) {
				b.WriteString(SelectedStyle.Render("  > " + label))
			} else {
				b.WriteString(NormalStyle.Render("    " + label))
			}
			if i < len(visible)-1 {
				b.WriteString("\n")
			}
		}
	}

	return components.Indent(components.TitledBox("Knowledge Items", b.String(), m.width), 1)
}

func (m ItemsModel) filterSummary() string {
	filters := m.store.Filters()
	parts := []string{"type: " + string(filters.Type)}
	if len(filters.Tags) > 0 {
		parts = append(parts, "tags: "+strings.Join(filters.Tags, ","))
	}
	order := filters.SortOrder
	if order == "" {
		order = store.SortDesc
	}
	parts = append(parts, fmt.Sprintf("sort: %s %s", filters.SortBy, order))
	if m.store.SearchActive() {
		if m.store.SemanticEnabled() {
			parts = append(parts, "semantic search")
		} else {
			parts = append(parts, "local search")
		}
	}
	return strings.Join(parts, " · ")
}

func (m ItemsModel) viewFilter() string {
	filters := m.store.Filters()
	var b strings.Builder
	b.WriteString(components.InfoRow("Type", string(filters.Type)) + MutedStyle.Render("  (t)"))
	b.WriteString("\n")
	b.WriteString(components.InfoRow("Sort", filters.SortBy+" "+filters.SortOrder) + MutedStyle.Render("  (s/o)"))
	b.WriteString("\n\n")

	if len(m.filterTags) == 0 {
		b.WriteString(MutedStyle.Render("No tags in the collection yet."))
	} else {
		b.WriteString(MutedStyle.Render("Tags (space to toggle, c to clear):"))
		b.WriteString("\n")
		for i, tag := range m.filterTags {
			mark := "[ ]"
			if filters.HasTag(tag) {
				mark = "[x]"
			}
			line := fmt.Sprintf("%s %s", mark, components.SanitizeOneLine(tag))
			if i == m.filterCursor {
				b.WriteString(SelectedStyle.Render("  > " + line))
			} else {
				b.WriteString(NormalStyle.Render("    " + line))
			}
			if i < len(m.filterTags)-1 {
				b.WriteString("\n")
			}
		}
	}

	return components.Indent(components.TitledBox("Filters", b.String(), m.width), 1)
}

func (m ItemsModel) viewDetail() string {
	item := m.store.Selected()
	if item == nil {
		return m.viewList()
	}

	kind := "Text note"
	if item.IsPDF() {
		kind = "PDF document"
	}

	var b strings.Builder
	b.WriteString(components.InfoRow("Title", item.Title))
	b.WriteString("\n")
	b.WriteString(components.InfoRow("Kind", kind))
	if item.IsPDF() {
		b.WriteString("\n")
		b.WriteString(components.InfoRow("File", item.OriginalFilename))
	}
	if len(item.Tags) > 0 {
		b.WriteString("\n")
		b.WriteString(components.InfoRow("Tags", joinTags(item.Tags)))
	}
	b.WriteString("\n")
	b.WriteString(components.InfoRow("Created", formatDate(item.CreatedAt)))
	// Identical timestamps mean the item was never edited; showing a
	// "modified" row would just repeat the creation date.
	if item.UpdatedAt != item.CreatedAt {
		b.WriteString("\n")
		b.WriteString(components.InfoRow("Modified", formatDate(item.UpdatedAt)))
	}
	b.WriteString("\n\n")

	lines := strings.Split(components.SanitizeText(item.TextContent), "\n")
	offset := m.detailOffset
	if offset > len(lines)-1 {
		offset = len(lines) - 1
	}
	if offset < 0 {
		offset = 0
	}
	pageSize := 14
	end := offset + pageSize
	if end > len(lines) {
		end = len(lines)
	}
	b.WriteString(NormalStyle.Render(strings.Join(lines[offset:end], "\n")))
	if end < len(lines) {
		b.WriteString("\n" + MutedStyle.Render("…"))
	}

	return components.Indent(components.TitledBox(kind, b.String(), m.width), 1)
}

func (m ItemsModel) viewEdit() string {
	var b strings.Builder
	for i, f := range m.editFields {
		cursor := "  "
		if i == m.editFocus {
			cursor = SelectedStyle.Render("> ")
		}
		value := f.value
		if i == m.editFocus && !m.submitting {
			value += "█"
		}
		b.WriteString(cursor + MutedStyle.Render(f.label+": ") + NormalStyle.Render(components.SanitizeText(value)))
		if i < len(m.editFields)-1 {
			b.WriteString("\n")
		}
	}
	if m.submitting {
		b.WriteString("\n\n" + MutedStyle.Render("Saving..."))
	}
	if m.editErr != "" {
		b.WriteString("\n\n" + ErrorStyle.Render(m.editErr))
	}
	return components.Indent(components.TitledBox("Edit Note", b.String(), m.width), 1)
}

// --- Helpers ---

func trimLastRune(s string) string {
	runes := []rune(s)
	return string(runes[:len(runes)-1])
}

func keyText(msg tea.KeyMsg) string {
	if msg.Type == tea.KeySpace {
		return " "
	}
	return string(msg.Runes)
}

package store

import (
	"errors"

	"github.com/marcinsik/knowledge-assistant/internal/api"
)

// ErrPDFImmutable is returned when an edit targets a PDF-backed item.
// The guard runs before any network call.
var ErrPDFImmutable = errors.New("PDF documents cannot be edited")

// Store is the client-side cache of the remote collection plus the
// derived display set. It is mutated only from the UI event loop
// (single-writer); network calls happen elsewhere and feed results
// back in through the Apply/Fail methods.
//
// The display set is always derivable from either the full cache via
// Filter, or from the latest accepted semantic search result via
// ApplySearchFilters. It is never an independently drifted third state.
type Store struct {
	items   []api.KnowledgeItem
	display []api.KnowledgeItem

	// searchResults is the latest accepted semantic result set, kept so
	// filter changes can re-narrow it without a new request.
	searchResults []api.KnowledgeItem

	filters  FilterState
	search   Search
	semantic bool

	selected *api.KnowledgeItem

	loading bool
	loaded  bool
	lastErr string
}

// New creates an empty store with default filters. Semantic search is
// on by default; Settings can switch to purely local filtering.
func New() *Store {
	return &Store{
		filters:  DefaultFilterState(),
		semantic: true,
	}
}

// --- Accessors ---

func (s *Store) Items() []api.KnowledgeItem   { return s.items }
func (s *Store) Display() []api.KnowledgeItem { return s.display }
func (s *Store) Filters() FilterState         { return s.filters }
func (s *Store) Query() string                { return s.search.Query() }
func (s *Store) SearchActive() bool           { return s.search.Active() }
func (s *Store) SemanticEnabled() bool        { return s.semantic }
func (s *Store) Loading() bool                { return s.loading }
func (s *Store) LastError() string            { return s.lastErr }

// Loaded reports whether a reload has ever succeeded. An empty display
// before the first successful load means "nothing fetched yet", not
// "collection is empty".
func (s *Store) Loaded() bool { return s.loaded }

// Selected returns the currently selected item, if any.
func (s *Store) Selected() *api.KnowledgeItem { return s.selected }

// AvailableTags lists the unique tags across the full cache.
func (s *Store) AvailableTags() []string { return AvailableTags(s.items) }

// --- Reload ---

// BeginReload marks the store as loading.
func (s *Store) BeginReload() {
	s.loading = true
}

// ApplyReload replaces the cache wholesale with a fresh server list.
func (s *Store) ApplyReload(items []api.KnowledgeItem) {
	s.loading = false
	s.loaded = true
	s.lastErr = ""
	s.items = items
	s.searchResults = nil
	// A reload supersedes any provisional local patches and any
	// in-flight search.
	s.search.Cancel()
	s.recomputeLocal()
}

// FailReload records the error and keeps any stale items visible. The
// full-page connection error is only for the never-loaded case; with
// cached data the UI shows a toast and the existing list.
func (s *Store) FailReload(err error) {
	s.loading = false
	s.lastErr = err.Error()
}

// --- Mutations ---

// Add inserts a freshly created item at the head of the cache. The
// display set picks it up immediately unless a search query is active,
// in which case it will appear once the query clears or the next
// search runs.
func (s *Store) Add(item api.KnowledgeItem) {
	s.items = append([]api.KnowledgeItem{item}, s.items...)
	if !s.search.Active() {
		s.recomputeLocal()
	}
}

// CanEdit reports whether the item accepts text edits.
func (s *Store) CanEdit(item api.KnowledgeItem) error {
	if item.IsPDF() {
		return ErrPDFImmutable
	}
	return nil
}

// ApplyUpdate replaces the matching item everywhere it is cached and
// refreshes the selection so an open detail view shows the edit.
func (s *Store) ApplyUpdate(item api.KnowledgeItem) {
	replaceByID(s.items, item)
	replaceByID(s.display, item)
	replaceByID(s.searchResults, item)
	if s.selected != nil && s.selected.ID == item.ID {
		updated := item
		s.selected = &updated
	}
}

// ApplyDelete removes the item from every cached set and clears the
// selection if it pointed at the deleted item.
func (s *Store) ApplyDelete(id int) {
	s.items = removeByID(s.items, id)
	s.display = removeByID(s.display, id)
	s.searchResults = removeByID(s.searchResults, id)
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
}

// --- Selection ---

// Select marks an item as the current detail selection.
func (s *Store) Select(item api.KnowledgeItem) {
	selected := item
	s.selected = &selected
}

// ClearSelection drops the current selection.
func (s *Store) ClearSelection() {
	s.selected = nil
}

// --- Filtering and search ---

// SetFilters replaces the filter configuration wholesale and
// re-derives the display set from whichever source is current.
func (s *Store) SetFilters(filters FilterState) {
	s.filters = filters
	if s.remoteMode() {
		s.display = ApplySearchFilters(s.searchResults, s.filters)
		return
	}
	s.recomputeLocal()
}

// SetSemantic switches between remote semantic search and local
// substring filtering for non-empty queries.
func (s *Store) SetSemantic(enabled bool) {
	s.semantic = enabled
	s.search.Cancel()
	s.searchResults = nil
	s.recomputeLocal()
}

// SetQuery records a query edit. When the trimmed query is empty, or
// semantic search is disabled, the display set is recomputed locally
// and no request is needed. Otherwise the caller must debounce and
// then ask ShouldSearch with the returned token before firing.
func (s *Store) SetQuery(query string) (needRemote bool, token int) {
	token = s.search.SetQuery(query)
	if !s.search.Active() {
		s.searchResults = nil
		s.recomputeLocal()
		return false, token
	}
	if !s.semantic {
		s.recomputeLocal()
		return false, token
	}
	return true, token
}

// ShouldSearch reports whether a fired debounce timer is still
// current. Timers superseded by a newer query edit are dropped.
func (s *Store) ShouldSearch(token int) bool {
	return s.semantic && s.search.Current(token) && s.search.Active()
}

// ApplySearchResults installs a semantic result set, narrowed by the
// tag/type/sort criteria but not the substring test. Stale responses
// (token no longer current) are discarded and the method reports false.
func (s *Store) ApplySearchResults(token int, items []api.KnowledgeItem) bool {
	if !s.search.Current(token) {
		return false
	}
	s.searchResults = items
	s.display = ApplySearchFilters(items, s.filters)
	return true
}

// FailSearch empties the display set for a failed current search so
// the failure is visibly different from "no results". It never falls
// back to local filtering. Stale failures are discarded.
func (s *Store) FailSearch(token int) bool {
	if !s.search.Current(token) {
		return false
	}
	s.searchResults = nil
	s.display = nil
	return true
}

// CancelSearch invalidates outstanding search tokens, e.g. when the
// list view is torn down.
func (s *Store) CancelSearch() {
	s.search.Cancel()
}

// ClearQuery resets the query and returns to local filtering.
func (s *Store) ClearQuery() {
	s.search.SetQuery("")
	s.searchResults = nil
	s.recomputeLocal()
}

func (s *Store) remoteMode() bool {
	return s.semantic && s.search.Active()
}

// recomputeLocal derives the display set from the full cache. In
// semantic mode the query never reaches the local engine; with
// semantic search off it narrows by substring too.
func (s *Store) recomputeLocal() {
	query := ""
	if !s.semantic {
		query = s.search.Query()
	}
	s.display = Filter(s.items, query, s.filters)
}

func replaceByID(items []api.KnowledgeItem, item api.KnowledgeItem) {
	for i := range items {
		if items[i].ID == item.ID {
			items[i] = item
		}
	}
}

func removeByID(items []api.KnowledgeItem, id int) []api.KnowledgeItem {
	if items == nil {
		return nil
	}
	out := items[:0]
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

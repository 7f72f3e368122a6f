package store

import (
	"sort"
	"strings"

	"github.com/marcinsik/knowledge-assistant/internal/api"
)

// ItemType narrows the collection to notes, PDFs, or both.
type ItemType string

const (
	TypeAll  ItemType = "all"
	TypeText ItemType = "text"
	TypePDF  ItemType = "pdf"
)

// Sort keys and orders for the display set.
const (
	SortByDate  = "date"
	SortByTitle = "title"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// FilterState is the current filter/sort configuration. It is a plain
// value replaced wholesale on every UI change.
type FilterState struct {
	Tags      []string
	Type      ItemType
	SortBy    string
	SortOrder string
}

// DefaultFilterState matches the initial UI state: everything visible,
// newest first.
func DefaultFilterState() FilterState {
	return FilterState{
		Type:      TypeAll,
		SortBy:    SortByDate,
		SortOrder: SortDesc,
	}
}

// HasTag reports whether the tag is currently selected.
func (f FilterState) HasTag(tag string) bool {
	for _, t := range f.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ToggleTag returns a copy with the tag selected or deselected.
func (f FilterState) ToggleTag(tag string) FilterState {
	out := f
	if f.HasTag(tag) {
		tags := make([]string, 0, len(f.Tags)-1)
		for _, t := range f.Tags {
			if t != tag {
				tags = append(tags, t)
			}
		}
		out.Tags = tags
		return out
	}
	out.Tags = append(append([]string(nil), f.Tags...), tag)
	return out
}

// Active reports whether any narrowing filter is set.
func (f FilterState) Active() bool {
	return len(f.Tags) > 0 || (f.Type != "" && f.Type != TypeAll)
}

// Filter returns the ordered subset of items matching the query and
// filter configuration. The input slice is never mutated.
//
// A whitespace-only query counts as empty. Query matching is a
// case-insensitive substring test against title, body, and each tag.
// Selected tags use OR semantics. Sorting is stable: items with equal
// keys keep their input order.
func Filter(items []api.KnowledgeItem, query string, filters FilterState) []api.KnowledgeItem {
	out := make([]api.KnowledgeItem, 0, len(items))
	query = strings.TrimSpace(query)
	for _, item := range items {
		if query != "" && !matchesQuery(item, query) {
			continue
		}
		if len(filters.Tags) > 0 && !matchesAnyTag(item, filters.Tags) {
			continue
		}
		if !matchesType(item, filters.Type) {
			continue
		}
		out = append(out, item)
	}
	SortItems(out, filters)
	return out
}

// ApplySearchFilters narrows a semantic result set with the tag, type,
// and sort criteria, skipping the substring test: the server ranking
// already encodes relevance. Sorting is stable over the server order.
func ApplySearchFilters(items []api.KnowledgeItem, filters FilterState) []api.KnowledgeItem {
	out := make([]api.KnowledgeItem, 0, len(items))
	for _, item := range items {
		if len(filters.Tags) > 0 && !matchesAnyTag(item, filters.Tags) {
			continue
		}
		if !matchesType(item, filters.Type) {
			continue
		}
		out = append(out, item)
	}
	SortItems(out, filters)
	return out
}

// SortItems orders items in place by the configured key and direction.
func SortItems(items []api.KnowledgeItem, filters FilterState) {
	desc := filters.SortOrder == SortDesc
	sort.SliceStable(items, func(i, j int) bool {
		var less, greater bool
		if filters.SortBy == SortByTitle {
			less = items[i].Title < items[j].Title
			greater = items[i].Title > items[j].Title
		} else {
			ti, tj := items[i].UpdatedTime(), items[j].UpdatedTime()
			less = ti.Before(tj)
			greater = ti.After(tj)
		}
		if desc {
			return greater
		}
		return less
	})
}

// AvailableTags returns the unique tags across the item set, sorted.
func AvailableTags(items []api.KnowledgeItem) []string {
	seen := map[string]struct{}{}
	var tags []string
	for _, item := range items {
		for _, tag := range item.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}

func matchesQuery(item api.KnowledgeItem, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(item.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(item.TextContent), q) {
		return true
	}
	for _, tag := range item.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func matchesAnyTag(item api.KnowledgeItem, selected []string) bool {
	for _, want := range selected {
		for _, have := range item.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

func matchesType(item api.KnowledgeItem, t ItemType) bool {
	switch t {
	case TypePDF:
		return item.IsPDF()
	case TypeText:
		return !item.IsPDF()
	default:
		return true
	}
}

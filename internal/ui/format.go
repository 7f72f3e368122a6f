package ui

import (
	"fmt"
	"strings"

	"github.com/marcinsik/knowledge-assistant/internal/api"
	"github.com/marcinsik/knowledge-assistant/internal/ui/components"
)

// formatItemLine builds a single list row: title, kind badge, tags,
// and last-updated date.
func formatItemLine(item api.KnowledgeItem) string {
	title := components.SanitizeOneLine(item.Title)
	if title == "" {
		title = fmt.Sprintf("item %d", item.ID)
	}
	kind := "text"
	if item.IsPDF() {
		kind = "pdf"
	}
	parts := []string{title, MutedStyle.Render(kind)}
	if len(item.Tags) > 0 {
		parts = append(parts, MutedStyle.Render("#"+strings.Join(item.Tags, " #")))
	}
	if date := formatDate(item.UpdatedAt); date != "" {
		parts = append(parts, MutedStyle.Render(date))
	}
	return strings.Join(parts, "  ")
}

// formatDate renders a server timestamp as a short date, or empty when
// it cannot be parsed.
func formatDate(value string) string {
	t := api.KnowledgeItem{UpdatedAt: value}.UpdatedTime()
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// joinTags renders tags the way forms accept them: comma separated.
func joinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

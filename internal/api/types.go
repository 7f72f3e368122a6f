package api

import "time"

// KnowledgeItem is a note or uploaded PDF owned by the remote service.
// The client holds cached copies only; the server is authoritative,
// including for the embedding vectors, which pass through untouched.
type KnowledgeItem struct {
	ID               int       `json:"id"`
	Title            string    `json:"title"`
	TextContent      string    `json:"text_content"`
	OriginalFilename string    `json:"original_filename,omitempty"`
	Tags             []string  `json:"tags"`
	Embedding        []float64 `json:"embedding,omitempty"`
	TagsEmbedding    []float64 `json:"tags_embedding,omitempty"`
	CreatedAt        string    `json:"created_at"`
	UpdatedAt        string    `json:"updated_at"`
}

// IsPDF reports whether the item is backed by an uploaded PDF.
// PDF-backed items are immutable with respect to text editing.
func (k KnowledgeItem) IsPDF() bool {
	return k.OriginalFilename != ""
}

// UpdatedTime parses the item's updated_at timestamp.
func (k KnowledgeItem) UpdatedTime() time.Time {
	return parseServerTime(k.UpdatedAt)
}

// CreatedTime parses the item's created_at timestamp.
func (k KnowledgeItem) CreatedTime() time.Time {
	return parseServerTime(k.CreatedAt)
}

// serverTimeLayouts covers the timestamp shapes the backend emits:
// RFC 3339, naive ISO without timezone, and bare dates.
var serverTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseServerTime(value string) time.Time {
	for _, layout := range serverTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// CreateTextInput are the fields for a new text note. Tags travel as
// one comma-joined string; the server splits it.
type CreateTextInput struct {
	Title   string
	Content string
	Tags    string
}

// CreatePDFInput are the fields for a PDF upload.
type CreatePDFInput struct {
	Title    string
	Filename string
	PDF      []byte
	Tags     string
}

// UpdateInput are the fields for editing a text note. The server
// replaces all mutable fields wholesale.
type UpdateInput struct {
	Title   string
	Content string
	Tags    string
}

// HealthStatus is the /health probe response.
type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

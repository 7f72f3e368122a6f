package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// --- Knowledge Item Methods ---

// ListItems fetches the full item collection.
func (c *Client) ListItems() ([]KnowledgeItem, error) {
	data, err := c.get("/api/knowledge_items")
	if err != nil {
		return nil, err
	}
	return decodeList[KnowledgeItem](data)
}

// UploadText creates a new text note. The server assigns id and
// timestamps and computes the embeddings.
func (c *Client) UploadText(input CreateTextInput) (*KnowledgeItem, error) {
	fields := map[string]string{
		"title":   input.Title,
		"content": input.Content,
	}
	if input.Tags != "" {
		fields["tags"] = input.Tags
	}
	data, err := c.submitForm(http.MethodPost, "/api/knowledge_items/upload_text", fields, nil)
	if err != nil {
		return nil, err
	}
	return decodeOne[KnowledgeItem](data)
}

// UploadPDF uploads a PDF document. Text extraction happens server-side.
func (c *Client) UploadPDF(input CreatePDFInput) (*KnowledgeItem, error) {
	fields := map[string]string{
		"title": input.Title,
	}
	if input.Tags != "" {
		fields["tags"] = input.Tags
	}
	file := &formFile{
		field:  "pdf_file",
		name:   input.Filename,
		reader: bytes.NewReader(input.PDF),
	}
	data, err := c.submitForm(http.MethodPost, "/api/knowledge_items/upload_pdf", fields, file)
	if err != nil {
		return nil, err
	}
	return decodeOne[KnowledgeItem](data)
}

// UpdateItem replaces a text note's mutable fields. Behaviour is
// undefined for PDF-backed items; callers guard before reaching here.
func (c *Client) UpdateItem(id int, input UpdateInput) (*KnowledgeItem, error) {
	fields := map[string]string{
		"title":   input.Title,
		"content": input.Content,
	}
	if input.Tags != "" {
		fields["tags"] = input.Tags
	}
	data, err := c.submitForm(http.MethodPut, fmt.Sprintf("/api/knowledge_items/%d", id), fields, nil)
	if err != nil {
		return nil, err
	}
	return decodeOne[KnowledgeItem](data)
}

// DeleteItem deletes an item by id. The server exposes delete as a GET
// endpoint; that is its contract, not ours to fix.
func (c *Client) DeleteItem(id int) error {
	_, err := c.get(fmt.Sprintf("/api/knowledge_items/delete/%d", id))
	return err
}

// SemanticSearch runs an embedding-based search ranked by server-side
// relevance. The server applies its own similarity threshold; the
// returned order is the relevance order and must be preserved.
func (c *Client) SemanticSearch(query string, topK int) ([]KnowledgeItem, error) {
	if topK <= 0 {
		topK = 10
	}
	path := buildQuery("/api/knowledge_items/semantic_search", url.Values{
		"query": {query},
		"top_k": {strconv.Itoa(topK)},
	})
	data, err := c.get(path)
	if err != nil {
		return nil, err
	}
	return decodeList[KnowledgeItem](data)
}

// PDFDownloadURL is the download location for an item's original PDF.
func (c *Client) PDFDownloadURL(id int) string {
	return fmt.Sprintf("%s/api/knowledge_items/pdf/%d", c.baseURL, id)
}

// NotePDFDownloadURL is the download location for a text note rendered
// to PDF by the server.
func (c *Client) NotePDFDownloadURL(id int) string {
	return fmt.Sprintf("%s/api/knowledge_items/note_pdf/%d", c.baseURL, id)
}

// DownloadPDF fetches an item's original PDF bytes.
func (c *Client) DownloadPDF(id int) ([]byte, error) {
	return c.get(fmt.Sprintf("/api/knowledge_items/pdf/%d", id))
}

// DownloadNotePDF fetches a text note rendered to PDF by the server.
func (c *Client) DownloadNotePDF(id int) ([]byte, error) {
	return c.get(fmt.Sprintf("/api/knowledge_items/note_pdf/%d", id))
}

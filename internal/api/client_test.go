package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewClient(srv.URL)
}

func itemJSON(id int, title string) map[string]any {
	return map[string]any{
		"id":         id,
		"title":      title,
		"text_content": "body",
		"tags":       []string{"go"},
		"created_at": "2024-01-01T10:00:00",
		"updated_at": "2024-01-01T10:00:00",
	}
}

func TestListItems(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/knowledge_items", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]any{
			itemJSON(1, "Go Basics"),
			itemJSON(2, "Async Patterns"),
		})
	})

	items, err := client.ListItems()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].ID)
	assert.Equal(t, "Go Basics", items[0].Title)
	assert.Equal(t, []string{"go"}, items[0].Tags)
}

func TestUploadTextSendsMultipart(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/knowledge_items/upload_text", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "My Note", r.FormValue("title"))
		assert.Equal(t, "some content", r.FormValue("content"))
		assert.Equal(t, "go,testing", r.FormValue("tags"))
		json.NewEncoder(w).Encode(itemJSON(7, "My Note"))
	})

	item, err := client.UploadText(CreateTextInput{
		Title:   "My Note",
		Content: "some content",
		Tags:    "go,testing",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, item.ID)
}

func TestUploadTextOmitsEmptyTags(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, ok := r.MultipartForm.Value["tags"]
		assert.False(t, ok, "tags field should be absent when empty")
		json.NewEncoder(w).Encode(itemJSON(1, "t"))
	})

	_, err := client.UploadText(CreateTextInput{Title: "t", Content: "c"})
	require.NoError(t, err)
}

func TestUploadPDFSendsFilePart(t *testing.T) {
	pdfBytes := []byte("%PDF-1.4 fake")
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/knowledge_items/upload_pdf", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Paper", r.FormValue("title"))

		file, header, err := r.FormFile("pdf_file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "paper.pdf", header.Filename)
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, pdfBytes, data)

		resp := itemJSON(3, "Paper")
		resp["original_filename"] = "paper.pdf"
		json.NewEncoder(w).Encode(resp)
	})

	item, err := client.UploadPDF(CreatePDFInput{
		Title:    "Paper",
		Filename: "paper.pdf",
		PDF:      pdfBytes,
	})
	require.NoError(t, err)
	assert.True(t, item.IsPDF())
}

func TestUpdateItemUsesPut(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/knowledge_items/5", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Renamed", r.FormValue("title"))
		json.NewEncoder(w).Encode(itemJSON(5, "Renamed"))
	})

	item, err := client.UpdateItem(5, UpdateInput{Title: "Renamed", Content: "body"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", item.Title)
}

func TestDeleteItemUsesGetEndpoint(t *testing.T) {
	var gotPath string
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		gotPath = r.URL.Path
		w.Write([]byte(`{"message":"deleted"}`))
	})

	require.NoError(t, client.DeleteItem(9))
	assert.Equal(t, "/api/knowledge_items/delete/9", gotPath)
}

func TestDeleteItemNotFound(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Knowledge item not found"}`))
	})

	err := client.DeleteItem(404)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "Knowledge item not found")
}

func TestSemanticSearchParams(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/knowledge_items/semantic_search", r.URL.Path)
		assert.Equal(t, "goroutine leaks", r.URL.Query().Get("query"))
		assert.Equal(t, "5", r.URL.Query().Get("top_k"))
		json.NewEncoder(w).Encode([]map[string]any{itemJSON(1, "Go Basics")})
	})

	items, err := client.SemanticSearch("goroutine leaks", 5)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestSemanticSearchDefaultTopK(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("top_k"))
		json.NewEncoder(w).Encode([]map[string]any{})
	})

	_, err := client.SemanticSearch("anything", 0)
	require.NoError(t, err)
}

func TestServerErrorDetail(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"title must not be empty"}`))
	})

	_, err := client.ListItems()
	require.Error(t, err)
	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusUnprocessableEntity, serverErr.Status)
	assert.Equal(t, "title must not be empty", serverErr.Detail)
}

func TestServerErrorWithoutDetailBody(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	})

	_, err := client.ListItems()
	require.Error(t, err)
	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusInternalServerError, serverErr.Status)
}

func TestTransportError(t *testing.T) {
	srv, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := client.ListItems()
	require.Error(t, err)
	var serverErr *ServerError
	assert.False(t, errors.As(err, &serverErr), "transport failures are not server errors")
}

func TestHealth(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok", "message": "all good"})
	})

	status, err := client.Health()
	require.NoError(t, err)
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "all good", status.Message)
}

func TestDownloadPDF(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/knowledge_items/pdf/3", r.URL.Path)
		w.Write([]byte("%PDF-1.4"))
	})

	data, err := client.DownloadPDF(3)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)
}

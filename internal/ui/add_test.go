package ui

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSubmitValidatesBeforeNetwork(t *testing.T) {
	model := NewAddModel(nil)
	model.fields[addFieldBody] = "content without a title"

	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)
	assert.NotEmpty(t, model.formErr)
	assert.False(t, model.submitting)
}

func TestAddSubmitCreatesNote(t *testing.T) {
	client := itemsTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/knowledge_items/upload_text", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "My Note", r.FormValue("title"))
		assert.Equal(t, "hello", r.FormValue("content"))
		assert.Equal(t, "go,notes", r.FormValue("tags"))
		json.NewEncoder(w).Encode(map[string]any{
			"id": 9, "title": "My Note", "text_content": "hello",
			"tags": []string{"go", "notes"}, "updated_at": "2024-03-01",
		})
	})
	model := NewAddModel(client)
	model.fields[addFieldTitle] = "My Note"
	model.fields[addFieldBody] = "hello"
	model.fields[addFieldTags] = "go,notes"

	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.True(t, model.submitting)

	msg := cmd()
	created, ok := msg.(itemCreatedMsg)
	require.True(t, ok)
	assert.Equal(t, 9, created.item.ID)

	model, _ = model.Update(created)
	assert.False(t, model.submitting)
	assert.Empty(t, model.fields[addFieldTitle], "the form resets after a successful create")
}

func TestAddFailureKeepsTypedValues(t *testing.T) {
	model := NewAddModel(nil)
	model.fields[addFieldTitle] = "My Note"
	model.fields[addFieldBody] = "hello"
	model.submitting = true

	model, cmd := model.Update(itemCreateFailedMsg{err: errors.New("boom")})
	require.NotNil(t, cmd)
	msg, ok := cmd().(toastRequestMsg)
	require.True(t, ok)
	assert.Equal(t, toastError, msg.kind)

	assert.False(t, model.submitting)
	assert.Equal(t, "My Note", model.fields[addFieldTitle])
	assert.Equal(t, "hello", model.fields[addFieldBody])
}

func TestAddSubmitIgnoredWhileInFlight(t *testing.T) {
	model := NewAddModel(nil)
	model.fields[addFieldTitle] = "t"
	model.fields[addFieldBody] = "c"
	model.submitting = true

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd, "no double submission")
}

func TestAddPDFRequiresPDFExtension(t *testing.T) {
	model := NewAddModel(nil)
	model.mode = addModePDF
	model.fields[addFieldTitle] = "Paper"
	model.fields[addFieldBody] = "/tmp/notes.txt"

	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)
	assert.Contains(t, model.formErr, "pdf")
}

func TestAddPDFUploadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paper.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 test"), 0644))

	client := itemsTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/knowledge_items/upload_pdf", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("pdf_file")
		require.NoError(t, err)
		assert.Equal(t, "paper.pdf", header.Filename)
		json.NewEncoder(w).Encode(map[string]any{
			"id": 4, "title": "Paper", "original_filename": "paper.pdf",
			"updated_at": "2024-03-01",
		})
	})
	model := NewAddModel(client)
	model.mode = addModePDF
	model.fields[addFieldTitle] = "Paper"
	model.fields[addFieldBody] = path

	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)

	created, ok := cmd().(itemCreatedMsg)
	require.True(t, ok)
	assert.True(t, created.item.IsPDF())
}

func TestAddModeToggleClearsBody(t *testing.T) {
	model := NewAddModel(nil)
	model.fields[addFieldBody] = "typed content"

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, addModePDF, model.mode)
	assert.Empty(t, model.fields[addFieldBody], "content does not masquerade as a file path")
}

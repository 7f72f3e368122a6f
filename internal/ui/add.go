package ui

import (
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/marcinsik/knowledge-assistant/internal/api"
	"github.com/marcinsik/knowledge-assistant/internal/ui/components"
)

type itemCreatedMsg struct{ item api.KnowledgeItem }
type itemCreateFailedMsg struct{ err error }

type addMode int

const (
	addModeText addMode = iota
	addModePDF
)

// Add form field indices. The second field doubles as content (text
// mode) or file path (pdf mode).
const (
	addFieldTitle = iota
	addFieldBody
	addFieldTags
	addFieldCount
)

// AddModel is the creation form for text notes and PDF uploads.
type AddModel struct {
	client *api.Client

	mode       addMode
	fields     [addFieldCount]string
	focus      int
	submitting bool
	formErr    string

	width int
}

func NewAddModel(client *api.Client) AddModel {
	return AddModel{client: client}
}

func (m AddModel) Update(msg tea.Msg) (AddModel, tea.Cmd) {
	switch msg := msg.(type) {
	case itemCreatedMsg:
		m.submitting = false
		m.formErr = ""
		m.fields = [addFieldCount]string{}
		m.focus = addFieldTitle
		return m, nil

	case itemCreateFailedMsg:
		// Values stay put so nothing typed is lost on a failed submit.
		m.submitting = false
		m.formErr = msg.err.Error()
		return m, showToast(toastError, errText("Create failed", msg.err))

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m AddModel) handleKeys(msg tea.KeyMsg) (AddModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	switch {
	case isKey(msg, "ctrl+t"):
		if m.mode == addModeText {
			m.mode = addModePDF
		} else {
			m.mode = addModeText
		}
		m.fields[addFieldBody] = ""
		m.formErr = ""
	case isUp(msg):
		if m.focus > 0 {
			m.focus--
		}
	case isDown(msg), isKey(msg, "tab"):
		if m.focus < addFieldCount-1 {
			m.focus++
		}
	case isKey(msg, "ctrl+s"):
		return m.submit()
	case isEnter(msg):
		if m.mode == addModeText && m.focus == addFieldBody {
			m.fields[addFieldBody] += "\n"
		} else if m.focus < addFieldCount-1 {
			m.focus++
		} else {
			return m.submit()
		}
	case isKey(msg, "backspace", "delete"):
		if v := m.fields[m.focus]; v != "" {
			m.fields[m.focus] = trimLastRune(v)
		}
	default:
		if len(msg.Runes) > 0 || msg.Type == tea.KeySpace {
			m.fields[m.focus] += keyText(msg)
		}
	}
	return m, nil
}

func (m AddModel) submit() (AddModel, tea.Cmd) {
	title := strings.TrimSpace(m.fields[addFieldTitle])
	body := m.fields[addFieldBody]
	tags := strings.TrimSpace(m.fields[addFieldTags])

	if m.mode == addModePDF {
		path := strings.TrimSpace(body)
		if err := validatePDFPath(title, path); err != nil {
			m.formErr = err.Error()
			return m, nil
		}
		m.formErr = ""
		m.submitting = true
		client := m.client
		return m, func() tea.Msg {
			data, err := os.ReadFile(path)
			if err != nil {
				return itemCreateFailedMsg{err: err}
			}
			item, err := client.UploadPDF(api.CreatePDFInput{
				Title:    title,
				Filename: filepath.Base(path),
				PDF:      data,
				Tags:     tags,
			})
			if err != nil {
				return itemCreateFailedMsg{err: err}
			}
			return itemCreatedMsg{item: *item}
		}
	}

	if err := validateNoteInput(title, body); err != nil {
		m.formErr = err.Error()
		return m, nil
	}
	m.formErr = ""
	m.submitting = true
	client := m.client
	return m, func() tea.Msg {
		item, err := client.UploadText(api.CreateTextInput{
			Title:   title,
			Content: body,
			Tags:    tags,
		})
		if err != nil {
			return itemCreateFailedMsg{err: err}
		}
		return itemCreatedMsg{item: *item}
	}
}

func validateNoteInput(title, content string) error {
	return validation.Errors{
		"title":   validation.Validate(title, validation.Required, validation.Length(1, 200)),
		"content": validation.Validate(content, validation.Required),
	}.Filter()
}

func validatePDFPath(title, path string) error {
	return validation.Errors{
		"title": validation.Validate(title, validation.Required, validation.Length(1, 200)),
		"file": validation.Validate(path, validation.Required, validation.By(func(v interface{}) error {
			s, _ := v.(string)
			if s != "" && !strings.EqualFold(filepath.Ext(s), ".pdf") {
				return errNotPDF
			}
			return nil
		})),
	}.Filter()
}

var errNotPDF = validation.NewError("validation_not_pdf", "must point to a .pdf file")

func (m AddModel) View() string {
	labels := [addFieldCount]string{"Title", "Content", "Tags"}
	title := "Add Text Note"
	if m.mode == addModePDF {
		labels[addFieldBody] = "PDF path"
		title = "Add PDF Document"
	}

	var b strings.Builder
	for i := 0; i < addFieldCount; i++ {
		cursor := "  "
		if i == m.focus {
			cursor = SelectedStyle.Render("> ")
		}
		value := m.fields[i]
		if i == m.focus && !m.submitting {
			value += "█"
		}
		b.WriteString(cursor + MutedStyle.Render(labels[i]+": ") + NormalStyle.Render(components.SanitizeText(value)))
		if i < addFieldCount-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n\n" + MutedStyle.Render("ctrl+t switch note/pdf · ctrl+s save"))
	if m.submitting {
		b.WriteString("\n" + MutedStyle.Render("Uploading..."))
	}
	if m.formErr != "" {
		b.WriteString("\n" + ErrorStyle.Render(m.formErr))
	}
	return components.Indent(components.TitledBox(title, b.String(), m.width), 1)
}

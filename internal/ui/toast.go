package ui

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcinsik/knowledge-assistant/internal/ui/components"
)

// Toast kinds.
const (
	toastSuccess = "success"
	toastError   = "error"
	toastInfo    = "info"
)

// toastLifetime is how long a toast stays up without interaction.
const toastLifetime = 4500 * time.Millisecond

// toast is an ephemeral notification. It lives only in the view layer
// and self-destructs after toastLifetime, or earlier on dismissal.
type toast struct {
	id   string
	kind string
	text string
}

// toastRequestMsg asks the root model to show a toast. Sub-models emit
// it from commands so conditional notifications (e.g. only for a
// non-stale search failure) stay with the code that can decide.
type toastRequestMsg struct {
	kind string
	text string
}

// toastExpiredMsg removes a toast whose lifetime ran out.
type toastExpiredMsg struct{ id string }

// showToast builds a command that surfaces a toast.
func showToast(kind, text string) tea.Cmd {
	return func() tea.Msg {
		return toastRequestMsg{kind: kind, text: text}
	}
}

var toastSeq atomic.Int64

// newToastID returns an identifier unique within the process.
func newToastID() string {
	return strconv.FormatInt(toastSeq.Add(1), 36) + "-" + strconv.FormatInt(time.Now().UnixNano(), 36)
}

// pushToast appends the toast and schedules its expiry.
func (a *App) pushToast(kind, text string) tea.Cmd {
	t := toast{
		id:   newToastID(),
		kind: kind,
		text: components.SanitizeOneLine(text),
	}
	a.toasts = append(a.toasts, t)
	id := t.id
	return tea.Tick(toastLifetime, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// dismissToast removes a toast by id.
func (a *App) dismissToast(id string) {
	out := a.toasts[:0]
	for _, t := range a.toasts {
		if t.id != id {
			out = append(out, t)
		}
	}
	a.toasts = out
}

// renderToasts stacks active toasts, newest last.
func (a App) renderToasts() string {
	if len(a.toasts) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(a.toasts))
	for _, t := range a.toasts {
		switch t.kind {
		case toastError:
			blocks = append(blocks, components.ErrorBox("Error", t.text, a.width))
		case toastSuccess:
			blocks = append(blocks, components.TitledBox("Success", t.text, a.width))
		default:
			blocks = append(blocks, components.TitledBox("Info", t.text, a.width))
		}
	}
	return strings.Join(blocks, "\n")
}

// errText renders an error for toast display, preserving the server's
// own detail message when present.
func errText(action string, err error) string {
	if err == nil {
		return action
	}
	return fmt.Sprintf("%s: %v", action, err)
}

package wizard

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/bluebook/internal/tui/theme"
)

const toastDuration = 4 * time.Second

// toastDismissMsg dismisses the toast with the matching id.
type toastDismissMsg struct {
	id int
}

// ToastKind selects the toast's colors.
type ToastKind int

const (
	ToastSuccess ToastKind = iota
	ToastError
)

// Toast is a short notification with a title and a description. It
// dismisses itself after a few seconds; a newer toast replaces an older one.
type Toast struct {
	title       string
	description string
	kind        ToastKind
	visible     bool
	id          int
}

// NewToast creates a new Toast component.
func NewToast() *Toast {
	return &Toast{}
}

// Show displays a toast and returns the command that dismisses it.
func (t *Toast) Show(kind ToastKind, title, description string) tea.Cmd {
	t.id++
	t.kind = kind
	t.title = title
	t.description = description
	t.visible = true

	id := t.id
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastDismissMsg{id: id}
	})
}

// Update handles messages for the toast component.
func (t *Toast) Update(msg tea.Msg) {
	if m, ok := msg.(toastDismissMsg); ok && m.id == t.id {
		t.visible = false
	}
}

// Visible reports whether the toast is showing.
func (t *Toast) Visible() bool {
	return t.visible
}

// Title returns the current title, or "" when hidden.
func (t *Toast) Title() string {
	if !t.visible {
		return ""
	}
	return t.title
}

// View renders the toast box, or "" when hidden.
func (t *Toast) View(maxWidth int) string {
	if !t.visible {
		return ""
	}

	s := theme.Current().S()
	box, title := s.ToastSuccess, s.ToastTitleSuccess
	if t.kind == ToastError {
		box, title = s.ToastError, s.ToastTitleError
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		title.Render(t.title),
		s.Body.Render(t.description),
	)
	if w := lipgloss.Width(content) + 4; w > maxWidth && maxWidth > 10 {
		box = box.Width(maxWidth)
	}
	return box.Render(content)
}

package wizard

import (
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/bluebook/internal/template"
)

// HomeScreen is the landing page with a scrollable introduction.
type HomeScreen struct {
	viewport viewport.Model
	buttons  *ButtonBar
	style    string
	width    int
}

// NewHomeScreen creates the landing page. style is a glamour standard style.
func NewHomeScreen(style string) *HomeScreen {
	h := &HomeScreen{
		viewport: viewport.New(viewport.WithWidth(60), viewport.WithHeight(12)),
		buttons:  NewButtonBar([]Button{{ID: ButtonStart, Label: "Start Renewal"}}),
		style:    style,
	}
	h.buttons.FocusFirst()
	h.SetSize(60, 20)
	return h
}

// SetSize updates the available area.
func (h *HomeScreen) SetSize(width, height int) {
	h.width = width
	h.viewport.SetWidth(width)
	h.viewport.SetHeight(max(height-4, 3))
	h.viewport.SetContent(renderMarkdown(template.HomeTemplate, h.style, width))
	h.buttons.SetWidth(width)
}

// Update handles messages for the home page.
func (h *HomeScreen) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyPressMsg); ok && key.String() == "enter" {
		return func() tea.Msg { return StartRenewalMsg{} }
	}
	var cmd tea.Cmd
	h.viewport, cmd = h.viewport.Update(msg)
	return cmd
}

// View renders the home page.
func (h *HomeScreen) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		h.viewport.View(),
		"",
		h.buttons.Render(),
		"",
		renderHintBar("enter", "start renewal", "↑↓", "scroll", "q", "quit"),
	)
}

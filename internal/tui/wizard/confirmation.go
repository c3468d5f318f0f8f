package wizard

import (
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// ConfirmationScreen shows the rendered receipt and offers to start over.
type ConfirmationScreen struct {
	viewport viewport.Model
	buttons  *ButtonBar
	markdown string
	style    string
}

// NewConfirmationScreen creates the screen for an already rendered receipt
// markdown document.
func NewConfirmationScreen(markdown, style string) *ConfirmationScreen {
	c := &ConfirmationScreen{
		viewport: viewport.New(viewport.WithWidth(60), viewport.WithHeight(12)),
		buttons: NewButtonBar([]Button{
			{ID: ButtonHome, Label: "Back to Home"},
			{ID: ButtonAnother, Label: "Submit Another Request"},
		}),
		markdown: markdown,
		style:    style,
	}
	c.buttons.FocusLast()
	c.SetSize(60, 20)
	return c
}

// SetSize updates the available area.
func (c *ConfirmationScreen) SetSize(width, height int) {
	c.viewport.SetWidth(width)
	c.viewport.SetHeight(max(height-4, 3))
	c.viewport.SetContent(renderMarkdown(c.markdown, c.style, width))
	c.buttons.SetWidth(width)
}

// FocusedButton returns the button enter would press.
func (c *ConfirmationScreen) FocusedButton() ButtonID {
	return c.buttons.FocusedButton()
}

// Update handles messages for the confirmation screen. Both buttons start
// over; they differ only in wording.
func (c *ConfirmationScreen) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "enter":
			return func() tea.Msg { return StartOverMsg{} }
		case "left", "shift+tab":
			if !c.buttons.FocusPrev() {
				c.buttons.FocusLast()
			}
			return nil
		case "right", "tab":
			if !c.buttons.FocusNext() {
				c.buttons.FocusFirst()
			}
			return nil
		}
	}
	var cmd tea.Cmd
	c.viewport, cmd = c.viewport.Update(msg)
	return cmd
}

// View renders the screen.
func (c *ConfirmationScreen) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		c.viewport.View(),
		"",
		c.buttons.Render(),
		"",
		renderHintBar("←/→", "choose", "enter", "start over", "↑↓", "scroll", "q", "quit"),
	)
}

package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/bluebook/internal/tui/theme"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Normal state (enabled)
	ButtonDisabled                    // Disabled state (grayed out)
	ButtonFocused                     // Focused/highlighted state
)

// ButtonID identifies what a button does.
type ButtonID int

const (
	ButtonNone ButtonID = iota
	ButtonBack
	ButtonNext
	ButtonSubmit
	ButtonStart
	ButtonHome
	ButtonAnother
)

// Button represents a single button in the button bar.
type Button struct {
	ID    ButtonID
	Label string
	State ButtonState
}

// ButtonBar manages a set of buttons with consistent styling and a focus
// cursor. Disabled buttons are skipped when moving focus.
type ButtonBar struct {
	buttons []Button
	focus   int // -1 when no button is focused
	width   int
}

// NewButtonBar creates a new button bar with the given buttons.
func NewButtonBar(buttons []Button) *ButtonBar {
	return &ButtonBar{
		buttons: buttons,
		focus:   -1,
		width:   60,
	}
}

// SetWidth updates the width for the button bar.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// Focused reports whether any button has focus.
func (b *ButtonBar) Focused() bool {
	return b.focus >= 0
}

// FocusedButton returns the ID of the focused button, or ButtonNone.
func (b *ButtonBar) FocusedButton() ButtonID {
	if b.focus < 0 {
		return ButtonNone
	}
	return b.buttons[b.focus].ID
}

// FocusFirst focuses the first enabled button.
func (b *ButtonBar) FocusFirst() bool {
	return b.focusFrom(0, 1)
}

// FocusLast focuses the last enabled button.
func (b *ButtonBar) FocusLast() bool {
	return b.focusFrom(len(b.buttons)-1, -1)
}

// FocusNext moves focus right. It returns false, leaving the bar blurred,
// when there is no further enabled button.
func (b *ButtonBar) FocusNext() bool {
	return b.focusFrom(b.focus+1, 1)
}

// FocusPrev moves focus left. It returns false, leaving the bar blurred,
// when there is no earlier enabled button.
func (b *ButtonBar) FocusPrev() bool {
	if b.focus < 0 {
		return false
	}
	return b.focusFrom(b.focus-1, -1)
}

// Blur removes focus from every button.
func (b *ButtonBar) Blur() {
	b.setFocus(-1)
}

func (b *ButtonBar) focusFrom(start, step int) bool {
	for i := start; i >= 0 && i < len(b.buttons); i += step {
		if b.buttons[i].State != ButtonDisabled {
			b.setFocus(i)
			return true
		}
	}
	b.setFocus(-1)
	return false
}

func (b *ButtonBar) setFocus(idx int) {
	for i := range b.buttons {
		if b.buttons[i].State == ButtonDisabled {
			continue
		}
		if i == idx {
			b.buttons[i].State = ButtonFocused
		} else {
			b.buttons[i].State = ButtonNormal
		}
	}
	b.focus = idx
}

// SetDisabled enables or disables the button with the given ID.
func (b *ButtonBar) SetDisabled(id ButtonID, disabled bool) {
	for i := range b.buttons {
		if b.buttons[i].ID != id {
			continue
		}
		switch {
		case disabled:
			b.buttons[i].State = ButtonDisabled
			if b.focus == i {
				b.focus = -1
			}
		case b.focus == i:
			b.buttons[i].State = ButtonFocused
		default:
			b.buttons[i].State = ButtonNormal
		}
	}
}

// Render renders the button bar with proper spacing and styling.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}

	s := theme.Current().S()
	rendered := make([]string, 0, len(b.buttons))
	for _, btn := range b.buttons {
		switch btn.State {
		case ButtonDisabled:
			rendered = append(rendered, s.ButtonDisabled.Render(btn.Label))
		case ButtonFocused:
			rendered = append(rendered, s.ButtonFocused.Render("▸ "+btn.Label))
		default:
			rendered = append(rendered, s.ButtonNormal.Render(btn.Label))
		}
	}

	return lipgloss.Place(b.width, 1, lipgloss.Center, lipgloss.Center, strings.Join(rendered, ""))
}

// stepButtons returns the Back/Next pair used by the data entry steps.
// Back is omitted on the first step.
func stepButtons(withBack bool, nextID ButtonID, nextLabel string) []Button {
	buttons := make([]Button, 0, 2)
	if withBack {
		buttons = append(buttons, Button{ID: ButtonBack, Label: "← Back"})
	}
	return append(buttons, Button{ID: nextID, Label: nextLabel})
}

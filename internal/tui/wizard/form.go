package wizard

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/bluebook/internal/renewal"
	"github.com/mark3labs/bluebook/internal/tui/theme"
)

// field is one labelled input of a step form. A field with choices is a
// selector cycled with ←/→ instead of a text input.
type field struct {
	key      string // renewal field name
	label    string
	hint     string
	required bool
	input    textinput.Model
	upper    bool // upper-case the value as it is typed

	choices []string
	labels  []string
	choice  int // -1 when nothing is selected

	err string
}

func inputStyles() textinput.Styles {
	th := theme.Current()
	return textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(th.FgBase)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(th.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(th.Secondary)),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(th.FgSubtle)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(th.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(th.FgMuted)),
		},
		Cursor: textinput.CursorStyle{
			Color: lipgloss.Color(th.Tertiary),
			Shape: tea.CursorBar,
			Blink: true,
		},
	}
}

func newTextField(key, label, placeholder, value string, required bool, charLimit int) *field {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = "› "
	in.CharLimit = charLimit
	in.SetStyles(inputStyles())
	in.SetWidth(50)
	in.SetValue(value)
	in.Blur()

	return &field{
		key:      key,
		label:    label,
		required: required,
		input:    in,
		choice:   -1,
	}
}

func newSelectField(key, label string, choices, labels []string, value string, required bool) *field {
	f := &field{
		key:      key,
		label:    label,
		required: required,
		choices:  choices,
		labels:   labels,
		choice:   -1,
	}
	for i, c := range choices {
		if c == value {
			f.choice = i
		}
	}
	return f
}

func (f *field) isSelect() bool {
	return f.choices != nil
}

// Value returns the current text or selected choice.
func (f *field) Value() string {
	if f.isSelect() {
		if f.choice < 0 {
			return ""
		}
		return f.choices[f.choice]
	}
	return f.input.Value()
}

// SetValue replaces the field's value and clears its error.
func (f *field) SetValue(v string) {
	if f.isSelect() {
		f.choice = -1
		for i, c := range f.choices {
			if c == v {
				f.choice = i
			}
		}
	} else {
		f.input.SetValue(v)
	}
	f.err = ""
}

func (f *field) focus() tea.Cmd {
	if f.isSelect() {
		return nil
	}
	return f.input.Focus()
}

func (f *field) blur() {
	if !f.isSelect() {
		f.input.Blur()
	}
}

// update feeds msg to the field. A change of value clears the field error.
func (f *field) update(msg tea.Msg) tea.Cmd {
	before := f.Value()

	var cmd tea.Cmd
	if f.isSelect() {
		if key, ok := msg.(tea.KeyPressMsg); ok {
			switch key.String() {
			case "right", "l", "space":
				f.choice = (f.choice + 1) % len(f.choices)
			case "left", "h":
				if f.choice <= 0 {
					f.choice = len(f.choices) - 1
				} else {
					f.choice--
				}
			}
		}
	} else {
		f.input, cmd = f.input.Update(msg)
		if f.upper {
			if v := f.input.Value(); v != strings.ToUpper(v) {
				pos := f.input.Position()
				f.input.SetValue(strings.ToUpper(v))
				f.input.SetCursor(pos)
			}
		}
	}

	if f.Value() != before {
		f.err = ""
	}
	return cmd
}

func (f *field) view(focused bool, width int) string {
	s := theme.Current().S()

	label := f.label
	if f.required {
		label += s.Required.Render(" *")
	}
	labelStyle := s.Label
	if focused {
		labelStyle = s.LabelFocused
	}

	lines := []string{labelStyle.Render(label)}

	if f.isSelect() {
		text := "Select a time slot"
		if f.choice >= 0 {
			text = f.labels[f.choice]
		}
		style := s.Muted
		if focused {
			style = s.Body
		}
		lines = append(lines, style.Render("‹ "+text+" ›"))
	} else {
		f.input.SetWidth(max(width-4, 10))
		lines = append(lines, f.input.View())
	}

	if f.hint != "" && f.err == "" {
		lines = append(lines, s.Muted.Render(f.hint))
	}
	if f.err != "" {
		lines = append(lines, renderFieldError(f.err))
	}
	return strings.Join(lines, "\n")
}

// formAction is what a key press asked the owning step to do.
type formAction int

const (
	actionNone formAction = iota
	actionSubmit
	actionBack
)

// form is the shared focus and error handling of the step components.
// Focus moves through the fields and then the button bar.
type form struct {
	fields  []*field
	focus   int // index into fields; len(fields) when the buttons have focus
	buttons *ButtonBar
	width   int
}

func newForm(fields []*field, buttons []Button) *form {
	return &form{
		fields:  fields,
		buttons: NewButtonBar(buttons),
		width:   60,
	}
}

func (f *form) onButtons() bool {
	return f.focus >= len(f.fields)
}

func (f *form) field(key string) *field {
	for _, fl := range f.fields {
		if fl.key == key {
			return fl
		}
	}
	return nil
}

func (f *form) value(key string) string {
	if fl := f.field(key); fl != nil {
		return fl.Value()
	}
	return ""
}

// focusField moves focus to fields[i].
func (f *form) focusField(i int) tea.Cmd {
	for _, fl := range f.fields {
		fl.blur()
	}
	f.buttons.Blur()
	f.focus = i
	return f.fields[i].focus()
}

func (f *form) focusButtons(last bool) {
	for _, fl := range f.fields {
		fl.blur()
	}
	f.focus = len(f.fields)
	if last {
		f.buttons.FocusLast()
	} else {
		f.buttons.FocusFirst()
	}
}

func (f *form) next() tea.Cmd {
	switch {
	case f.onButtons():
		if !f.buttons.FocusNext() {
			return f.focusField(0)
		}
		return nil
	case f.focus == len(f.fields)-1:
		f.focusButtons(false)
		return nil
	default:
		return f.focusField(f.focus + 1)
	}
}

func (f *form) prev() tea.Cmd {
	switch {
	case f.onButtons():
		if !f.buttons.FocusPrev() {
			return f.focusField(len(f.fields) - 1)
		}
		return nil
	case f.focus == 0:
		f.focusButtons(true)
		return nil
	default:
		return f.focusField(f.focus - 1)
	}
}

// setErrors shows errs next to their fields and focuses the first failing
// field in display order.
func (f *form) setErrors(errs renewal.FieldErrors) tea.Cmd {
	first := -1
	for i, fl := range f.fields {
		fl.err = errs[fl.key]
		if fl.err != "" && first < 0 {
			first = i
		}
	}
	if first >= 0 {
		return f.focusField(first)
	}
	return nil
}

// errorCount returns the number of fields currently showing an error.
func (f *form) errorCount() int {
	n := 0
	for _, fl := range f.fields {
		if fl.err != "" {
			n++
		}
	}
	return n
}

// update handles navigation and forwards everything else to the focused
// field.
func (f *form) update(msg tea.Msg) (tea.Cmd, formAction) {
	key, ok := msg.(tea.KeyPressMsg)
	if ok {
		switch key.String() {
		case "tab", "down":
			return f.next(), actionNone
		case "shift+tab", "up":
			return f.prev(), actionNone
		case "enter":
			if f.onButtons() && f.buttons.FocusedButton() == ButtonBack {
				return nil, actionBack
			}
			return nil, actionSubmit
		}
		if f.onButtons() {
			switch key.String() {
			case "left":
				f.buttons.FocusPrev()
				if !f.buttons.Focused() {
					f.buttons.FocusFirst()
				}
			case "right":
				f.buttons.FocusNext()
				if !f.buttons.Focused() {
					f.buttons.FocusLast()
				}
			}
			return nil, actionNone
		}
	}

	if f.onButtons() {
		return nil, actionNone
	}
	return f.fields[f.focus].update(msg), actionNone
}

func (f *form) setWidth(w int) {
	f.width = w
	f.buttons.SetWidth(w)
}

func (f *form) view() string {
	sections := make([]string, 0, len(f.fields)+1)
	for i, fl := range f.fields {
		sections = append(sections, fl.view(i == f.focus, f.width))
	}
	sections = append(sections, f.buttons.Render())
	return strings.Join(sections, "\n\n")
}

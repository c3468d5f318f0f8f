package wizard

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/editor"
	"github.com/mark3labs/bluebook/internal/logger"
	"github.com/mark3labs/bluebook/internal/renewal"
)

// PickupStep collects where and when the bluebook is picked up.
type PickupStep struct {
	form *form
	now  func() time.Time
}

// NewPickupStep creates the step pre-filled with initial.
func NewPickupStep(initial renewal.PickupDetails, now func() time.Time) *PickupStep {
	address := newTextField(renewal.FieldPickupAddress, "Pickup Address", "Enter complete address with landmarks", initial.PickupAddress, true, 300)
	address.hint = "ctrl+e opens $EDITOR"

	tomorrow := renewal.Midnight(now()).AddDate(0, 0, 1).Format(renewal.DateLayout)
	date := newTextField(renewal.FieldPickupDate, "Preferred Pickup Date", tomorrow, initial.PickupDate, true, len(renewal.DateLayout))
	date.hint = "YYYY-MM-DD, pgup/pgdown change the day"

	choices := make([]string, len(renewal.TimeSlots))
	labels := make([]string, len(renewal.TimeSlots))
	for i, slot := range renewal.TimeSlots {
		choices[i] = string(slot)
		labels[i] = slot.Label()
	}
	slot := newSelectField(renewal.FieldTimeSlot, "Preferred Time Slot", choices, labels, initial.TimeSlot, true)
	slot.hint = "←/→ to choose"

	return &PickupStep{
		form: newForm([]*field{address, date, slot}, stepButtons(true, ButtonSubmit, "Submit Request")),
		now:  now,
	}
}

// Init focuses the first field.
func (s *PickupStep) Init() tea.Cmd {
	return s.form.focusField(0)
}

// Draft returns the values currently entered.
func (s *PickupStep) Draft() renewal.PickupDetails {
	return renewal.PickupDetails{
		PickupAddress: s.form.value(renewal.FieldPickupAddress),
		PickupDate:    strings.TrimSpace(s.form.value(renewal.FieldPickupDate)),
		TimeSlot:      s.form.value(renewal.FieldTimeSlot),
	}
}

// SetErrors shows errs inline.
func (s *PickupStep) SetErrors(errs renewal.FieldErrors) tea.Cmd {
	return s.form.setErrors(errs)
}

// Update handles messages for the step.
func (s *PickupStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case addressEditedMsg:
		s.form.field(renewal.FieldPickupAddress).SetValue(msg.text)
		return nil
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+e":
			return s.openEditor()
		case "pgup", "pgdown":
			if !s.form.onButtons() && s.form.fields[s.form.focus].key == renewal.FieldPickupDate {
				delta := 1
				if msg.String() == "pgdown" {
					delta = -1
				}
				s.shiftDate(delta)
				return nil
			}
		}
	}

	cmd, action := s.form.update(msg)
	switch action {
	case actionSubmit:
		return s.submit()
	case actionBack:
		return func() tea.Msg { return BackMsg{} }
	}
	return cmd
}

// shiftDate moves the date by delta days, starting from tomorrow when the
// field holds no valid date. It never goes before tomorrow.
func (s *PickupStep) shiftDate(delta int) {
	f := s.form.field(renewal.FieldPickupDate)
	tomorrow := renewal.Midnight(s.now()).AddDate(0, 0, 1)

	d, err := time.ParseInLocation(renewal.DateLayout, strings.TrimSpace(f.Value()), tomorrow.Location())
	if err != nil {
		d = tomorrow
	} else {
		d = d.AddDate(0, 0, delta)
	}
	if d.Before(tomorrow) {
		d = tomorrow
	}
	f.SetValue(d.Format(renewal.DateLayout))
	f.input.CursorEnd()
}

func (s *PickupStep) submit() tea.Cmd {
	draft := s.Draft()
	if errs := renewal.ValidatePickupDetails(draft, s.now()); !errs.Empty() {
		return s.form.setErrors(errs)
	}
	return func() tea.Msg { return PickupSubmittedMsg{Details: draft} }
}

// openEditor launches $EDITOR on the current address.
func (s *PickupStep) openEditor() tea.Cmd {
	path, err := writeEditorFile(s.form.value(renewal.FieldPickupAddress))
	if err != nil {
		logger.Warn("Cannot prepare temp file for editor: %v", err)
		return nil
	}

	cmd, err := editor.Command("bluebook", path)
	if err != nil {
		logger.Warn("Cannot start editor: %v", err)
		_ = os.Remove(path)
		return nil
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		defer os.Remove(path)
		if err != nil {
			logger.Warn("Editor exited with error: %v", err)
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		return addressEditedMsg{text: flattenAddress(string(data))}
	})
}

// flattenAddress joins the non-empty lines of an edited address with ", ".
func flattenAddress(s string) string {
	var parts []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, ", ")
}

// SetWidth updates the available width.
func (s *PickupStep) SetWidth(w int) {
	s.form.setWidth(w)
}

// View renders the step.
func (s *PickupStep) View() string {
	return s.form.view() + "\n\n" + renderHintBar(
		"tab", "next field",
		"enter", "submit",
		"ctrl+e", "edit address",
		"esc", "back",
	)
}

// writeEditorFile stores content in a fresh temp file and returns its path.
// Nothing is left on disk when it fails.
func writeEditorFile(content string) (string, error) {
	tmpfile, err := os.CreateTemp("", "bluebook_address_*.txt")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := tmpfile.Name()
	if _, err := tmpfile.WriteString(content); err != nil {
		_ = tmpfile.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return path, nil
}

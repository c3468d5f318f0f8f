package wizard

import (
	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/bluebook/internal/renewal"
)

// PersonalStep collects the applicant's name and phone number.
type PersonalStep struct {
	form *form
}

// NewPersonalStep creates the step pre-filled with initial.
func NewPersonalStep(initial renewal.PersonalInfo) *PersonalStep {
	name := newTextField(renewal.FieldFullName, "Full Name", "Enter your full name", initial.FullName, true, 100)
	phone := newTextField(renewal.FieldPhoneNumber, "Phone Number", "98XXXXXXXX", initial.PhoneNumber, true, 10)
	phone.hint = "10 digits starting with 97 or 98"

	return &PersonalStep{
		form: newForm([]*field{name, phone}, stepButtons(false, ButtonNext, "Next →")),
	}
}

// Init focuses the first field.
func (s *PersonalStep) Init() tea.Cmd {
	return s.form.focusField(0)
}

// Draft returns the values currently typed in.
func (s *PersonalStep) Draft() renewal.PersonalInfo {
	return renewal.PersonalInfo{
		FullName:    s.form.value(renewal.FieldFullName),
		PhoneNumber: s.form.value(renewal.FieldPhoneNumber),
	}
}

// SetErrors shows errs inline.
func (s *PersonalStep) SetErrors(errs renewal.FieldErrors) tea.Cmd {
	return s.form.setErrors(errs)
}

// Update handles messages for the step.
func (s *PersonalStep) Update(msg tea.Msg) tea.Cmd {
	cmd, action := s.form.update(msg)
	switch action {
	case actionSubmit:
		return s.submit()
	case actionBack:
		return nil // no previous step
	}
	return cmd
}

func (s *PersonalStep) submit() tea.Cmd {
	draft := s.Draft()
	if errs := renewal.ValidatePersonalInfo(draft); !errs.Empty() {
		return s.form.setErrors(errs)
	}
	return func() tea.Msg { return PersonalSubmittedMsg{Info: draft} }
}

// SetWidth updates the available width.
func (s *PersonalStep) SetWidth(w int) {
	s.form.setWidth(w)
}

// View renders the step.
func (s *PersonalStep) View() string {
	return s.form.view() + "\n\n" + renderHintBar(
		"tab", "next field",
		"enter", "continue",
		"ctrl+c", "quit",
	)
}

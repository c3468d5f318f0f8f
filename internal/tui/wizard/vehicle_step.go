package wizard

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/bluebook/internal/renewal"
)

// VehicleStep collects the vehicle's details.
type VehicleStep struct {
	form *form
	now  func() time.Time
}

// NewVehicleStep creates the step pre-filled with initial. now bounds the
// last renewal year.
func NewVehicleStep(initial renewal.VehicleDetails, now func() time.Time) *VehicleStep {
	name := newTextField(renewal.FieldVehicleName, "Vehicle Name", "e.g. Honda City, Bajaj Pulsar", initial.VehicleName, true, 100)
	capacity := newTextField(renewal.FieldEngineCapacity, "Engine Capacity (CC)", "e.g. 1500", initial.EngineCapacity, true, 6)
	registration := newTextField(renewal.FieldVehicleRegistration, "Vehicle Registration Number", "e.g. BA 12 PA 1234", initial.VehicleRegistration, true, 40)
	registration.upper = true
	registration.hint = `Formats: "Ba 12 Pa 1234" or "Province-2-03-001 Cha 1234"`
	year := newTextField(renewal.FieldLastRenewalYear, "Last Renewal Year (Optional)", fmt.Sprintf("e.g. %d", now().Year()-1), initial.LastRenewalYear, false, 4)

	return &VehicleStep{
		form: newForm([]*field{name, capacity, registration, year}, stepButtons(true, ButtonNext, "Next →")),
		now:  now,
	}
}

// Init focuses the first field.
func (s *VehicleStep) Init() tea.Cmd {
	return s.form.focusField(0)
}

// Draft returns the values currently typed in.
func (s *VehicleStep) Draft() renewal.VehicleDetails {
	return renewal.VehicleDetails{
		VehicleName:         s.form.value(renewal.FieldVehicleName),
		EngineCapacity:      s.form.value(renewal.FieldEngineCapacity),
		VehicleRegistration: s.form.value(renewal.FieldVehicleRegistration),
		LastRenewalYear:     s.form.value(renewal.FieldLastRenewalYear),
	}
}

// SetErrors shows errs inline.
func (s *VehicleStep) SetErrors(errs renewal.FieldErrors) tea.Cmd {
	return s.form.setErrors(errs)
}

// Update handles messages for the step.
func (s *VehicleStep) Update(msg tea.Msg) tea.Cmd {
	cmd, action := s.form.update(msg)
	switch action {
	case actionSubmit:
		return s.submit()
	case actionBack:
		return func() tea.Msg { return BackMsg{} }
	}
	return cmd
}

func (s *VehicleStep) submit() tea.Cmd {
	draft := s.Draft()
	if errs := renewal.ValidateVehicleDetails(draft, s.now()); !errs.Empty() {
		return s.form.setErrors(errs)
	}
	return func() tea.Msg { return VehicleSubmittedMsg{Details: draft} }
}

// SetWidth updates the available width.
func (s *VehicleStep) SetWidth(w int) {
	s.form.setWidth(w)
}

// View renders the step.
func (s *VehicleStep) View() string {
	return s.form.view() + "\n\n" + renderHintBar(
		"tab", "next field",
		"enter", "continue",
		"esc", "back",
	)
}

// Package flow holds the renewal wizard's state machine. A Controller owns
// the request being assembled and is the only place sections are merged.
package flow

import (
	"fmt"

	"github.com/mark3labs/bluebook/internal/gateway"
)

// Step identifies one of the three data entry steps.
type Step int

const (
	StepPersonal Step = iota + 1
	StepVehicle
	StepPickup
)

// StepCount is the number of data entry steps.
const StepCount = 3

// Title returns the heading shown on the progress bar.
func (s Step) Title() string {
	switch s {
	case StepPersonal:
		return "Personal Information"
	case StepVehicle:
		return "Vehicle Details"
	case StepPickup:
		return "Pickup Details"
	default:
		return fmt.Sprintf("Step %d", int(s))
	}
}

func (s Step) String() string {
	return s.Title()
}

// Direction is the direction of the most recent step change.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// State is the wizard's current screen. The concrete types are Splash, Home,
// Editing, Submitting and Confirmed.
type State interface {
	state()
	Name() string
}

// Splash is the initial branded screen.
type Splash struct{}

// Home is the landing page.
type Home struct{}

// Editing is one of the data entry steps.
type Editing struct {
	Step Step
}

// Submitting means the request is with the gateway.
type Submitting struct{}

// Confirmed means the gateway accepted the request.
type Confirmed struct {
	Receipt gateway.Receipt
}

func (Splash) state()     {}
func (Home) state()       {}
func (Editing) state()    {}
func (Submitting) state() {}
func (Confirmed) state()  {}

func (Splash) Name() string     { return "splash" }
func (Home) Name() string       { return "home" }
func (e Editing) Name() string  { return fmt.Sprintf("step%d", int(e.Step)) }
func (Submitting) Name() string { return "submitting" }
func (Confirmed) Name() string  { return "confirmation" }

package wizard

import (
	"github.com/mark3labs/bluebook/internal/gateway"
	"github.com/mark3labs/bluebook/internal/renewal"
)

// PersonalSubmittedMsg carries a personal section that passed validation.
type PersonalSubmittedMsg struct {
	Info renewal.PersonalInfo
}

// VehicleSubmittedMsg carries a vehicle section that passed validation.
type VehicleSubmittedMsg struct {
	Details renewal.VehicleDetails
}

// PickupSubmittedMsg carries a pickup section that passed validation.
type PickupSubmittedMsg struct {
	Details renewal.PickupDetails
}

// BackMsg asks to return to the previous step.
type BackMsg struct{}

// StartRenewalMsg is sent from the home page.
type StartRenewalMsg struct{}

// StartOverMsg is sent from the confirmation screen.
type StartOverMsg struct{}

// splashDoneMsg fires when the splash delay elapses. It is ignored unless
// token matches the model's current splash token.
type splashDoneMsg struct {
	token int
}

// submissionResultMsg carries the gateway's answer.
type submissionResultMsg struct {
	receipt gateway.Receipt
	err     error
}

// addressEditedMsg carries the address text returned by $EDITOR.
type addressEditedMsg struct {
	text string
}

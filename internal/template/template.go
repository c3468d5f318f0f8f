// Package template renders the markdown shown on the home and confirmation
// screens.
package template

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/bluebook/internal/renewal"
)

// Support contact shown on the confirmation screen.
const (
	SupportPhone = "01-4000000"
	SupportEmail = "support@bluebookrenewal.com"
)

// Variables holds the data to be injected into template placeholders.
type Variables struct {
	RequestID     string
	Reference     string
	Name          string
	Phone         string
	Vehicle       string
	Registration  string
	PickupAddress string
	PickupDate    string // formatted for display
	TimeSlot      string // slot label with hours
	SubmittedAt   string
}

// Render replaces {{variable}} placeholders in template with actual values.
// Supports the following variables:
//   - {{request_id}}, {{reference}}, {{submitted_at}}
//   - {{name}}, {{phone}}
//   - {{vehicle}}, {{registration}}
//   - {{pickup_address}}, {{pickup_date}}, {{time_slot}}
//   - {{support_phone}}, {{support_email}}
//
// Unknown placeholders are left untouched.
func Render(template string, vars Variables) string {
	r := strings.NewReplacer(
		"{{request_id}}", vars.RequestID,
		"{{reference}}", vars.Reference,
		"{{submitted_at}}", vars.SubmittedAt,
		"{{name}}", vars.Name,
		"{{phone}}", vars.Phone,
		"{{vehicle}}", vars.Vehicle,
		"{{registration}}", vars.Registration,
		"{{pickup_address}}", vars.PickupAddress,
		"{{pickup_date}}", vars.PickupDate,
		"{{time_slot}}", vars.TimeSlot,
		"{{support_phone}}", SupportPhone,
		"{{support_email}}", SupportEmail,
	)
	return r.Replace(template)
}

// LoadFromFile loads a template from a file.
func LoadFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template file %s: %w", path, err)
	}
	return string(data), nil
}

// GetTemplate returns the receipt template content.
// If customPath is non-empty, loads from that file.
// Otherwise returns the default embedded template.
func GetTemplate(customPath string) (string, error) {
	if customPath == "" {
		return DefaultReceiptTemplate, nil
	}
	return LoadFromFile(customPath)
}

// VariablesFor builds template variables from a submitted request.
func VariablesFor(req renewal.Request, id, reference string, submittedAt time.Time) Variables {
	return Variables{
		RequestID:     id,
		Reference:     reference,
		Name:          strings.TrimSpace(req.PersonalInfo.FullName),
		Phone:         strings.TrimSpace(req.PersonalInfo.PhoneNumber),
		Vehicle:       strings.TrimSpace(req.VehicleDetails.VehicleName),
		Registration:  strings.TrimSpace(req.VehicleDetails.VehicleRegistration),
		PickupAddress: strings.TrimSpace(req.PickupDetails.PickupAddress),
		PickupDate:    FormatPickupDate(req.PickupDetails.PickupDate),
		TimeSlot:      renewal.TimeSlot(req.PickupDetails.TimeSlot).Label(),
		SubmittedAt:   submittedAt.Format("Jan 2, 2006 3:04 PM"),
	}
}

// FormatPickupDate turns "2026-10-18" into "Sunday, October 18, 2026". Values
// that do not parse are returned as given.
func FormatPickupDate(date string) string {
	d, err := time.Parse(renewal.DateLayout, date)
	if err != nil {
		return date
	}
	return d.Format("Monday, January 2, 2006")
}

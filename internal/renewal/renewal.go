// Package renewal defines the bluebook renewal request and the rules each of
// its sections must satisfy before the wizard accepts it.
package renewal

// Field names as they appear in error maps and on the wire.
const (
	FieldFullName            = "fullName"
	FieldPhoneNumber         = "phoneNumber"
	FieldVehicleName         = "vehicleName"
	FieldEngineCapacity      = "engineCapacity"
	FieldVehicleRegistration = "vehicleRegistration"
	FieldLastRenewalYear     = "lastRenewalYear"
	FieldPickupAddress       = "pickupAddress"
	FieldPickupDate          = "pickupDate"
	FieldTimeSlot            = "timeSlot"
)

// DateLayout is the format of PickupDate.
const DateLayout = "2006-01-02"

// PersonalInfo is the first section of a request.
type PersonalInfo struct {
	FullName    string `json:"fullName" yaml:"fullName"`
	PhoneNumber string `json:"phoneNumber" yaml:"phoneNumber"`
}

// VehicleDetails is the second section of a request.
type VehicleDetails struct {
	VehicleName         string `json:"vehicleName" yaml:"vehicleName"`
	EngineCapacity      string `json:"engineCapacity" yaml:"engineCapacity"`
	VehicleRegistration string `json:"vehicleRegistration" yaml:"vehicleRegistration"`
	LastRenewalYear     string `json:"lastRenewalYear" yaml:"lastRenewalYear"` // optional
}

// PickupDetails is the third section of a request.
type PickupDetails struct {
	PickupAddress string `json:"pickupAddress" yaml:"pickupAddress"`
	PickupDate    string `json:"pickupDate" yaml:"pickupDate"` // YYYY-MM-DD
	TimeSlot      string `json:"timeSlot" yaml:"timeSlot"`
}

// Request is the aggregate collected by the wizard.
type Request struct {
	PersonalInfo   PersonalInfo   `json:"personalInfo" yaml:"personalInfo"`
	VehicleDetails VehicleDetails `json:"vehicleDetails" yaml:"vehicleDetails"`
	PickupDetails  PickupDetails  `json:"pickupDetails" yaml:"pickupDetails"`
}

// IsZero reports whether every field of the request is empty.
func (r Request) IsZero() bool {
	return r == Request{}
}

// TimeSlot is a pickup window.
type TimeSlot string

const (
	SlotMorning   TimeSlot = "Morning"
	SlotAfternoon TimeSlot = "Afternoon"
	SlotEvening   TimeSlot = "Evening"
)

// TimeSlots lists the pickup windows in display order.
var TimeSlots = []TimeSlot{SlotMorning, SlotAfternoon, SlotEvening}

// Label returns the slot with its hours, e.g. "Morning (9:00 AM - 12:00 PM)".
func (s TimeSlot) Label() string {
	switch s {
	case SlotMorning:
		return "Morning (9:00 AM - 12:00 PM)"
	case SlotAfternoon:
		return "Afternoon (12:00 PM - 4:00 PM)"
	case SlotEvening:
		return "Evening (4:00 PM - 7:00 PM)"
	default:
		return string(s)
	}
}

// Valid reports whether s is one of the enumerated slots.
func (s TimeSlot) Valid() bool {
	for _, slot := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

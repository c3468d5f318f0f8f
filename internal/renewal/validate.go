package renewal

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Registration patterns are tied to Nepal's vehicle numbering and are not
// meant to be extended to other locales.
var (
	// "Ba 12 Pa 1234"
	registrationOldFormat = regexp.MustCompile(`^[A-Za-z]{1,2}\s*\d{1,2}\s*[A-Za-z]{1,3}\s*\d{1,4}$`)
	// "Province-2-03-001 Cha 1234"
	registrationNewFormat = regexp.MustCompile(`(?i)^Province-\d{1,2}-\d{2}-\d{3}\s*[A-Za-z]{1,3}\s*\d{1,4}$`)

	phonePattern = regexp.MustCompile(`^(97|98)\d{8}$`)
)

// MinRenewalYear is the earliest accepted last renewal year.
const MinRenewalYear = 2000

// FieldErrors maps a field name to a human readable message. Fields that
// pass their rule are absent.
type FieldErrors map[string]string

// Empty reports whether no field failed.
func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

// Fields returns the failing field names in sorted order.
func (e FieldErrors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Error implements error so a FieldErrors value can travel through error
// returns when a caller needs it to.
func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range e.Fields() {
		parts = append(parts, f+": "+e[f])
	}
	return strings.Join(parts, "; ")
}

// ValidatePersonalInfo checks the personal section.
func ValidatePersonalInfo(p PersonalInfo) FieldErrors {
	errs := FieldErrors{}

	name := strings.TrimSpace(p.FullName)
	switch {
	case name == "":
		errs[FieldFullName] = "Full name is required"
	case utf8.RuneCountInString(name) < 2:
		errs[FieldFullName] = "Full name must be at least 2 characters"
	}

	phone := strings.TrimSpace(p.PhoneNumber)
	switch {
	case phone == "":
		errs[FieldPhoneNumber] = "Phone number is required"
	case !phonePattern.MatchString(phone):
		errs[FieldPhoneNumber] = "Phone number must be 10 digits starting with 97 or 98"
	}

	return errs
}

// ValidateVehicleDetails checks the vehicle section. now bounds the last
// renewal year.
func ValidateVehicleDetails(v VehicleDetails, now time.Time) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(v.VehicleName) == "" {
		errs[FieldVehicleName] = "Vehicle name is required"
	}

	capacity := strings.TrimSpace(v.EngineCapacity)
	if capacity == "" {
		errs[FieldEngineCapacity] = "Engine capacity is required"
	} else if !PositiveNumber(capacity) {
		errs[FieldEngineCapacity] = "Engine capacity must be a positive number"
	}

	registration := strings.TrimSpace(v.VehicleRegistration)
	if registration == "" {
		errs[FieldVehicleRegistration] = "Vehicle registration number is required"
	} else if !ValidRegistration(registration) {
		errs[FieldVehicleRegistration] = `Invalid registration format. Use: "Ba 12 Pa 1234" or "Province-2-03-001 Cha 1234"`
	}

	if year := strings.TrimSpace(v.LastRenewalYear); year != "" {
		currentYear := now.Year()
		n, ok := ParseRenewalYear(year)
		if !ok || n > currentYear {
			errs[FieldLastRenewalYear] = fmt.Sprintf("Year must be between %d and %d", MinRenewalYear, currentYear)
		}
	}

	return errs
}

// ValidatePickupDetails checks the pickup section. The pickup date must fall
// on a later calendar day than now, in now's location.
func ValidatePickupDetails(p PickupDetails, now time.Time) FieldErrors {
	errs := FieldErrors{}

	address := strings.TrimSpace(p.PickupAddress)
	switch {
	case address == "":
		errs[FieldPickupAddress] = "Pickup address is required"
	case utf8.RuneCountInString(address) < 10:
		errs[FieldPickupAddress] = "Please provide a detailed address (minimum 10 characters)"
	}

	if p.PickupDate == "" {
		errs[FieldPickupDate] = "Pickup date is required"
	} else if !FutureDate(p.PickupDate, now) {
		errs[FieldPickupDate] = "Please select a future date"
	}

	if !TimeSlot(p.TimeSlot).Valid() {
		errs[FieldTimeSlot] = "Please select a time slot"
	}

	return errs
}

// ValidRegistration reports whether s matches either registration format.
func ValidRegistration(s string) bool {
	return registrationOldFormat.MatchString(s) || registrationNewFormat.MatchString(s)
}

// FutureDate reports whether date (YYYY-MM-DD) is strictly after the
// calendar day of now. Both are compared at midnight in now's location.
func FutureDate(date string, now time.Time) bool {
	loc := now.Location()
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return false
	}
	return d.After(Midnight(now))
}

// Midnight truncates t to the start of its calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseRenewalYear parses a last renewal year and checks the lower bound.
// The upper bound depends on the clock and is checked by the caller.
func ParseRenewalYear(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < MinRenewalYear {
		return 0, false
	}
	return n, true
}

// PositiveNumber reports whether s parses as a finite number above zero.
func PositiveNumber(s string) bool {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	return f > 0
}

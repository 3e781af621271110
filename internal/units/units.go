// Package units provides shared constants and validation for mass units
package units

// SolarMassSeconds is G·M☉/c³, the solar mass expressed in seconds.
const SolarMassSeconds = 4.925490947641267e-6

// SolarMassKilograms is the nominal solar mass in kilograms.
const SolarMassKilograms = 1.988409870698051e30

// Unit constants
const (
	MSun    = "msun"
	Kg      = "kg"
	Seconds = "s"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MSun, Kg, Seconds}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "msun, kg, s"
}

// ConvertMass converts a mass from solar masses to the target units.
// Banks carry masses in solar masses.
func ConvertMass(massMSun float64, targetUnits string) float64 {
	switch targetUnits {
	case Kg:
		return massMSun * SolarMassKilograms
	case Seconds:
		return massMSun * SolarMassSeconds
	case MSun:
		return massMSun
	default:
		return massMSun // default to solar masses if unknown unit
	}
}

// MassToSeconds converts solar masses to geometrized seconds.
func MassToSeconds(massMSun float64) float64 { return massMSun * SolarMassSeconds }

// SecondsToMass converts geometrized seconds back to solar masses.
func SecondsToMass(seconds float64) float64 { return seconds / SolarMassSeconds }

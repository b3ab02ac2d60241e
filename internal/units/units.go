// Package units provides speed units, great-circle distance and the
// timezone handling used to turn decoded overlay records into a track.
package units

import (
	"fmt"
	"strings"
)

// Unit constants
const (
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MPS, MPH, KMPH, KPH}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// ValidateUnit returns an error naming the accepted units when unit is
// not one of them.
func ValidateUnit(unit string) error {
	if IsValid(unit) {
		return nil
	}
	return fmt.Errorf("invalid speed unit %q (want one of %s)", unit, strings.Join(ValidUnits, ", "))
}

// ConvertSpeed converts a speed from meters per second to the target units
func ConvertSpeed(speedMPS float64, targetUnits string) float64 {
	switch targetUnits {
	case MPH:
		return speedMPS * 2.2369362920544
	case KMPH, KPH:
		return speedMPS * 3.6
	default:
		return speedMPS
	}
}

package coord

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Axis identifies which geographic coordinate a value belongs to.
type Axis int

const (
	Longitude Axis = iota
	Latitude
)

func (a Axis) String() string {
	if a == Latitude {
		return "latitude"
	}
	return "longitude"
}

func (a Axis) limit() float64 {
	if a == Latitude {
		return 90
	}
	return 180
}

// ErrHemisphere is returned when a reference letter does not belong to the axis.
var ErrHemisphere = errors.New("invalid hemisphere reference")

// ErrAltitudeRef is returned when an altitude reference flag is not an octal digit.
var ErrAltitudeRef = errors.New("invalid altitude reference")

// RangeError reports a conversion whose result is not a valid coordinate.
type RangeError struct {
	Axis  Axis
	Value float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %v out of range [-%v, %v]", e.Axis, e.Value, e.Axis.limit(), e.Axis.limit())
}

// ToDecimal converts degrees/minutes/seconds plus a hemisphere reference into
// signed decimal degrees rounded to precision decimal places. The sign comes
// from ref alone: W and S negate, N, E and "" keep the value positive.
func ToDecimal(axis Axis, deg, minutes, seconds float64, ref string, precision int) (float64, error) {
	negate, err := hemisphereSign(axis, ref)
	if err != nil {
		return 0, err
	}
	for _, part := range []float64{deg, minutes, seconds} {
		if part < 0 || math.IsNaN(part) || math.IsInf(part, 0) {
			return 0, &RangeError{Axis: axis, Value: part}
		}
	}

	v := deg + minutes/60 + seconds/3600
	if negate {
		v = -v
	}
	v = Round(v, precision)
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > axis.limit() {
		return 0, &RangeError{Axis: axis, Value: v}
	}
	return v, nil
}

func hemisphereSign(axis Axis, ref string) (bool, error) {
	ref = strings.ToUpper(strings.TrimSpace(ref))
	switch {
	case ref == "":
		return false, nil
	case axis == Latitude && ref == "N", axis == Longitude && ref == "E":
		return false, nil
	case axis == Latitude && ref == "S", axis == Longitude && ref == "W":
		return true, nil
	default:
		return false, fmt.Errorf("%w %q for %s", ErrHemisphere, ref, axis)
	}
}

// Altitude applies an altitude reference flag to a raw value. The flag is an
// octal digit string; a decoded value of 1 means below sea level.
func Altitude(value float64, refFlag string, precision int) (float64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("altitude %v is not finite", value)
	}
	flag := strings.TrimSpace(refFlag)
	if flag != "" {
		decoded, err := strconv.ParseUint(flag, 8, 8)
		if err != nil {
			return 0, fmt.Errorf("%w %q: %v", ErrAltitudeRef, refFlag, err)
		}
		if decoded == 1 {
			value = -value
		}
	}
	return Round(value, precision), nil
}

// Round rounds v half away from zero to precision decimal places.
func Round(v float64, precision int) float64 {
	p := math.Pow(10, float64(precision))
	return math.Round(v*p) / p
}

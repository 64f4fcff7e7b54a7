// Package anglemath collects the small joint-angle arithmetic helpers used
// by both the search planner and the trajectory executor: radian/degree
// conversion, wraparound-aware differences, and integer rounding for state
// discretization. Grounded on go.viam.com/rdk/utils's math helpers, adapted
// to work in radians since referenceframe.Input values are radian-valued.
package anglemath

import "math"

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// WrapToPi normalizes an angle in radians to (-pi, pi].
func WrapToPi(rad float64) float64 {
	wrapped := math.Mod(rad+math.Pi, 2*math.Pi)
	if wrapped < 0 {
		wrapped += 2 * math.Pi
	}
	wrapped -= math.Pi
	if wrapped == -math.Pi {
		return math.Pi
	}
	return wrapped
}

// ShortestDiff returns the signed shortest angular distance from a1 to a2,
// in radians, accounting for wraparound at +/-pi.
func ShortestDiff(a1, a2 float64) float64 {
	return WrapToPi(a2 - a1)
}

// AbsInt returns the absolute value of n.
func AbsInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// RoundToInt rounds a float to the nearest int using round-half-away-from-zero,
// matching the discretization convention used when hashing joint configurations
// into grid cells.
func RoundToInt(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

// AlmostEqual reports whether a and b differ by no more than tol.
func AlmostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

package searchplan

import (
	"math"

	"go.viam.com/motioncore/internal/anglemath"
)

// JointMotionModel captures the semantics of a single active joint: its
// bounds and whether it wraps modulo 2*pi. It derives discretisation and
// distance operations used by both action-primitive generation and the
// heuristic.
type JointMotionModel struct {
	Lower, Upper float64
	Continuous   bool
}

// Discretise buckets an angle at resolution delta, rounding to the nearest
// integer bucket.
func (m JointMotionModel) Discretise(angle, delta float64) int {
	return anglemath.RoundToInt(angle / delta)
}

// IntegerDistance returns ceil(|delta_angle| / delta), where delta_angle is
// the shortest signed angular difference between a and b for a continuous
// joint, or b-a clamped into [Lower, Upper] otherwise.
func (m JointMotionModel) IntegerDistance(a, b, delta float64) int {
	var d float64
	if m.Continuous {
		d = anglemath.ShortestDiff(a, b)
	} else {
		d = b - a
		if d < m.Lower {
			d = m.Lower
		} else if d > m.Upper {
			d = m.Upper
		}
	}
	return int(math.Ceil(math.Abs(d) / delta))
}

// CanGetCloser reports whether moving from a to b at resolution delta makes
// any integer progress at all.
func (m JointMotionModel) CanGetCloser(a, b, delta float64) bool {
	return m.IntegerDistance(a, b, delta) > 0
}

// InLimits reports whether angle lies within [Lower, Upper]. Always true
// for continuous joints, which have no hard bound.
func (m JointMotionModel) InLimits(angle float64) bool {
	if m.Continuous {
		return true
	}
	return angle >= m.Lower && angle <= m.Upper
}

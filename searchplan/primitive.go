package searchplan

import "go.viam.com/motioncore/internal/anglemath"

// ActionPrimitive advances a single joint's angle by a fixed signed delta.
// It is the only action variant this planner supports (a capability set of
// one tagged variant, per the single-joint-delta shape of the reference
// design), so a concrete struct suffices rather than an interface.
type ActionPrimitive struct {
	JointIndex  int
	SignedDelta float64
}

// Apply returns a copy of src with JointIndex's angle advanced by
// SignedDelta. For a continuous joint the result is wrapped into (-pi, pi];
// for a bounded joint the primitive is rejected (ok=false) if the result
// falls outside the joint's limits.
func (p ActionPrimitive) Apply(src []float64, models []JointMotionModel) (dst []float64, ok bool) {
	dst = make([]float64, len(src))
	copy(dst, src)

	candidate := dst[p.JointIndex] + p.SignedDelta
	model := models[p.JointIndex]
	if model.Continuous {
		candidate = anglemath.WrapToPi(candidate)
	} else if !model.InLimits(candidate) {
		return nil, false
	}
	dst[p.JointIndex] = candidate
	return dst, true
}

// BuildPrimitives returns the two action primitives (+deltaLong, -deltaLong)
// for each active joint, in joint-declaration order, matching the
// reference design's one-positive/one-negative-per-joint primitive set.
func BuildPrimitives(numJoints int, deltaLong float64) []ActionPrimitive {
	primitives := make([]ActionPrimitive, 0, 2*numJoints)
	for j := 0; j < numJoints; j++ {
		primitives = append(primitives,
			ActionPrimitive{JointIndex: j, SignedDelta: deltaLong},
			ActionPrimitive{JointIndex: j, SignedDelta: -deltaLong},
		)
	}
	return primitives
}

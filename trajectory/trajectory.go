// Package trajectory holds the wire-level trajectory types shared by the
// search planner, which materialises them from a solved graph path, and the
// trajectory executor, which splits and dispatches them across controllers.
// Shaped after go.viam.com/rdk/motionplan's Trajectory/Path pair, but
// carrying the joint-trajectory-message fields (time_from_start,
// positions/velocities/accelerations) that the executor's controller
// interface needs rather than the arm-planning frame-input map.
package trajectory

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Point is one waypoint of a Trajectory: a point in time since the
// trajectory's start, plus the joint values reached at that time.
// Positions, Velocities and Accelerations may each be empty; when present,
// each must have one value per joint name of the Trajectory.
type Point struct {
	TimeFromStart time.Duration
	Positions     []float64
	Velocities    []float64
	Accelerations []float64
}

// Trajectory is an ordered sequence of Points, one per joint-space
// waypoint, over a fixed ordered set of joint names.
type Trajectory struct {
	JointNames []string
	Stamp      time.Time
	Points     []Point
}

// Validate reports whether t is well-formed: it must name at least one
// joint, carry at least one point, and every point's position/velocity/
// acceleration slice must either be empty or match JointNames in arity.
func (t Trajectory) Validate() error {
	if len(t.JointNames) == 0 {
		return errors.New("trajectory: no joint names")
	}
	if len(t.Points) == 0 {
		return errors.New("trajectory: no points")
	}
	n := len(t.JointNames)
	for i, p := range t.Points {
		if len(p.Positions) != 0 && len(p.Positions) != n {
			return errors.Errorf("trajectory: point %d has %d positions, want %d", i, len(p.Positions), n)
		}
		if len(p.Velocities) != 0 && len(p.Velocities) != n {
			return errors.Errorf("trajectory: point %d has %d velocities, want %d", i, len(p.Velocities), n)
		}
		if len(p.Accelerations) != 0 && len(p.Accelerations) != n {
			return errors.Errorf("trajectory: point %d has %d accelerations, want %d", i, len(p.Accelerations), n)
		}
	}
	return nil
}

// ActuatedJoints returns the set of joint names named by this trajectory,
// the "actuated joints of a trajectory" of the glossary.
func (t Trajectory) ActuatedJoints() map[string]struct{} {
	set := make(map[string]struct{}, len(t.JointNames))
	for _, name := range t.JointNames {
		set[name] = struct{}{}
	}
	return set
}

// LastTimeFromStart returns the TimeFromStart of the final point, or zero
// if the trajectory has no points.
func (t Trajectory) LastTimeFromStart() time.Duration {
	if len(t.Points) == 0 {
		return 0
	}
	return t.Points[len(t.Points)-1].TimeFromStart
}

// String implements fmt.Stringer for debug logging.
func (t Trajectory) String() string {
	return fmt.Sprintf("Trajectory{joints=%v, points=%d}", t.JointNames, len(t.Points))
}

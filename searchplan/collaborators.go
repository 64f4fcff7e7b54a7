package searchplan

import (
	"context"

	"github.com/golang/geo/r3"
)

// RobotState is a joint-name-keyed configuration, the narrow slice of robot
// state this package needs. The full kinematic and geometric model of the
// robot is an external collaborator, not implemented here.
type RobotState map[string]float64

// JointSpec describes one active joint's identity and motion bounds, as
// reported by a KinematicModel.
type JointSpec struct {
	Name       string
	Lower      float64
	Upper      float64
	Continuous bool
}

// KinematicModel is the narrow view of the robot's kinematic and geometric
// model this planner consumes: joint groups, joint bounds, and forward
// kinematics for the end effector. Defined by the host, not by this
// package; a production implementation typically wraps a full kinematic
// chain and a real forward-kinematics solver.
type KinematicModel interface {
	// ActiveJoints returns the ordered joint specs of the named planning group.
	ActiveJoints(group string) ([]JointSpec, error)
	// EndEffectorPosition returns the world-frame position of group's end
	// effector at the given joint state.
	EndEffectorPosition(ctx context.Context, group string, state RobotState) (r3.Vector, error)
}

// CollisionChecker is the narrow collision-checking collaborator: a single
// boolean-with-details check against a state and planning group. The
// checking engine and the signed-distance field it exposes are external.
type CollisionChecker interface {
	CheckCollision(ctx context.Context, state RobotState, group string) (collision bool, details string, err error)
}

// DistanceFieldView is a read-only view over a voxel distance field:
// dimensions, grid<->world conversion, and per-cell clearance. External;
// this package only reads it to build BFS3D's wall grid and to convert
// end-effector positions to voxels.
type DistanceFieldView interface {
	Dims() (x, y, z int)
	WorldToGrid(world r3.Vector) (voxel Voxel, ok bool)
	// Distance returns the clearance at (x,y,z); 0 means no clearance (a wall).
	Distance(x, y, z int) float64
}

// DistanceFieldPair bundles the self- and world-clearance fields consulted
// during setup's wall-marking pass. Both fields must share dimensions.
type DistanceFieldPair struct {
	Self  DistanceFieldView
	World DistanceFieldView
}

// GoalConstraints names the target angle for each constrained joint. Joints
// not present retain their start-state value, matching a partial goal
// constraint set from a higher-level planning request (out of scope here).
type GoalConstraints map[string]float64

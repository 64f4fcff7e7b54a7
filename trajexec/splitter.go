package trajexec

import (
	"go.viam.com/motioncore/logging"
	"go.viam.com/motioncore/trajectory"
)

// TrajectorySplitter projects a trajectory onto each selected controller's
// joint set, preserving per-point timing and the trajectory header.
type TrajectorySplitter struct {
	registry *ControllerRegistry
	logger   logging.Logger
}

// NewTrajectorySplitter returns a splitter reading controller joint sets
// from registry.
func NewTrajectorySplitter(registry *ControllerRegistry, logger logging.Logger) *TrajectorySplitter {
	return &TrajectorySplitter{registry: registry, logger: logger}
}

// Split computes, for each controller, the intersection of its joint set
// with traj's joint names, then projects every point's positions (and
// velocities/accelerations, each if non-empty) onto that intersection. The
// projection permutation is computed once per controller, not once per
// point. A controller whose intersection is empty receives an empty part
// and a logged warning; that is not an error.
func (s *TrajectorySplitter) Split(traj trajectory.Trajectory, selectedControllers []string) []trajectory.Trajectory {
	parts := make([]trajectory.Trajectory, len(selectedControllers))

	jointIndex := make(map[string]int, len(traj.JointNames))
	for i, name := range traj.JointNames {
		jointIndex[name] = i
	}

	for ci, name := range selectedControllers {
		info, _ := s.registry.Get(name)
		var intersection []string
		var sourceIdx []int
		for _, jn := range traj.JointNames {
			if _, ok := info.Joints[jn]; ok {
				intersection = append(intersection, jn)
				sourceIdx = append(sourceIdx, jointIndex[jn])
			}
		}

		if len(intersection) == 0 && s.logger != nil {
			s.logger.Warnf("controller %q shares no joints with the trajectory being split", name)
		}

		points := make([]trajectory.Point, len(traj.Points))
		for pi, p := range traj.Points {
			points[pi] = trajectory.Point{
				TimeFromStart: p.TimeFromStart,
				Positions:     project(p.Positions, sourceIdx),
				Velocities:    project(p.Velocities, sourceIdx),
				Accelerations: project(p.Accelerations, sourceIdx),
			}
		}

		parts[ci] = trajectory.Trajectory{
			JointNames: intersection,
			Stamp:      traj.Stamp,
			Points:     points,
		}
	}

	return parts
}

// project returns values[sourceIdx[i]] for each i, or nil if values is empty.
func project(values []float64, sourceIdx []int) []float64 {
	if len(values) == 0 {
		return nil
	}
	out := make([]float64, len(sourceIdx))
	for i, idx := range sourceIdx {
		out[i] = values[idx]
	}
	return out
}

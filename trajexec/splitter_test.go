package trajexec

import (
	"testing"
	"time"

	"go.viam.com/test"

	"go.viam.com/motioncore/trajectory"
)

func newSplitterTestRegistry() *ControllerRegistry {
	return newTestRegistry(map[string]*ControllerInfo{
		"arm":    {Name: "arm", Joints: joints("j1", "j2", "j3")},
		"gripper": {Name: "gripper", Joints: joints("j4")},
		"unrelated": {Name: "unrelated", Joints: joints("j5", "j6")},
	})
}

func sampleTrajectory() trajectory.Trajectory {
	stamp := time.Unix(0, 0)
	return trajectory.Trajectory{
		JointNames: []string{"j1", "j2", "j3", "j4"},
		Stamp:      stamp,
		Points: []trajectory.Point{
			{TimeFromStart: 0, Positions: []float64{0, 0, 0, 0}, Velocities: []float64{0, 0, 0, 0}},
			{TimeFromStart: 100 * time.Millisecond, Positions: []float64{1, 2, 3, 4}, Velocities: []float64{1, 1, 1, 1}},
			{TimeFromStart: 200 * time.Millisecond, Positions: []float64{2, 4, 6, 8}, Velocities: []float64{1, 1, 1, 1}},
		},
	}
}

func TestSplitPreservesTimestamps(t *testing.T) {
	registry := newSplitterTestRegistry()
	splitter := NewTrajectorySplitter(registry, nil)
	traj := sampleTrajectory()

	parts := splitter.Split(traj, []string{"arm", "gripper"})
	test.That(t, len(parts), test.ShouldEqual, 2)

	for _, part := range parts {
		test.That(t, len(part.Points), test.ShouldEqual, len(traj.Points))
		for i, p := range part.Points {
			test.That(t, p.TimeFromStart, test.ShouldEqual, traj.Points[i].TimeFromStart)
		}
		test.That(t, part.Stamp, test.ShouldResemble, traj.Stamp)
	}
}

func TestSplitProjectsOntoJointSubset(t *testing.T) {
	registry := newSplitterTestRegistry()
	splitter := NewTrajectorySplitter(registry, nil)
	traj := sampleTrajectory()

	parts := splitter.Split(traj, []string{"arm", "gripper"})
	armPart, gripperPart := parts[0], parts[1]

	test.That(t, armPart.JointNames, test.ShouldResemble, []string{"j1", "j2", "j3"})
	test.That(t, armPart.Points[1].Positions, test.ShouldResemble, []float64{1, 2, 3})

	test.That(t, gripperPart.JointNames, test.ShouldResemble, []string{"j4"})
	test.That(t, gripperPart.Points[1].Positions, test.ShouldResemble, []float64{4})
}

func TestSplitEmptyIntersectionIsNotAnError(t *testing.T) {
	registry := newSplitterTestRegistry()
	splitter := NewTrajectorySplitter(registry, nil)
	traj := sampleTrajectory()

	parts := splitter.Split(traj, []string{"unrelated"})
	test.That(t, len(parts), test.ShouldEqual, 1)
	test.That(t, parts[0].JointNames, test.ShouldBeEmpty)
	test.That(t, len(parts[0].Points), test.ShouldEqual, len(traj.Points))
	for _, p := range parts[0].Points {
		test.That(t, p.Positions, test.ShouldBeEmpty)
	}
}

func TestSplitLeavesVelocitiesNilWhenSourceEmpty(t *testing.T) {
	registry := newSplitterTestRegistry()
	splitter := NewTrajectorySplitter(registry, nil)
	traj := sampleTrajectory()
	for i := range traj.Points {
		traj.Points[i].Velocities = nil
	}

	parts := splitter.Split(traj, []string{"arm"})
	for _, p := range parts[0].Points {
		test.That(t, p.Velocities, test.ShouldBeEmpty)
	}
}

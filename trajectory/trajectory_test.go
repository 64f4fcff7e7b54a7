package trajectory

import (
	"testing"
	"time"

	"go.viam.com/test"
)

func TestValidateEmptyPoints(t *testing.T) {
	tr := Trajectory{JointNames: []string{"j1"}}
	err := tr.Validate()
	test.That(t, err, test.ShouldNotBeNil)
}

func TestValidateArityMismatch(t *testing.T) {
	tr := Trajectory{
		JointNames: []string{"j1", "j2"},
		Points: []Point{
			{TimeFromStart: time.Second, Positions: []float64{0.1}},
		},
	}
	err := tr.Validate()
	test.That(t, err, test.ShouldNotBeNil)
}

func TestValidateOK(t *testing.T) {
	tr := Trajectory{
		JointNames: []string{"j1", "j2"},
		Points: []Point{
			{TimeFromStart: 0, Positions: []float64{0, 0}},
			{TimeFromStart: time.Second, Positions: []float64{0.1, 0.2}},
		},
	}
	test.That(t, tr.Validate(), test.ShouldBeNil)
	test.That(t, tr.LastTimeFromStart(), test.ShouldEqual, time.Second)

	joints := tr.ActuatedJoints()
	test.That(t, len(joints), test.ShouldEqual, 2)
	_, ok := joints["j1"]
	test.That(t, ok, test.ShouldBeTrue)
}

package searchplan

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestIntegerDistanceContinuous(t *testing.T) {
	m := JointMotionModel{Continuous: true}
	// wrap-around: from 3.0 to -3.0 rad is short the other way
	d := m.IntegerDistance(3.0, -3.0, 0.1)
	test.That(t, d, test.ShouldBeGreaterThan, 0)
	test.That(t, d, test.ShouldBeLessThan, int(math.Ceil(6.0/0.1)))
}

func TestIntegerDistanceBounded(t *testing.T) {
	m := JointMotionModel{Lower: -1, Upper: 1}
	test.That(t, m.IntegerDistance(0, 0.3, 0.1), test.ShouldEqual, 3)
	test.That(t, m.CanGetCloser(0, 0.3, 0.1), test.ShouldBeTrue)
	test.That(t, m.CanGetCloser(0, 0, 0.1), test.ShouldBeFalse)
}

func TestDiscretiseRounds(t *testing.T) {
	m := JointMotionModel{Lower: -1, Upper: 1}
	test.That(t, m.Discretise(0.05, 0.1), test.ShouldEqual, 1)
	test.That(t, m.Discretise(-0.05, 0.1), test.ShouldEqual, -1)
	test.That(t, m.Discretise(0.0, 0.1), test.ShouldEqual, 0)
}

func TestInLimits(t *testing.T) {
	bounded := JointMotionModel{Lower: -1, Upper: 1}
	test.That(t, bounded.InLimits(0.5), test.ShouldBeTrue)
	test.That(t, bounded.InLimits(1.5), test.ShouldBeFalse)

	cont := JointMotionModel{Continuous: true}
	test.That(t, cont.InLimits(100), test.ShouldBeTrue)
}

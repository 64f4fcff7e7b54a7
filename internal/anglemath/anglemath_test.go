package anglemath

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestWrapToPiRange(t *testing.T) {
	// (-pi, pi]: pi itself must map to pi, not -pi.
	test.That(t, WrapToPi(math.Pi), test.ShouldEqual, math.Pi)
	test.That(t, WrapToPi(-math.Pi), test.ShouldEqual, math.Pi)
	test.That(t, WrapToPi(0), test.ShouldEqual, 0)
}

func TestWrapToPiWraparound(t *testing.T) {
	test.That(t, AlmostEqual(WrapToPi(3*math.Pi), math.Pi, 1e-9), test.ShouldBeTrue)
	test.That(t, AlmostEqual(WrapToPi(2*math.Pi), 0, 1e-9), test.ShouldBeTrue)
	test.That(t, AlmostEqual(WrapToPi(-2*math.Pi), 0, 1e-9), test.ShouldBeTrue)
}

func TestShortestDiffWraparound(t *testing.T) {
	// Going from just below +pi to just above -pi is a short step across
	// the wrap boundary, not almost a full turn the other way.
	d := ShortestDiff(math.Pi-0.01, -math.Pi+0.01)
	test.That(t, AlmostEqual(d, 0.02, 1e-9), test.ShouldBeTrue)
}

func TestRoundToInt(t *testing.T) {
	test.That(t, RoundToInt(0.5), test.ShouldEqual, 1)
	test.That(t, RoundToInt(-0.5), test.ShouldEqual, -1)
	test.That(t, RoundToInt(0.49), test.ShouldEqual, 0)
	test.That(t, RoundToInt(-0.49), test.ShouldEqual, 0)
}

func TestDegRadRoundTrip(t *testing.T) {
	test.That(t, AlmostEqual(RadToDeg(DegToRad(90)), 90, 1e-9), test.ShouldBeTrue)
}

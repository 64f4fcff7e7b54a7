package logging

import (
	"testing"

	"go.viam.com/test"
)

func TestLevels(t *testing.T) {
	logger := NewTestLogger(t)
	test.That(t, logger.GetLevel(), test.ShouldEqual, DEBUG)

	logger.SetLevel(WARN)
	test.That(t, logger.GetLevel(), test.ShouldEqual, WARN)
}

func TestSublogger(t *testing.T) {
	logger := NewLogger("root")
	child := logger.Sublogger("child")
	test.That(t, child, test.ShouldNotBeNil)

	// a sublogger inherits the parent's atomic level, so raising the level on
	// one is visible from the other.
	logger.SetLevel(ERROR)
	test.That(t, child.GetLevel(), test.ShouldEqual, ERROR)
}

func TestLevelString(t *testing.T) {
	test.That(t, DEBUG.String(), test.ShouldEqual, "Debug")
	test.That(t, INFO.String(), test.ShouldEqual, "Info")
	test.That(t, WARN.String(), test.ShouldEqual, "Warn")
	test.That(t, ERROR.String(), test.ShouldEqual, "Error")
}

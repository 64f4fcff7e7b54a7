package searchplan

import "github.com/pkg/errors"

// Kind is a taxonomy of setup and per-request failures a PlanningEnvironment
// can report, independent of the message text carried in a given error.
type Kind string

// The error kinds this package reports. Query-time failures (successor
// generation) are silent prunes and never surface as errors of any kind.
const (
	KindCollisionCheckingUnavailable Kind = "COLLISION_CHECKING_UNAVAILABLE"
	KindFieldSizeMismatch            Kind = "FIELD_SIZE_MISMATCH"
	KindStartInCollision             Kind = "START_IN_COLLISION"
	KindGoalInCollision              Kind = "GOAL_IN_COLLISION"
	KindInvalidRobotState            Kind = "INVALID_ROBOT_STATE"
	KindInvalidGoalConstraints       Kind = "INVALID_GOAL_CONSTRAINTS"
)

// Error wraps a Kind with a human-readable message and an optional cause,
// so callers can branch on Kind rather than matching error text.
type Error struct {
	Kind  Kind
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

// Unwrap allows errors.Is/errors.As to reach the underlying cause.
func (e *Error) Unwrap() error { return e.cause }

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, msg: msg, cause: cause}
}

// NewCollisionCheckingUnavailableError reports that setup cannot proceed
// because no collision checker was reachable.
func NewCollisionCheckingUnavailableError(cause error) *Error {
	return newError(KindCollisionCheckingUnavailable, "collision checking unavailable", cause)
}

// NewFieldSizeMismatchError reports that the self and world distance fields
// disagree on dimensions.
func NewFieldSizeMismatchError(cause error) *Error {
	return newError(KindFieldSizeMismatch, "distance field size mismatch", cause)
}

// NewStartInCollisionError reports that the start configuration collides.
func NewStartInCollisionError(cause error) *Error {
	return newError(KindStartInCollision, "start configuration in collision", cause)
}

// NewGoalInCollisionError reports that the goal configuration collides.
func NewGoalInCollisionError(cause error) *Error {
	return newError(KindGoalInCollision, "goal configuration in collision", cause)
}

// NewInvalidRobotStateError reports a malformed or incomplete robot state.
func NewInvalidRobotStateError(cause error) *Error {
	return newError(KindInvalidRobotState, "invalid robot state", cause)
}

// NewInvalidGoalConstraintsError reports goal constraints that cannot be
// resolved into a full robot state.
func NewInvalidGoalConstraintsError(cause error) *Error {
	return newError(KindInvalidGoalConstraints, "invalid goal constraints", cause)
}

// wrapf is a small convenience matching the pkg/errors idiom used
// throughout this module for adding call-site context to a cause. cause
// must be non-nil: errors.Wrapf(nil, ...) discards the message and returns
// nil, which is never what a call site wrapping a real error wants.
func wrapf(cause error, format string, args ...interface{}) error {
	return errors.Wrapf(cause, format, args...)
}

// errorsErrorf constructs a plain, causeless error, for call sites that
// have a message but no underlying error to wrap.
func errorsErrorf(format string, args ...interface{}) error {
	return errors.Errorf(format, args...)
}

// detailsError turns a possibly-empty details string from a collision
// check into an error, or nil if there were no details to report.
func detailsError(details string) error {
	if details == "" {
		return nil
	}
	return errors.New(details)
}

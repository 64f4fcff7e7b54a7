package trajexec

import "github.com/pkg/errors"

// Kind is a taxonomy of controller-selection and dispatch failures the TEM
// reports, independent of the message text carried in a given error.
type Kind string

// The error kinds this package reports.
const (
	KindUnknownController     Kind = "UNKNOWN_CONTROLLER"
	KindNoCoveringCombination Kind = "NO_COVERING_COMBINATION"
	KindSendFailed            Kind = "SEND_FAILED"
	KindUnsatisfiable         Kind = "UNSATISFIABLE"
)

// Error wraps a Kind with a human-readable message and an optional cause.
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

// NewUnknownControllerError reports a controller name absent from the
// registry even after a reload.
func NewUnknownControllerError(name string) *Error {
	return newError(KindUnknownController, "unknown controller: "+name, nil)
}

// NewNoCoveringCombinationError reports that no disjoint subset of the
// available controllers covers the requested joints.
func NewNoCoveringCombinationError() *Error {
	return newError(KindNoCoveringCombination, "no covering controller combination", nil)
}

// NewSendFailedError reports that dispatching a part to a controller
// handle failed.
func NewSendFailedError(cause error) *Error {
	return newError(KindSendFailed, "send to controller handle failed", cause)
}

// NewUnsatisfiableError reports that ensureActive could not find a way to
// activate the requested controllers without stranding already-active
// joints that no available controller can cover, or, when not managing,
// that a requested controller is not already active.
func NewUnsatisfiableError() *Error {
	return newError(KindUnsatisfiable, "activation request unsatisfiable", nil)
}

func wrapf(cause error, format string, args ...interface{}) error {
	return errors.Wrapf(cause, format, args...)
}

package cell

import "errors"

// Kind is a stable failure category for programmatic error handling.
//
// Callers should branch on Kind via errors.As rather than matching error
// strings; Error() strings are for humans and may evolve.
type Kind string

const (
	// KindCapacityExceeded: a write would exceed the 1023-bit or
	// 4-reference budget of a cell.
	KindCapacityExceeded Kind = "CapacityExceeded"
	// KindInsufficientData: a read requested more bits or references than
	// remain in the slice.
	KindInsufficientData Kind = "InsufficientData"
	// KindInvalidArgument: a value is not representable in the requested
	// width, or an argument is otherwise out of range.
	KindInvalidArgument Kind = "InvalidArgument"
)

// Error is the structured error type of the cell layer.
type Error struct {
	Kind    Kind
	Op      string // the operation that failed, e.g. "WriteUint"
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return "cell: " + e.Op + ": " + e.Message
}

func newError(kind Kind, op, msg string) error {
	return &Error{Kind: kind, Op: op, Message: msg}
}

func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsCapacityExceeded reports whether err is a cell capacity failure.
func IsCapacityExceeded(err error) bool { return kindOf(err) == KindCapacityExceeded }

// IsInsufficientData reports whether err is a slice underrun.
func IsInsufficientData(err error) bool { return kindOf(err) == KindInsufficientData }

// IsInvalidArgument reports whether err is an out-of-range argument failure.
func IsInvalidArgument(err error) bool { return kindOf(err) == KindInvalidArgument }

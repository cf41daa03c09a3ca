package abi

import "errors"

// Kind is a stable failure category for programmatic error handling.
//
// Failures raised by the underlying cell layer (capacity, underruns) are
// propagated unchanged; see the cell package for their kinds.
type Kind string

const (
	// KindUnknownType: a type string does not resolve to exactly one type
	// tag. Raised at parse time, before any encode/decode attempt.
	KindUnknownType Kind = "UnknownAbiType"
	// KindIdMismatch: a function or event identifier read from a body does
	// not match the expected one.
	KindIdMismatch Kind = "IdMismatch"
	// KindInvalidArgument: a value does not match its declared parameter
	// type, or is otherwise out of range.
	KindInvalidArgument Kind = "InvalidArgument"
)

// Error is the structured error type of the ABI codec.
type Error struct {
	Kind    Kind
	Param   string // parameter or type string context, may be empty
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Param != "" {
		return "abi: " + e.Param + ": " + e.Message
	}
	return "abi: " + e.Message
}

func newError(kind Kind, param, msg string) error {
	return &Error{Kind: kind, Param: param, Message: msg}
}

func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsUnknownType reports whether err marks an unresolvable type string.
func IsUnknownType(err error) bool { return kindOf(err) == KindUnknownType }

// IsIdMismatch reports whether err marks a function/event id verification
// failure.
func IsIdMismatch(err error) bool { return kindOf(err) == KindIdMismatch }

// IsInvalidArgument reports whether err marks a value/type mismatch.
func IsInvalidArgument(err error) bool { return kindOf(err) == KindInvalidArgument }

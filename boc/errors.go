package boc

import "errors"

// Kind is a stable failure category for programmatic error handling.
type Kind string

const (
	// KindCorruptData: magic or checksum mismatch, malformed index, or a
	// truncated stream. Nothing before validation is trusted.
	KindCorruptData Kind = "CorruptData"
	// KindInvalidArgument: a caller-side misuse, e.g. a nil root cell.
	KindInvalidArgument Kind = "InvalidArgument"
)

// Error is the structured error type of the BOC codec.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return "boc: " + e.Message
}

func newError(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// IsCorruptData reports whether err marks a rejected byte stream.
func IsCorruptData(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindCorruptData
}

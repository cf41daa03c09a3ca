package storage

import "errors"

// Sentinel errors shared by every CAS backend. Callers match them with
// errors.Is; backends wrap them with context about the failing block.
var (
	// ErrNotFound reports that no block is stored under the requested CID.
	ErrNotFound = errors.New("storage: not found")
	// ErrInvalidCID reports a CID that is undefined or not CIDv1 raw + sha2-256.
	ErrInvalidCID = errors.New("storage: invalid cid")
	// ErrCIDMismatch reports stored BOC bytes whose content address no
	// longer matches the CID they are filed under.
	ErrCIDMismatch = errors.New("storage: cid mismatch")
	// ErrImmutable reports an attempt to overwrite a stored block with
	// different bytes.
	ErrImmutable = errors.New("storage: immutable object mismatch")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

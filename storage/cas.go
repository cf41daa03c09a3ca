// Package storage defines the content-addressable storage boundary that
// serialized cell trees (BOC bytes) cross on their way to disk or the
// network, plus composition adapters over it.
package storage

import "github.com/ipfs/go-cid"

// CAS is a minimal content-addressable storage interface. The cell codec
// uses it to persist and fetch BOC bytes keyed by their CIDv1 (raw +
// sha2-256) content address.
//
// Contract:
// - Put MUST be idempotent.
// - Stored objects MUST be immutable.
// - CIDs MUST be derived from the bytes written (callers are responsible for supplying canonical bytes).
// - Get MUST return ErrNotFound when the CID is absent.
type CAS interface {
	Put(bytes []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}

package cidutil

import (
	"crypto/sha256"
	"testing"
)

func TestCIDv1RawSHA256_Deterministic(t *testing.T) {
	data := []byte("bag of cells")
	a := CIDv1RawSHA256(data)
	b := CIDv1RawSHA256(data)
	if a == "" || a != b {
		t.Fatalf("unstable CID: %q vs %q", a, b)
	}
	if c := CIDv1RawSHA256([]byte("other")); c == a {
		t.Fatal("different inputs produced the same CID")
	}
}

func TestCIDv1RawSHA256CID_MatchesString(t *testing.T) {
	data := []byte("consistency")
	id, err := CIDv1RawSHA256CID(data)
	if err != nil {
		t.Fatalf("CIDv1RawSHA256CID failed: %v", err)
	}
	if id.String() != CIDv1RawSHA256(data) {
		t.Fatalf("string form mismatch: %s vs %s", id, CIDv1RawSHA256(data))
	}
}

func TestForCellHash_MatchesDirectHashing(t *testing.T) {
	// Wrapping a precomputed sha2-256 digest must give the same CID as
	// hashing the preimage.
	data := []byte("cell content")
	direct, err := CIDv1RawSHA256CID(data)
	if err != nil {
		t.Fatalf("CIDv1RawSHA256CID failed: %v", err)
	}
	wrapped, err := ForCellHash(sha256.Sum256(data))
	if err != nil {
		t.Fatalf("ForCellHash failed: %v", err)
	}
	if direct != wrapped {
		t.Fatalf("CID mismatch: direct %s, wrapped %s", direct, wrapped)
	}
}

package storage_test

import (
	"bytes"
	"testing"

	"github.com/mazekine/nekoton-go/cidutil"
	"github.com/mazekine/nekoton-go/storage"
	"github.com/mazekine/nekoton-go/storage/localfs"
)

func newLocalCAS(t *testing.T) storage.CAS {
	t.Helper()
	cas, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatalf("localfs.New: %v", err)
	}
	return cas
}

func TestMultiCAS_PutWritesFirstAdapterOnly(t *testing.T) {
	primary := newLocalCAS(t)
	secondary := newLocalCAS(t)
	multi := storage.MultiCAS{Adapters: []storage.CAS{primary, secondary}}

	payload := []byte("multi-cas put payload")
	id, err := multi.Put(payload)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	if !primary.Has(id) {
		t.Fatalf("primary should hold %s after Put", id)
	}
	if secondary.Has(id) {
		t.Fatalf("secondary should not be written by Put")
	}
}

func TestMultiCAS_GetFallsBackInOrder(t *testing.T) {
	primary := newLocalCAS(t)
	secondary := newLocalCAS(t)
	multi := storage.MultiCAS{Adapters: []storage.CAS{primary, secondary}}

	payload := []byte("only in the secondary backend")
	id, err := secondary.Put(payload)
	if err != nil {
		t.Fatalf("secondary Put: %v", err)
	}

	got, err := multi.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("Get returned %q, want %q", got, payload)
	}
	if !multi.Has(id) {
		t.Fatalf("Has should see blocks in any adapter")
	}
}

func TestMultiCAS_GetAbsentIsNotFound(t *testing.T) {
	multi := storage.MultiCAS{Adapters: []storage.CAS{newLocalCAS(t), newLocalCAS(t)}}

	id, err := cidutil.CIDv1RawSHA256CID([]byte("never stored"))
	if err != nil {
		t.Fatalf("CIDv1RawSHA256CID: %v", err)
	}
	if _, err := multi.Get(id); !storage.IsNotFound(err) {
		t.Fatalf("Get absent: got %v, want ErrNotFound", err)
	}
	if multi.Has(id) {
		t.Fatalf("Has reported an absent block")
	}
}

func TestMultiCAS_NoAdapters(t *testing.T) {
	var multi storage.MultiCAS
	if _, err := multi.Put([]byte("x")); err == nil {
		t.Fatalf("Put with no adapters should fail")
	}
}

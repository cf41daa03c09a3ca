package contract

import (
	"math/big"
	"testing"

	"github.com/ipfs/go-cid"

	"github.com/mazekine/nekoton-go/abi"
	"github.com/mazekine/nekoton-go/cell"
	"github.com/mazekine/nekoton-go/storage"
	"github.com/mazekine/nekoton-go/storage/localfs"
)

func newCAS(t *testing.T) storage.CAS {
	t.Helper()
	cas, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatalf("localfs.New failed: %v", err)
	}
	return cas
}

func TestStoreLoadCell(t *testing.T) {
	cas := newCAS(t)

	b := cell.NewBuilder()
	if err := b.WriteUint(0x12345678, 32); err != nil {
		t.Fatalf("WriteUint failed: %v", err)
	}
	leafB := cell.NewBuilder()
	if err := leafB.WriteUint(0xEE, 8); err != nil {
		t.Fatalf("WriteUint failed: %v", err)
	}
	leaf, err := leafB.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := b.WriteRef(leaf); err != nil {
		t.Fatalf("WriteRef failed: %v", err)
	}
	root, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	id, err := StoreCell(cas, root)
	if err != nil {
		t.Fatalf("StoreCell failed: %v", err)
	}
	if !cas.Has(id) {
		t.Fatal("stored BOC missing from the CAS")
	}

	got, err := LoadCell(cas, id)
	if err != nil {
		t.Fatalf("LoadCell failed: %v", err)
	}
	if !got.Equal(root) {
		t.Fatal("cell changed through store/load")
	}
}

func TestStoreCell_IsIdempotent(t *testing.T) {
	cas := newCAS(t)

	b := cell.NewBuilder()
	if err := b.WriteUint(7, 8); err != nil {
		t.Fatalf("WriteUint failed: %v", err)
	}
	c, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	id1, err := StoreCell(cas, c)
	if err != nil {
		t.Fatalf("StoreCell failed: %v", err)
	}
	id2, err := StoreCell(cas, c)
	if err != nil {
		t.Fatalf("StoreCell again failed: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("same cell produced different CIDs: %s vs %s", id1, id2)
	}
}

func TestLoadCell_MissingCID(t *testing.T) {
	cas := newCAS(t)
	if _, err := LoadCell(cas, cid.Cid{}); err == nil {
		t.Fatal("LoadCell of an undefined CID succeeded")
	}
}

func TestHydrateData(t *testing.T) {
	cas := newCAS(t)
	c := newWallet(t)

	b := cell.NewBuilder()
	if err := abi.EncodeParams(b, c.Abi.Data, []any{abi.Uint(0xBEEF), true}); err != nil {
		t.Fatalf("EncodeParams failed: %v", err)
	}
	data, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	id, err := StoreCell(cas, data)
	if err != nil {
		t.Fatalf("StoreCell failed: %v", err)
	}

	values, err := c.HydrateData(cas, id)
	if err != nil {
		t.Fatalf("HydrateData failed: %v", err)
	}
	if values[0].(*big.Int).Uint64() != 0xBEEF || values[1] != true {
		t.Fatalf("got %v", values)
	}
}

func TestStoreCell_NilCAS(t *testing.T) {
	b := cell.NewBuilder()
	c, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, err := StoreCell(nil, c); err == nil {
		t.Fatal("StoreCell(nil CAS) succeeded")
	}
	if _, err := LoadCell(nil, cid.Cid{}); err == nil {
		t.Fatal("LoadCell(nil CAS) succeeded")
	}
}

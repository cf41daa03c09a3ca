package cell

import (
	"testing"
)

func buildUint(t *testing.T, value uint64, bits int, refs ...*Cell) *Cell {
	t.Helper()
	var b Builder
	if err := b.WriteUint(value, bits); err != nil {
		t.Fatalf("WriteUint failed: %v", err)
	}
	for _, r := range refs {
		if err := b.WriteRef(r); err != nil {
			t.Fatalf("WriteRef failed: %v", err)
		}
	}
	return mustBuild(t, &b)
}

func TestHash_Deterministic(t *testing.T) {
	a := buildUint(t, 0x12345678, 32)
	b := buildUint(t, 0x12345678, 32)
	if a.Hash() != b.Hash() {
		t.Fatal("identical cells hash differently")
	}
	if !a.Equal(b) {
		t.Fatal("Equal disagrees with Hash")
	}
	// Memoized value is stable across calls.
	if a.Hash() != a.Hash() {
		t.Fatal("hash changed between calls")
	}
}

func TestHash_SensitiveToData(t *testing.T) {
	a := buildUint(t, 0x12345678, 32)
	b := buildUint(t, 0x12345679, 32)
	if a.Hash() == b.Hash() {
		t.Fatal("one-bit data change did not change the hash")
	}
}

func TestHash_SensitiveToBitLength(t *testing.T) {
	// Same byte image, different bit lengths.
	a, err := New([]byte{0x00}, 8)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	b, err := New([]byte{0x00}, 7)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if a.Hash() == b.Hash() {
		t.Fatal("bit length is not part of the identity")
	}
}

func TestHash_SensitiveToRefOrder(t *testing.T) {
	x := buildUint(t, 1, 8)
	y := buildUint(t, 2, 8)

	xy := buildUint(t, 0, 1, x, y)
	yx := buildUint(t, 0, 1, y, x)
	if xy.Hash() == yx.Hash() {
		t.Fatal("reference order is not part of the identity")
	}
}

func TestHash_SharedSubtree(t *testing.T) {
	// Structurally identical trees built from distinct leaf objects.
	p1 := buildUint(t, 0, 1, buildUint(t, 0xEE, 8))
	p2 := buildUint(t, 0, 1, buildUint(t, 0xEE, 8))
	if p1.Hash() != p2.Hash() {
		t.Fatal("structurally identical trees hash differently")
	}
}

func TestHash_LeafVsWrapped(t *testing.T) {
	leaf := buildUint(t, 0xEE, 8)
	var b Builder
	if err := b.WriteRef(leaf); err != nil {
		t.Fatalf("WriteRef failed: %v", err)
	}
	wrapped := mustBuild(t, &b)
	if leaf.Hash() == wrapped.Hash() {
		t.Fatal("wrapping in a parent did not change the hash")
	}
}

package cell

import (
	"testing"
)

func TestSlice_ReadUintAcrossBytes(t *testing.T) {
	var b Builder
	if err := b.WriteUint(0b101, 3); err != nil {
		t.Fatalf("WriteUint failed: %v", err)
	}
	if err := b.WriteUint(0x1FFF, 13); err != nil {
		t.Fatalf("WriteUint failed: %v", err)
	}
	s := mustBuild(t, &b).BeginParse()

	first, err := s.ReadUint(3)
	if err != nil {
		t.Fatalf("ReadUint(3) failed: %v", err)
	}
	if first != 0b101 {
		t.Fatalf("first: got %b want 101", first)
	}
	second, err := s.ReadUint(13)
	if err != nil {
		t.Fatalf("ReadUint(13) failed: %v", err)
	}
	if second != 0x1FFF {
		t.Fatalf("second: got %x want 1fff", second)
	}
	if !s.IsEmpty() {
		t.Fatalf("slice not empty: %d bits %d refs left", s.BitsRemaining(), s.RefsRemaining())
	}
}

func TestSlice_FailedReadLeavesCursorUnchanged(t *testing.T) {
	var b Builder
	if err := b.WriteUint(0xAB, 8); err != nil {
		t.Fatalf("WriteUint failed: %v", err)
	}
	s := mustBuild(t, &b).BeginParse()

	if _, err := s.ReadUint(16); !IsInsufficientData(err) {
		t.Fatalf("short read: got %v, want InsufficientData", err)
	}
	if s.BitsRemaining() != 8 {
		t.Fatalf("cursor moved on failed read: %d bits remaining", s.BitsRemaining())
	}
	got, err := s.ReadUint(8)
	if err != nil {
		t.Fatalf("ReadUint(8) failed: %v", err)
	}
	if got != 0xAB {
		t.Fatalf("got %x want ab", got)
	}
}

func TestSlice_FailedVarReadLeavesCursorUnchanged(t *testing.T) {
	// Length prefix promises two bytes but only the prefix is present.
	var b Builder
	if err := b.WriteUint(2, 4); err != nil {
		t.Fatalf("WriteUint failed: %v", err)
	}
	if err := b.WriteUint(0xAA, 8); err != nil {
		t.Fatalf("WriteUint failed: %v", err)
	}
	s := mustBuild(t, &b).BeginParse()

	if _, err := s.ReadVarUint(4); !IsInsufficientData(err) {
		t.Fatalf("truncated var read: want InsufficientData")
	}
	if s.BitsRemaining() != 12 {
		t.Fatalf("cursor moved on failed read: %d bits remaining", s.BitsRemaining())
	}
}

func TestSlice_CopyIsIndependent(t *testing.T) {
	var b Builder
	if err := b.WriteUint(0xF0, 8); err != nil {
		t.Fatalf("WriteUint failed: %v", err)
	}
	s := mustBuild(t, &b).BeginParse()

	peek := s.Copy()
	if _, err := peek.ReadUint(8); err != nil {
		t.Fatalf("ReadUint on copy failed: %v", err)
	}
	if s.BitsRemaining() != 8 {
		t.Fatalf("copy advanced the original: %d bits remaining", s.BitsRemaining())
	}
}

func TestSlice_ReadRefInOrder(t *testing.T) {
	var aB, bB Builder
	if err := aB.WriteUint(1, 8); err != nil {
		t.Fatalf("WriteUint failed: %v", err)
	}
	if err := bB.WriteUint(2, 8); err != nil {
		t.Fatalf("WriteUint failed: %v", err)
	}
	first := mustBuild(t, &aB)
	second := mustBuild(t, &bB)

	var parent Builder
	if err := parent.WriteRef(first); err != nil {
		t.Fatalf("WriteRef failed: %v", err)
	}
	if err := parent.WriteRef(second); err != nil {
		t.Fatalf("WriteRef failed: %v", err)
	}
	s := mustBuild(t, &parent).BeginParse()

	got1, err := s.ReadRef()
	if err != nil {
		t.Fatalf("ReadRef failed: %v", err)
	}
	got2, err := s.ReadRef()
	if err != nil {
		t.Fatalf("ReadRef failed: %v", err)
	}
	if !got1.Equal(first) || !got2.Equal(second) {
		t.Fatal("refs came back out of order")
	}
	if _, err := s.ReadRef(); !IsInsufficientData(err) {
		t.Fatalf("exhausted refs: got %v, want InsufficientData", err)
	}
}

func TestSlice_ReadAddress_RejectsUnknownTag(t *testing.T) {
	// Tag 01 is not a supported address form.
	var b Builder
	if err := b.WriteBit(false); err != nil {
		t.Fatalf("WriteBit failed: %v", err)
	}
	if err := b.WriteBit(true); err != nil {
		t.Fatalf("WriteBit failed: %v", err)
	}
	s := mustBuild(t, &b).BeginParse()

	if _, err := s.ReadAddress(); !IsInvalidArgument(err) {
		t.Fatalf("tag 01: got %v, want InvalidArgument", err)
	}
	if s.BitsRemaining() != 2 {
		t.Fatalf("cursor moved on failed read: %d bits remaining", s.BitsRemaining())
	}
}

func TestSlice_SkipBitsAndRefs(t *testing.T) {
	var leafB Builder
	leaf := mustBuild(t, &leafB)

	var b Builder
	if err := b.WriteUint(0xFFFF, 16); err != nil {
		t.Fatalf("WriteUint failed: %v", err)
	}
	if err := b.WriteRef(leaf); err != nil {
		t.Fatalf("WriteRef failed: %v", err)
	}
	s := mustBuild(t, &b).BeginParse()

	if err := s.SkipBits(16); err != nil {
		t.Fatalf("SkipBits failed: %v", err)
	}
	if err := s.SkipRefs(1); err != nil {
		t.Fatalf("SkipRefs failed: %v", err)
	}
	if !s.IsEmpty() {
		t.Fatal("slice should be empty after skips")
	}
	if err := s.SkipBits(1); !IsInsufficientData(err) {
		t.Fatalf("skip past end: got %v, want InsufficientData", err)
	}
}

package message

import (
	"math/big"
	"strings"
	"testing"

	"github.com/mazekine/nekoton-go/address"
	"github.com/mazekine/nekoton-go/cell"
)

func addr(t *testing.T, pair string) address.Address {
	t.Helper()
	return address.MustParse("0:" + strings.Repeat(pair, address.ValueSize))
}

func bodyCell(t *testing.T) *cell.Cell {
	t.Helper()
	b := cell.NewBuilder()
	if err := b.WriteUint(0xCAFE, 16); err != nil {
		t.Fatalf("WriteUint failed: %v", err)
	}
	c, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return c
}

func roundTrip(t *testing.T, m Message) Message {
	t.Helper()
	c, err := m.ToCell()
	if err != nil {
		t.Fatalf("ToCell failed: %v", err)
	}
	got, err := FromCell(c)
	if err != nil {
		t.Fatalf("FromCell failed: %v", err)
	}
	return got
}

func TestInternal_RoundTrip(t *testing.T) {
	m := Message{
		Header: NewInternal(Internal{
			IhrDisabled: true,
			Bounce:      true,
			Src:         addr(t, "aa"),
			Dst:         addr(t, "bb"),
			Value:       big.NewInt(1_000_000_000),
			CreatedLt:   987654321,
			CreatedAt:   1700000000,
		}),
		Body: bodyCell(t),
	}
	got := roundTrip(t, m)

	if got.Header.Kind != KindInternal {
		t.Fatalf("kind: got %s want internal", got.Header.Kind)
	}
	v := got.Header.Internal
	if v == nil {
		t.Fatal("internal payload missing")
	}
	if !v.IhrDisabled || !v.Bounce || v.Bounced {
		t.Fatalf("flags: %+v", v)
	}
	if !v.Src.Equal(addr(t, "aa")) || !v.Dst.Equal(addr(t, "bb")) {
		t.Fatal("addresses changed in round trip")
	}
	if v.Value.Int64() != 1_000_000_000 {
		t.Fatalf("value: got %s", v.Value)
	}
	if v.CreatedLt != 987654321 || v.CreatedAt != 1700000000 {
		t.Fatalf("timestamps: %d %d", v.CreatedLt, v.CreatedAt)
	}
	if got.Body == nil || !got.Body.Equal(m.Body) {
		t.Fatal("body changed in round trip")
	}
}

func TestExternalIn_RoundTrip(t *testing.T) {
	m := Message{
		Header: NewExternalIn(ExternalIn{
			Dst:       addr(t, "cc"),
			ImportFee: big.NewInt(12345),
		}),
	}
	got := roundTrip(t, m)

	if got.Header.Kind != KindExternalIn {
		t.Fatalf("kind: got %s want external-in", got.Header.Kind)
	}
	v := got.Header.ExternalIn
	if v == nil {
		t.Fatal("external-in payload missing")
	}
	if !v.Dst.Equal(addr(t, "cc")) || v.ImportFee.Int64() != 12345 {
		t.Fatalf("payload: %+v", v)
	}
	if got.Body != nil {
		t.Fatal("body appeared from nowhere")
	}
}

func TestExternalOut_RoundTrip(t *testing.T) {
	m := Message{
		Header: NewExternalOut(ExternalOut{
			Src:       addr(t, "dd"),
			CreatedLt: 42,
			CreatedAt: 1699999999,
		}),
		Body: bodyCell(t),
	}
	got := roundTrip(t, m)

	if got.Header.Kind != KindExternalOut {
		t.Fatalf("kind: got %s want external-out", got.Header.Kind)
	}
	v := got.Header.ExternalOut
	if v == nil {
		t.Fatal("external-out payload missing")
	}
	if !v.Src.Equal(addr(t, "dd")) || v.CreatedLt != 42 || v.CreatedAt != 1699999999 {
		t.Fatalf("payload: %+v", v)
	}
}

func TestInternal_NilValueEncodesAsZero(t *testing.T) {
	m := Message{
		Header: NewInternal(Internal{
			Src: addr(t, "aa"),
			Dst: addr(t, "bb"),
		}),
	}
	got := roundTrip(t, m)
	if got.Header.Internal.Value.Sign() != 0 {
		t.Fatalf("value: got %s want 0", got.Header.Internal.Value)
	}
}

func TestHeader_RejectsMissingPayload(t *testing.T) {
	m := Message{Header: Header{Kind: KindInternal}}
	if _, err := m.ToCell(); err == nil {
		t.Fatal("ToCell succeeded without a payload")
	}
}

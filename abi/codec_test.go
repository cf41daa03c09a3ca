package abi

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/mazekine/nekoton-go/address"
	"github.com/mazekine/nekoton-go/cell"
)

// roundTrip encodes value under the parameter, decodes it back and returns
// the result.
func roundTrip(t *testing.T, p Param, value any) any {
	t.Helper()
	b := cell.NewBuilder()
	if err := EncodeParam(b, p, value); err != nil {
		t.Fatalf("EncodeParam(%s %s) failed: %v", p.Name, p.Type, err)
	}
	c, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	got, err := DecodeParam(c.BeginParse(), p)
	if err != nil {
		t.Fatalf("DecodeParam(%s %s) failed: %v", p.Name, p.Type, err)
	}
	return got
}

func TestCodec_Uint128(t *testing.T) {
	v, _ := new(big.Int).SetString("340282366920938463463374607431768211455", 10) // 2^128-1
	got := roundTrip(t, Param{Name: "v", Type: "uint128"}, v)
	if got.(*big.Int).Cmp(v) != 0 {
		t.Fatalf("got %s want %s", got, v)
	}
}

func TestCodec_Int64Negative(t *testing.T) {
	got := roundTrip(t, Param{Name: "v", Type: "int64"}, Int(-1))
	if got.(*big.Int).Int64() != -1 {
		t.Fatalf("got %s want -1", got)
	}
}

func TestCodec_Uint_AcceptsNativeInts(t *testing.T) {
	got := roundTrip(t, Param{Name: "v", Type: "uint32"}, uint64(4660))
	if got.(*big.Int).Uint64() != 4660 {
		t.Fatalf("got %s want 4660", got)
	}
}

func TestCodec_Bool(t *testing.T) {
	if got := roundTrip(t, Param{Name: "v", Type: "bool"}, true); got != true {
		t.Fatalf("got %v want true", got)
	}
}

func TestCodec_Bytes(t *testing.T) {
	v := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	got := roundTrip(t, Param{Name: "v", Type: "bytes"}, v)
	if !bytes.Equal(got.([]byte), v) {
		t.Fatalf("got %x want %x", got, v)
	}
}

func TestCodec_BytesEmpty(t *testing.T) {
	got := roundTrip(t, Param{Name: "v", Type: "bytes"}, []byte{})
	if len(got.([]byte)) != 0 {
		t.Fatalf("got %x want empty", got)
	}
}

func TestCodec_BytesFixed(t *testing.T) {
	v := bytes.Repeat([]byte{0xAB}, 32)
	got := roundTrip(t, Param{Name: "v", Type: "bytes32"}, v)
	if !bytes.Equal(got.([]byte), v) {
		t.Fatalf("got %x want %x", got, v)
	}

	b := cell.NewBuilder()
	err := EncodeParam(b, Param{Name: "v", Type: "bytes32"}, []byte{1, 2, 3})
	if !IsInvalidArgument(err) {
		t.Fatalf("short fixed bytes: got %v, want InvalidArgument", err)
	}
}

func TestCodec_String(t *testing.T) {
	const v = "hello, бага of cells"
	got := roundTrip(t, Param{Name: "v", Type: "string"}, v)
	if got.(string) != v {
		t.Fatalf("got %q want %q", got, v)
	}
}

func TestCodec_Address(t *testing.T) {
	addr := address.MustParse("0:abababababababababababababababababababababababababababababababab")
	got := roundTrip(t, Param{Name: "v", Type: "address"}, addr)
	if !got.(address.Address).Equal(addr) {
		t.Fatalf("got %v want %v", got, addr)
	}
}

func TestCodec_Address_RejectsAbsent(t *testing.T) {
	// A 2-bit "no address" tag is not a valid value for a plain address
	// parameter.
	b := cell.NewBuilder()
	if err := b.WriteAddress(nil); err != nil {
		t.Fatalf("WriteAddress failed: %v", err)
	}
	c, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	_, err = DecodeParam(c.BeginParse(), Param{Name: "v", Type: "address"})
	if !IsInvalidArgument(err) {
		t.Fatalf("absent address: got %v, want InvalidArgument", err)
	}
}

func TestCodec_Cell(t *testing.T) {
	inner := cell.NewBuilder()
	if err := inner.WriteUint(0x55, 8); err != nil {
		t.Fatalf("WriteUint failed: %v", err)
	}
	payload, err := inner.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	got := roundTrip(t, Param{Name: "v", Type: "cell"}, payload)
	if !got.(*cell.Cell).Equal(payload) {
		t.Fatal("cell payload changed in round trip")
	}
}

func TestCodec_Grams(t *testing.T) {
	v := big.NewInt(1_000_000_000)
	got := roundTrip(t, Param{Name: "v", Type: "grams"}, v)
	if got.(*big.Int).Cmp(v) != 0 {
		t.Fatalf("got %s want %s", got, v)
	}
}

func TestCodec_Tuple(t *testing.T) {
	p := Param{
		Name: "v",
		Type: "tuple",
		Components: []Param{
			{Name: "flag", Type: "bool"},
			{Name: "amount", Type: "uint64"},
		},
	}
	got := roundTrip(t, p, []any{true, Uint(42)}).([]any)
	if len(got) != 2 || got[0] != true || got[1].(*big.Int).Uint64() != 42 {
		t.Fatalf("got %v", got)
	}

	b := cell.NewBuilder()
	if err := EncodeParam(b, p, []any{true}); !IsInvalidArgument(err) {
		t.Fatalf("arity mismatch: got %v, want InvalidArgument", err)
	}
}

func TestCodec_Array(t *testing.T) {
	p := Param{Name: "v", Type: "uint32[]"}
	got := roundTrip(t, p, []any{Uint(1), Uint(2), Uint(3)}).([]any)
	if len(got) != 3 {
		t.Fatalf("length: got %d want 3", len(got))
	}
	for i, want := range []uint64{1, 2, 3} {
		if got[i].(*big.Int).Uint64() != want {
			t.Fatalf("elem %d: got %s want %d", i, got[i], want)
		}
	}

	if got := roundTrip(t, p, []any{}).([]any); len(got) != 0 {
		t.Fatalf("empty array: got %v", got)
	}
}

func TestCodec_Optional(t *testing.T) {
	p := Param{Name: "v", Type: "optional(uint8)"}

	if got := roundTrip(t, p, nil); got != nil {
		t.Fatalf("absent: got %v want nil", got)
	}
	got := roundTrip(t, p, Uint(7))
	if got.(*big.Int).Uint64() != 7 {
		t.Fatalf("present: got %v want 7", got)
	}
}

func TestCodec_Map_PreservesOrder(t *testing.T) {
	p := Param{Name: "v", Type: "map(uint256,address)"}
	entries := []MapEntry{
		{Key: Uint(3), Value: address.MustParse("0:0303030303030303030303030303030303030303030303030303030303030303")},
		{Key: Uint(1), Value: address.MustParse("0:0101010101010101010101010101010101010101010101010101010101010101")},
		{Key: Uint(2), Value: address.MustParse("0:0202020202020202020202020202020202020202020202020202020202020202")},
	}
	got := roundTrip(t, p, entries).([]MapEntry)
	if len(got) != 3 {
		t.Fatalf("length: got %d want 3", len(got))
	}
	for i, want := range []uint64{3, 1, 2} {
		if got[i].Key.(*big.Int).Uint64() != want {
			t.Fatalf("entry %d key: got %s want %d", i, got[i].Key, want)
		}
		if !got[i].Value.(address.Address).Equal(entries[i].Value.(address.Address)) {
			t.Fatalf("entry %d value mismatch", i)
		}
	}
}

func TestCodec_TypeMismatch(t *testing.T) {
	b := cell.NewBuilder()
	if err := EncodeParam(b, Param{Name: "v", Type: "bool"}, "yes"); !IsInvalidArgument(err) {
		t.Fatalf("string for bool: got %v, want InvalidArgument", err)
	}
	if err := EncodeParam(b, Param{Name: "v", Type: "uint8"}, true); !IsInvalidArgument(err) {
		t.Fatalf("bool for uint: got %v, want InvalidArgument", err)
	}
}

func TestCodec_UnknownTypeFailsBeforeWriting(t *testing.T) {
	b := cell.NewBuilder()
	err := EncodeParam(b, Param{Name: "v", Type: "uint300"}, Uint(1))
	if !IsUnknownType(err) {
		t.Fatalf("got %v, want UnknownAbiType", err)
	}
	if b.BitsWritten() != 0 {
		t.Fatalf("failed resolve wrote %d bits", b.BitsWritten())
	}
}

func TestCodec_EncodeParams_ArityMismatch(t *testing.T) {
	b := cell.NewBuilder()
	params := []Param{{Name: "a", Type: "bool"}}
	if err := EncodeParams(b, params, []any{true, false}); !IsInvalidArgument(err) {
		t.Fatalf("got %v, want InvalidArgument", err)
	}
}

func TestCodec_Map_SpillsIntoContinuations(t *testing.T) {
	p := Param{Name: "v", Type: "map(uint256,address)"}
	entries := make([]MapEntry, 8)
	for i := range entries {
		var a address.Address
		for j := range a.Value {
			a.Value[j] = byte(i + 1)
		}
		entries[i] = MapEntry{Key: Uint(uint64(i + 1)), Value: a}
	}

	b := cell.NewBuilder()
	if err := EncodeParam(b, p, entries); err != nil {
		t.Fatalf("EncodeParam failed: %v", err)
	}
	c, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if c.RefCount() == 0 {
		t.Fatal("eight 523-bit entries must continue in reference cells")
	}

	got, err := DecodeParam(c.BeginParse(), p)
	if err != nil {
		t.Fatalf("DecodeParam failed: %v", err)
	}
	decoded := got.([]MapEntry)
	if len(decoded) != len(entries) {
		t.Fatalf("length: got %d want %d", len(decoded), len(entries))
	}
	for i, want := range entries {
		if decoded[i].Key.(*big.Int).Uint64() != uint64(i+1) {
			t.Fatalf("entry %d key: got %s", i, decoded[i].Key)
		}
		if !decoded[i].Value.(address.Address).Equal(want.Value.(address.Address)) {
			t.Fatalf("entry %d value mismatch", i)
		}
	}
}

func TestCodec_Bytes_SpillsIntoContinuations(t *testing.T) {
	v := make([]byte, 600)
	for i := range v {
		v[i] = byte(i)
	}
	got := roundTrip(t, Param{Name: "v", Type: "bytes"}, v)
	if !bytes.Equal(got.([]byte), v) {
		t.Fatal("600-byte payload changed in round trip")
	}
}

func TestCodec_Array_SpillsIntoContinuations(t *testing.T) {
	elems := make([]any, 200)
	for i := range elems {
		elems[i] = Uint(uint64(i) * 3)
	}
	got := roundTrip(t, Param{Name: "v", Type: "uint64[]"}, elems).([]any)
	if len(got) != len(elems) {
		t.Fatalf("length: got %d want %d", len(got), len(elems))
	}
	for i := range elems {
		if got[i].(*big.Int).Uint64() != uint64(i)*3 {
			t.Fatalf("element %d: got %s", i, got[i])
		}
	}
}

func TestCodec_ParamAfterSpilledMapSurvives(t *testing.T) {
	params := []Param{
		{Name: "m", Type: "map(uint256,address)"},
		{Name: "tail", Type: "uint32"},
	}
	entries := []MapEntry{
		{Key: Uint(3), Value: address.MustParse("0:0303030303030303030303030303030303030303030303030303030303030303")},
		{Key: Uint(1), Value: address.MustParse("0:0101010101010101010101010101010101010101010101010101010101010101")},
		{Key: Uint(2), Value: address.MustParse("0:0202020202020202020202020202020202020202020202020202020202020202")},
	}

	b := cell.NewBuilder()
	if err := EncodeParams(b, params, []any{entries, Uint(0xCAFE)}); err != nil {
		t.Fatalf("EncodeParams failed: %v", err)
	}
	c, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	got, err := DecodeParams(c.BeginParse(), params)
	if err != nil {
		t.Fatalf("DecodeParams failed: %v", err)
	}
	if n := len(got[0].([]MapEntry)); n != 3 {
		t.Fatalf("map length: got %d want 3", n)
	}
	if got[1].(*big.Int).Uint64() != 0xCAFE {
		t.Fatalf("trailing parameter: got %s want cafe", got[1])
	}
}

func TestCodec_CellValues_SpillPastReferenceBudget(t *testing.T) {
	params := make([]Param, 5)
	values := make([]any, 5)
	for i := range params {
		params[i] = Param{Name: "c" + string(rune('0'+i)), Type: "cell"}
		inner := cell.NewBuilder()
		if err := inner.WriteUint(uint64(i+1), 8); err != nil {
			t.Fatalf("WriteUint failed: %v", err)
		}
		c, err := inner.Build()
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		values[i] = c
	}

	b := cell.NewBuilder()
	if err := EncodeParams(b, params, values); err != nil {
		t.Fatalf("EncodeParams failed: %v", err)
	}
	root, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	got, err := DecodeParams(root.BeginParse(), params)
	if err != nil {
		t.Fatalf("DecodeParams failed: %v", err)
	}
	for i := range values {
		if !got[i].(*cell.Cell).Equal(values[i].(*cell.Cell)) {
			t.Fatalf("cell %d changed in round trip", i)
		}
	}
}

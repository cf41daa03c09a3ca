// Command boc_vector_gen emits the deterministic serialization vectors used
// by the boc and abi conformance tests. Output is stable across runs: every
// input byte is fixed in this file.
package main

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/mazekine/nekoton-go/abi"
	"github.com/mazekine/nekoton-go/address"
	"github.com/mazekine/nekoton-go/boc"
	"github.com/mazekine/nekoton-go/cell"
	"github.com/mazekine/nekoton-go/cidutil"
)

func mustBuild(b *cell.Builder) *cell.Cell {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}

func emit(name string, root *cell.Cell) {
	raw, err := boc.Encode(root)
	if err != nil {
		panic(err)
	}
	hash := root.Hash()
	fmt.Printf("vector %s\n", name)
	fmt.Printf("  hash %s\n", hex.EncodeToString(hash[:]))
	fmt.Printf("  cid  %s\n", cidutil.CIDv1RawSHA256(raw))
	fmt.Printf("  boc  %s\n", hex.EncodeToString(raw))
}

func main() {
	// Single flat cell: 0x12345678 over 32 bits.
	var flat cell.Builder
	if err := flat.WriteUint(0x12345678, 32); err != nil {
		panic(err)
	}
	emit("flat-uint32", mustBuild(&flat))

	// Shared subtree: two parents referencing the same leaf, serialized once.
	var leafB cell.Builder
	if err := leafB.WriteUint(0xEE, 8); err != nil {
		panic(err)
	}
	leaf := mustBuild(&leafB)

	var left, right, top cell.Builder
	if err := left.WriteBit(true); err != nil {
		panic(err)
	}
	if err := left.WriteRef(leaf); err != nil {
		panic(err)
	}
	if err := right.WriteBit(false); err != nil {
		panic(err)
	}
	if err := right.WriteRef(leaf); err != nil {
		panic(err)
	}
	if err := top.WriteRef(mustBuild(&left)); err != nil {
		panic(err)
	}
	if err := top.WriteRef(mustBuild(&right)); err != nil {
		panic(err)
	}
	emit("shared-leaf-dag", mustBuild(&top))

	// ABI call body: transfer(dest address, amount uint128).
	params := []abi.Param{
		{Name: "dest", Type: "address"},
		{Name: "amount", Type: "uint128"},
	}
	var body cell.Builder
	if err := body.WriteUint(uint64(abi.NameID("transfer")&0x7FFFFFFF), 32); err != nil {
		panic(err)
	}
	dest := address.MustParse("0:" + hexRepeat("ab", 32))
	if err := abi.EncodeParams(&body, params, []any{dest, big.NewInt(1_000_000_000)}); err != nil {
		panic(err)
	}
	emit("transfer-call-body", mustBuild(&body))
}

func hexRepeat(pair string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += pair
	}
	return out
}

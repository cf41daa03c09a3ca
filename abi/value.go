package abi

import (
	"math/big"

	"github.com/mazekine/nekoton-go/address"
	"github.com/mazekine/nekoton-go/cell"
)

// Values passed to Encode and returned by Decode use one Go representation
// per type tag:
//
//	uint<N>, int<N>, grams  *big.Int
//	bool                    bool
//	bytes, bytes<N>         []byte
//	string                  string
//	address                 address.Address
//	cell                    *cell.Cell
//	tuple                   []any, one entry per component in declared order
//	T[]                     []any
//	optional(T)             nil when absent, otherwise the value of T
//	map(K,V)                []MapEntry in insertion order
//
// Decode always produces exactly these types; Encode additionally accepts
// nothing else and fails with InvalidArgument on a mismatch.

// MapEntry is one key/value pair of a map parameter. Map parameters are an
// ordered list of entries: encoding iterates them in slice order and
// decoding preserves the encounter order, so round-trips keep ordering
// without imposing a canonical sort.
type MapEntry struct {
	Key   any
	Value any
}

// Uint is a convenience constructor for unsigned integer values.
func Uint(v uint64) *big.Int { return new(big.Int).SetUint64(v) }

// Int is a convenience constructor for signed integer values.
func Int(v int64) *big.Int { return big.NewInt(v) }

func asBigInt(v any) (*big.Int, bool) {
	switch x := v.(type) {
	case *big.Int:
		return x, x != nil
	case uint64:
		return new(big.Int).SetUint64(x), true
	case int64:
		return big.NewInt(x), true
	case int:
		return big.NewInt(int64(x)), true
	}
	return nil, false
}

func asAddress(v any) (address.Address, bool) {
	switch x := v.(type) {
	case address.Address:
		return x, true
	case *address.Address:
		if x != nil {
			return *x, true
		}
	}
	return address.Address{}, false
}

func asCell(v any) (*cell.Cell, bool) {
	c, ok := v.(*cell.Cell)
	return c, ok && c != nil
}

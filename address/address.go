// Package address implements the standard account address value:
// a signed workchain identifier plus a fixed 32-byte account id.
package address

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// ValueSize is the fixed byte length of the account id part of an address.
const ValueSize = 32

// Address is a standard account address.
//
// The zero value is the address 0:0000...0000. Addresses are small value
// types and are passed by value; a *Address is used only where "no address"
// is a meaningful state (see cell.Builder.WriteAddress).
type Address struct {
	Workchain int8
	Value     [ValueSize]byte
}

// New constructs an address from a workchain and a raw 32-byte account id.
func New(workchain int8, value [ValueSize]byte) Address {
	return Address{Workchain: workchain, Value: value}
}

// Parse parses the canonical "<workchain>:<64 lowercase hex>" form.
//
// Uppercase hex is rejected: the canonical form is lowercase and Parse/String
// must round-trip exactly.
func Parse(s string) (Address, error) {
	wcPart, hexPart, ok := strings.Cut(s, ":")
	if !ok {
		return Address{}, fmt.Errorf("address: missing ':' separator in %q", s)
	}
	wc, err := strconv.ParseInt(wcPart, 10, 8)
	if err != nil {
		return Address{}, fmt.Errorf("address: invalid workchain %q: %w", wcPart, err)
	}
	if len(hexPart) != ValueSize*2 {
		return Address{}, fmt.Errorf("address: account id must be %d hex chars, got %d", ValueSize*2, len(hexPart))
	}
	if hexPart != strings.ToLower(hexPart) {
		return Address{}, fmt.Errorf("address: account id must be lowercase hex")
	}
	raw, err := hex.DecodeString(hexPart)
	if err != nil {
		return Address{}, fmt.Errorf("address: invalid account id hex: %w", err)
	}
	var a Address
	a.Workchain = int8(wc)
	copy(a.Value[:], raw)
	return a, nil
}

// MustParse is Parse for trusted constants; it panics on error.
func MustParse(s string) Address {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String returns the canonical "<workchain>:<64 lowercase hex>" form.
func (a Address) String() string {
	return strconv.Itoa(int(a.Workchain)) + ":" + hex.EncodeToString(a.Value[:])
}

// Equal reports whether two addresses are the same account.
func (a Address) Equal(b Address) bool {
	return a == b
}

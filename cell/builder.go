package cell

import (
	"fmt"
	"math/big"

	"github.com/mazekine/nekoton-go/address"
)

// Builder is a mutable accumulator that writes values into the bit and
// reference slots of a cell under construction.
//
// Every write checks the remaining budget before mutating: a failed write
// leaves the builder unchanged. A builder is single-owner and not safe for
// concurrent use. Build finalizes it; further writes are rejected until
// Clear.
type Builder struct {
	data  [128]byte // MaxBits rounded up to a byte boundary
	bits  int
	refs  []*Cell
	built *Cell
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder { return &Builder{} }

// BitsWritten returns the number of bits written so far.
func (b *Builder) BitsWritten() int { return b.bits }

// BitsRemaining returns the unused bit budget.
func (b *Builder) BitsRemaining() int { return MaxBits - b.bits }

// RefsRemaining returns the unused reference budget.
func (b *Builder) RefsRemaining() int { return MaxRefs - len(b.refs) }

func (b *Builder) ensure(op string, bits int) error {
	if b.built != nil {
		return newError(KindInvalidArgument, op, "builder already finalized; Clear before reuse")
	}
	if b.bits+bits > MaxBits {
		return newError(KindCapacityExceeded, op,
			fmt.Sprintf("%d bits requested, %d remaining of %d", bits, MaxBits-b.bits, MaxBits))
	}
	return nil
}

// writeBit appends a single bit. Callers must have passed ensure.
func (b *Builder) writeBit(bit bool) {
	if bit {
		b.data[b.bits/8] |= 1 << (7 - b.bits%8)
	}
	b.bits++
}

// writeBig appends the low `bits` bits of a non-negative v, MSB first.
func (b *Builder) writeBig(v *big.Int, bits int) {
	for i := bits - 1; i >= 0; i-- {
		b.writeBit(v.Bit(i) == 1)
	}
}

// WriteBit writes a single bit.
func (b *Builder) WriteBit(bit bool) error {
	if err := b.ensure("WriteBit", 1); err != nil {
		return err
	}
	b.writeBit(bit)
	return nil
}

// WriteUint writes value as an unsigned integer of the given width,
// most significant bit first. bits must be 1..64 and value must fit.
func (b *Builder) WriteUint(value uint64, bits int) error {
	const op = "WriteUint"
	if bits < 1 || bits > 64 {
		return newError(KindInvalidArgument, op, fmt.Sprintf("bit width %d outside 1..64", bits))
	}
	if bits < 64 && value >= 1<<uint(bits) {
		return newError(KindInvalidArgument, op, fmt.Sprintf("value %d does not fit %d bits", value, bits))
	}
	if err := b.ensure(op, bits); err != nil {
		return err
	}
	for i := bits - 1; i >= 0; i-- {
		b.writeBit(value>>uint(i)&1 == 1)
	}
	return nil
}

// WriteInt writes value as a two's-complement signed integer of the given
// width. bits must be 1..64 and value must lie in [-2^(bits-1), 2^(bits-1)).
func (b *Builder) WriteInt(value int64, bits int) error {
	const op = "WriteInt"
	if bits < 1 || bits > 64 {
		return newError(KindInvalidArgument, op, fmt.Sprintf("bit width %d outside 1..64", bits))
	}
	if bits < 64 {
		lo := int64(-1) << uint(bits-1)
		hi := int64(1)<<uint(bits-1) - 1
		if value < lo || value > hi {
			return newError(KindInvalidArgument, op, fmt.Sprintf("value %d does not fit %d signed bits", value, bits))
		}
	}
	if err := b.ensure(op, bits); err != nil {
		return err
	}
	u := uint64(value) // two's complement over 64 bits; the top bits repeat the sign
	for i := bits - 1; i >= 0; i-- {
		b.writeBit(u>>uint(i)&1 == 1)
	}
	return nil
}

// WriteBigUint writes a non-negative big integer in exactly the given width.
func (b *Builder) WriteBigUint(value *big.Int, bits int) error {
	const op = "WriteBigUint"
	if bits < 1 || bits > MaxBits {
		return newError(KindInvalidArgument, op, fmt.Sprintf("bit width %d outside 1..%d", bits, MaxBits))
	}
	if value == nil || value.Sign() < 0 {
		return newError(KindInvalidArgument, op, "value must be a non-negative integer")
	}
	if value.BitLen() > bits {
		return newError(KindInvalidArgument, op, fmt.Sprintf("value needs %d bits, width is %d", value.BitLen(), bits))
	}
	if err := b.ensure(op, bits); err != nil {
		return err
	}
	b.writeBig(value, bits)
	return nil
}

// WriteBigInt writes a big integer as two's complement in exactly the given
// width.
func (b *Builder) WriteBigInt(value *big.Int, bits int) error {
	const op = "WriteBigInt"
	if bits < 1 || bits > MaxBits {
		return newError(KindInvalidArgument, op, fmt.Sprintf("bit width %d outside 1..%d", bits, MaxBits))
	}
	if value == nil {
		return newError(KindInvalidArgument, op, "nil value")
	}
	if signedBitLen(value) > bits {
		return newError(KindInvalidArgument, op, fmt.Sprintf("value needs %d signed bits, width is %d", signedBitLen(value), bits))
	}
	if err := b.ensure(op, bits); err != nil {
		return err
	}
	b.writeBig(twosComplement(value, bits), bits)
	return nil
}

// WriteVarUint writes a variable-length unsigned integer: the minimal byte
// length of value in lengthBits bits, then the value in length*8 bits.
// A zero value writes only a zero length field.
func (b *Builder) WriteVarUint(value *big.Int, lengthBits int) error {
	return b.writeVar("WriteVarUint", value, lengthBits, false)
}

// WriteVarInt is WriteVarUint for signed values: the byte length is the
// minimal one covering the two's-complement representation including the
// sign bit.
func (b *Builder) WriteVarInt(value *big.Int, lengthBits int) error {
	return b.writeVar("WriteVarInt", value, lengthBits, true)
}

// WriteTokens writes a token amount: a variable-length unsigned integer
// under a 4-bit length prefix.
func (b *Builder) WriteTokens(amount *big.Int) error {
	return b.writeVar("WriteTokens", amount, 4, false)
}

func (b *Builder) writeVar(op string, value *big.Int, lengthBits int, signed bool) error {
	if lengthBits < 1 || lengthBits > 8 {
		return newError(KindInvalidArgument, op, fmt.Sprintf("length prefix width %d outside 1..8", lengthBits))
	}
	if value == nil {
		return newError(KindInvalidArgument, op, "nil value")
	}
	if !signed && value.Sign() < 0 {
		return newError(KindInvalidArgument, op, "value must be non-negative")
	}
	if value.Sign() == 0 {
		if err := b.ensure(op, lengthBits); err != nil {
			return err
		}
		for i := 0; i < lengthBits; i++ {
			b.writeBit(false)
		}
		return nil
	}
	var byteLength int
	if signed {
		byteLength = (signedBitLen(value) + 7) / 8
	} else {
		byteLength = (value.BitLen() + 7) / 8
	}
	maxLength := 1<<uint(lengthBits) - 1
	if byteLength > maxLength {
		return newError(KindInvalidArgument, op,
			fmt.Sprintf("value needs %d bytes, length prefix of %d bits covers at most %d", byteLength, lengthBits, maxLength))
	}
	total := lengthBits + byteLength*8
	if err := b.ensure(op, total); err != nil {
		return err
	}
	for i := lengthBits - 1; i >= 0; i-- {
		b.writeBit(byteLength>>uint(i)&1 == 1)
	}
	if signed {
		b.writeBig(twosComplement(value, byteLength*8), byteLength*8)
	} else {
		b.writeBig(value, byteLength*8)
	}
	return nil
}

// WriteBytes writes raw bytes bit-by-bit at the current cursor (the cursor
// need not be byte-aligned).
func (b *Builder) WriteBytes(p []byte) error {
	if err := b.ensure("WriteBytes", len(p)*8); err != nil {
		return err
	}
	for _, by := range p {
		for i := 7; i >= 0; i-- {
			b.writeBit(by>>uint(i)&1 == 1)
		}
	}
	return nil
}

// WriteAddress writes an address. nil writes the 2-bit "no address" tag 00;
// a concrete address writes tag 10, a zero anycast flag, the workchain as a
// signed 8-bit integer and the 32 account id bytes.
func (b *Builder) WriteAddress(a *address.Address) error {
	const op = "WriteAddress"
	if a == nil {
		if err := b.ensure(op, 2); err != nil {
			return err
		}
		b.writeBit(false)
		b.writeBit(false)
		return nil
	}
	if err := b.ensure(op, 2+1+8+address.ValueSize*8); err != nil {
		return err
	}
	b.writeBit(true)
	b.writeBit(false)
	b.writeBit(false) // anycast unsupported
	u := uint8(a.Workchain)
	for i := 7; i >= 0; i-- {
		b.writeBit(u>>uint(i)&1 == 1)
	}
	for _, by := range a.Value {
		for i := 7; i >= 0; i-- {
			b.writeBit(by>>uint(i)&1 == 1)
		}
	}
	return nil
}

// WriteRef appends a child reference.
func (b *Builder) WriteRef(c *Cell) error {
	const op = "WriteRef"
	if b.built != nil {
		return newError(KindInvalidArgument, op, "builder already finalized; Clear before reuse")
	}
	if c == nil {
		return newError(KindInvalidArgument, op, "nil cell")
	}
	if len(b.refs) >= MaxRefs {
		return newError(KindCapacityExceeded, op, fmt.Sprintf("reference budget of %d exhausted", MaxRefs))
	}
	if c.Depth()+1 > MaxDepth {
		return newError(KindCapacityExceeded, op, fmt.Sprintf("reference graph deeper than %d", MaxDepth))
	}
	b.refs = append(b.refs, c)
	return nil
}

// WriteSlice appends the remaining bits and references of a slice.
func (b *Builder) WriteSlice(s *Slice) error {
	const op = "WriteSlice"
	if s == nil {
		return newError(KindInvalidArgument, op, "nil slice")
	}
	if b.built != nil {
		return newError(KindInvalidArgument, op, "builder already finalized; Clear before reuse")
	}
	if err := b.ensure(op, s.BitsRemaining()); err != nil {
		return err
	}
	if len(b.refs)+s.RefsRemaining() > MaxRefs {
		return newError(KindCapacityExceeded, op, fmt.Sprintf("reference budget of %d exhausted", MaxRefs))
	}
	cur := s.Copy()
	for cur.BitsRemaining() > 0 {
		bit, err := cur.ReadBit()
		if err != nil {
			return err
		}
		b.writeBit(bit)
	}
	for cur.RefsRemaining() > 0 {
		r, err := cur.ReadRef()
		if err != nil {
			return err
		}
		b.refs = append(b.refs, r)
	}
	return nil
}

// Build finalizes the builder into an immutable cell, padding the last
// partial byte with zero bits. Subsequent calls return the same snapshot;
// the builder is not reusable for writes until Clear.
func (b *Builder) Build() (*Cell, error) {
	if b.built != nil {
		return b.built, nil
	}
	c, err := New(b.data[:byteLen(b.bits)], b.bits, b.refs...)
	if err != nil {
		return nil, err
	}
	b.built = c
	return c, nil
}

// Clear resets the builder to its empty state for reuse.
func (b *Builder) Clear() {
	b.data = [128]byte{}
	b.bits = 0
	b.refs = nil
	b.built = nil
}

// signedBitLen returns the minimal two's-complement width of v including
// the sign bit.
func signedBitLen(v *big.Int) int {
	if v.Sign() >= 0 {
		return v.BitLen() + 1
	}
	// v fits m bits iff v >= -2^(m-1), i.e. bitlen(-v-1) <= m-1.
	not := new(big.Int).Not(v) // -v-1
	return not.BitLen() + 1
}

// twosComplement returns the unsigned bit pattern of v over the given width.
func twosComplement(v *big.Int, bits int) *big.Int {
	if v.Sign() >= 0 {
		return v
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	return mod.Add(mod, v)
}

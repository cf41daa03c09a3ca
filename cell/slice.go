package cell

import (
	"fmt"
	"math/big"

	"github.com/mazekine/nekoton-go/address"
)

// Slice is a read cursor over an existing cell's bits and references.
//
// A slice never mutates its source. Reads are atomic: a read either fully
// succeeds or fails with InsufficientData leaving the cursor unchanged.
// Copy produces an independent cursor for lookahead.
type Slice struct {
	cell   *Cell
	bitPos int
	refPos int
}

// BitsRemaining returns the number of unread bits.
func (s *Slice) BitsRemaining() int { return s.cell.bits - s.bitPos }

// RefsRemaining returns the number of unread references.
func (s *Slice) RefsRemaining() int { return len(s.cell.refs) - s.refPos }

// IsEmpty reports whether no bits and no references remain.
func (s *Slice) IsEmpty() bool { return s.BitsRemaining() == 0 && s.RefsRemaining() == 0 }

// Copy returns an independent cursor over the same source cell.
func (s *Slice) Copy() *Slice {
	cp := *s
	return &cp
}

func (s *Slice) needBits(op string, n int) error {
	if n < 0 {
		return newError(KindInvalidArgument, op, fmt.Sprintf("negative bit count %d", n))
	}
	if rem := s.BitsRemaining(); n > rem {
		return newError(KindInsufficientData, op, fmt.Sprintf("%d bits requested, %d remaining", n, rem))
	}
	return nil
}

// bitAt returns the bit at absolute position i without advancing.
func (s *Slice) bitAt(i int) bool {
	return s.cell.data[i/8]&(1<<(7-i%8)) != 0
}

// ReadBit reads a single bit.
func (s *Slice) ReadBit() (bool, error) {
	if err := s.needBits("ReadBit", 1); err != nil {
		return false, err
	}
	bit := s.bitAt(s.bitPos)
	s.bitPos++
	return bit, nil
}

// ReadUint reads an unsigned integer of the given width (1..64),
// most significant bit first.
func (s *Slice) ReadUint(bits int) (uint64, error) {
	const op = "ReadUint"
	if bits < 1 || bits > 64 {
		return 0, newError(KindInvalidArgument, op, fmt.Sprintf("bit width %d outside 1..64", bits))
	}
	if err := s.needBits(op, bits); err != nil {
		return 0, err
	}
	var v uint64
	for i := 0; i < bits; i++ {
		v <<= 1
		if s.bitAt(s.bitPos + i) {
			v |= 1
		}
	}
	s.bitPos += bits
	return v, nil
}

// ReadInt reads a two's-complement signed integer of the given width
// (1..64): if the top bit of the unsigned pattern is set, 2^bits is
// subtracted.
func (s *Slice) ReadInt(bits int) (int64, error) {
	const op = "ReadInt"
	if bits < 1 || bits > 64 {
		return 0, newError(KindInvalidArgument, op, fmt.Sprintf("bit width %d outside 1..64", bits))
	}
	u, err := s.ReadUint(bits)
	if err != nil {
		return 0, err
	}
	if bits < 64 && u&(1<<uint(bits-1)) != 0 {
		return int64(u) - int64(1)<<uint(bits), nil
	}
	return int64(u), nil
}

// ReadBigUint reads an unsigned integer of the given width (1..MaxBits).
func (s *Slice) ReadBigUint(bits int) (*big.Int, error) {
	const op = "ReadBigUint"
	if bits < 1 || bits > MaxBits {
		return nil, newError(KindInvalidArgument, op, fmt.Sprintf("bit width %d outside 1..%d", bits, MaxBits))
	}
	if err := s.needBits(op, bits); err != nil {
		return nil, err
	}
	v := new(big.Int)
	for i := 0; i < bits; i++ {
		v.Lsh(v, 1)
		if s.bitAt(s.bitPos + i) {
			v.SetBit(v, 0, 1)
		}
	}
	s.bitPos += bits
	return v, nil
}

// ReadBigInt reads a two's-complement signed integer of the given width.
func (s *Slice) ReadBigInt(bits int) (*big.Int, error) {
	v, err := s.ReadBigUint(bits)
	if err != nil {
		return nil, err
	}
	if v.Bit(bits-1) == 1 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(bits))
		v.Sub(v, mod)
	}
	return v, nil
}

// ReadVarUint reads a variable-length unsigned integer written by
// WriteVarUint: a byte length in lengthBits bits, then the value.
func (s *Slice) ReadVarUint(lengthBits int) (*big.Int, error) {
	return s.readVar("ReadVarUint", lengthBits, false)
}

// ReadVarInt reads a variable-length signed integer written by WriteVarInt.
func (s *Slice) ReadVarInt(lengthBits int) (*big.Int, error) {
	return s.readVar("ReadVarInt", lengthBits, true)
}

// ReadTokens reads a token amount written by WriteTokens.
func (s *Slice) ReadTokens() (*big.Int, error) {
	return s.readVar("ReadTokens", 4, false)
}

func (s *Slice) readVar(op string, lengthBits int, signed bool) (*big.Int, error) {
	if lengthBits < 1 || lengthBits > 8 {
		return nil, newError(KindInvalidArgument, op, fmt.Sprintf("length prefix width %d outside 1..8", lengthBits))
	}
	cur := s.Copy()
	length, err := cur.ReadUint(lengthBits)
	if err != nil {
		return nil, err
	}
	if length == 0 {
		s.bitPos = cur.bitPos
		return new(big.Int), nil
	}
	var v *big.Int
	if signed {
		v, err = cur.ReadBigInt(int(length) * 8)
	} else {
		v, err = cur.ReadBigUint(int(length) * 8)
	}
	if err != nil {
		return nil, err
	}
	s.bitPos = cur.bitPos
	return v, nil
}

// ReadBytes reads count raw bytes from the current cursor (the cursor need
// not be byte-aligned).
func (s *Slice) ReadBytes(count int) ([]byte, error) {
	const op = "ReadBytes"
	if count < 0 {
		return nil, newError(KindInvalidArgument, op, fmt.Sprintf("negative byte count %d", count))
	}
	if err := s.needBits(op, count*8); err != nil {
		return nil, err
	}
	out := make([]byte, count)
	for i := range out {
		var by byte
		for j := 0; j < 8; j++ {
			by <<= 1
			if s.bitAt(s.bitPos + i*8 + j) {
				by |= 1
			}
		}
		out[i] = by
	}
	s.bitPos += count * 8
	return out, nil
}

// ReadAddress reads an address written by WriteAddress. Tag 00 yields nil
// ("no address"); tag 10 yields a standard address. Any other tag is a
// decode failure.
func (s *Slice) ReadAddress() (*address.Address, error) {
	const op = "ReadAddress"
	cur := s.Copy()
	hi, err := cur.ReadBit()
	if err != nil {
		return nil, err
	}
	lo, err := cur.ReadBit()
	if err != nil {
		return nil, err
	}
	switch {
	case !hi && !lo:
		s.bitPos = cur.bitPos
		return nil, nil
	case hi && !lo:
		anycast, err := cur.ReadBit()
		if err != nil {
			return nil, err
		}
		if anycast {
			return nil, newError(KindInvalidArgument, op, "anycast addresses are not supported")
		}
		wc, err := cur.ReadInt(8)
		if err != nil {
			return nil, err
		}
		raw, err := cur.ReadBytes(address.ValueSize)
		if err != nil {
			return nil, err
		}
		var a address.Address
		a.Workchain = int8(wc)
		copy(a.Value[:], raw)
		s.bitPos = cur.bitPos
		return &a, nil
	default:
		tag := 0
		if hi {
			tag |= 2
		}
		if lo {
			tag |= 1
		}
		return nil, newError(KindInvalidArgument, op, fmt.Sprintf("unsupported address tag %02b", tag))
	}
}

// ReadRef reads the next child reference.
func (s *Slice) ReadRef() (*Cell, error) {
	const op = "ReadRef"
	if s.RefsRemaining() == 0 {
		return nil, newError(KindInsufficientData, op, "no references remaining")
	}
	r := s.cell.refs[s.refPos]
	s.refPos++
	return r, nil
}

// SkipBits advances the cursor past count bits.
func (s *Slice) SkipBits(count int) error {
	if err := s.needBits("SkipBits", count); err != nil {
		return err
	}
	s.bitPos += count
	return nil
}

// SkipRefs advances the cursor past count references.
func (s *Slice) SkipRefs(count int) error {
	const op = "SkipRefs"
	if count < 0 {
		return newError(KindInvalidArgument, op, fmt.Sprintf("negative reference count %d", count))
	}
	if rem := s.RefsRemaining(); count > rem {
		return newError(KindInsufficientData, op, fmt.Sprintf("%d references requested, %d remaining", count, rem))
	}
	s.refPos += count
	return nil
}

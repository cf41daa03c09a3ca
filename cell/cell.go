// Package cell implements the bounded, reference-linked binary container
// that carries blockchain state, message bodies and ABI payloads.
//
// A Cell holds up to 1023 bits of data and up to 4 ordered references to
// other cells; references form a DAG, never a cycle. Cells are immutable and
// content-addressed: two structurally identical cells hash identically and
// may be deduplicated (see the boc package).
//
// Cells are produced by a Builder and consumed through a Slice. Builders and
// slices are single-owner cursors and must not be shared across goroutines;
// a finished Cell is safe for concurrent reads.
package cell

import (
	"fmt"
	"sync"
)

const (
	// MaxBits is the hard per-cell data budget.
	MaxBits = 1023
	// MaxRefs is the hard per-cell reference budget.
	MaxRefs = 4
	// MaxDepth bounds the reference graph height accepted by this codec.
	MaxDepth = 1024
)

// Cell is an immutable binary node: data bits plus ordered child references.
type Cell struct {
	data []byte // ceil(bits/8) bytes; unused trailing bits are zero
	bits int
	refs []*Cell

	// depth is 0 for a leaf and 1+max(child depths) otherwise.
	depth int

	hashOnce sync.Once
	hash     [HashSize]byte
}

// New constructs a cell from raw data bits and child references.
//
// data must hold at least ceil(bits/8) bytes; unused trailing bits of the
// last byte must be zero (Builder guarantees this, and boc.Decode enforces
// it on untrusted input).
func New(data []byte, bits int, refs ...*Cell) (*Cell, error) {
	if bits < 0 {
		return nil, newError(KindInvalidArgument, "New", fmt.Sprintf("negative bit length %d", bits))
	}
	if bits > MaxBits {
		return nil, newError(KindCapacityExceeded, "New", fmt.Sprintf("bit length %d exceeds limit %d", bits, MaxBits))
	}
	if len(refs) > MaxRefs {
		return nil, newError(KindCapacityExceeded, "New", fmt.Sprintf("%d references exceeds limit %d", len(refs), MaxRefs))
	}
	n := byteLen(bits)
	if len(data) < n {
		return nil, newError(KindInvalidArgument, "New", fmt.Sprintf("data holds %d bytes, need %d for %d bits", len(data), n, bits))
	}
	c := &Cell{
		data: append([]byte(nil), data[:n]...),
		bits: bits,
	}
	if rem := bits % 8; rem != 0 && n > 0 {
		// Normalize: zero the bits past the cursor so structural equality
		// does not depend on caller-supplied padding.
		c.data[n-1] &= byte(0xFF << (8 - rem))
	}
	for _, r := range refs {
		if r == nil {
			return nil, newError(KindInvalidArgument, "New", "nil reference")
		}
		if r.depth+1 > MaxDepth {
			return nil, newError(KindCapacityExceeded, "New", fmt.Sprintf("reference graph deeper than %d", MaxDepth))
		}
		if r.depth+1 > c.depth {
			c.depth = r.depth + 1
		}
		c.refs = append(c.refs, r)
	}
	return c, nil
}

// Bits returns the number of data bits stored in the cell.
func (c *Cell) Bits() int { return c.bits }

// Data returns a copy of the cell's data bytes (ceil(Bits/8) of them).
func (c *Cell) Data() []byte { return append([]byte(nil), c.data...) }

// RefCount returns the number of child references.
func (c *Cell) RefCount() int { return len(c.refs) }

// Ref returns the i-th child reference.
func (c *Cell) Ref(i int) (*Cell, error) {
	if i < 0 || i >= len(c.refs) {
		return nil, newError(KindInvalidArgument, "Ref", fmt.Sprintf("reference index %d outside 0..%d", i, len(c.refs)-1))
	}
	return c.refs[i], nil
}

// Refs returns a copy of the ordered child reference list.
func (c *Cell) Refs() []*Cell { return append([]*Cell(nil), c.refs...) }

// Depth returns the height of the reference graph rooted at the cell
// (0 for a leaf).
func (c *Cell) Depth() int { return c.depth }

// BeginParse returns a fresh read cursor over the cell.
func (c *Cell) BeginParse() *Slice {
	return &Slice{cell: c}
}

// Equal reports structural equality: identical data bits, bit length and
// reference hashes in order.
func (c *Cell) Equal(o *Cell) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.Hash() == o.Hash()
}

func (c *Cell) String() string {
	return fmt.Sprintf("Cell{bits: %d, refs: %d, hash: %x}", c.bits, len(c.refs), c.Hash())
}

func byteLen(bits int) int { return (bits + 7) / 8 }

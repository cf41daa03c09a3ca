package cell

import "crypto/sha256"

// HashSize is the byte length of a cell content hash.
const HashSize = sha256.Size

// Hash returns the canonical content hash of the cell.
//
// The hash is defined recursively over the reference DAG: sha256 of a
// two-field descriptor (reference count, bit length), the data bits padded
// to a byte boundary with a single terminal 1 bit followed by zeros when the
// bit length is not a multiple of 8 ("bit completion"), and the 32-byte
// hashes of each reference in order. It is memoized; cells are immutable so
// the first computation is authoritative.
func (c *Cell) Hash() [HashSize]byte {
	c.hashOnce.Do(func() {
		h := sha256.New()
		h.Write([]byte{
			byte(len(c.refs)),
			byte(c.bits >> 8),
			byte(c.bits),
		})
		h.Write(c.dataWithCompletion())
		for _, r := range c.refs {
			rh := r.Hash()
			h.Write(rh[:])
		}
		h.Sum(c.hash[:0])
	})
	return c.hash
}

// dataWithCompletion returns the cell data padded to a byte boundary.
// A terminal 1 bit marks the end of the payload when the bit length is not
// byte-aligned; construction already guarantees zero bits past the cursor.
func (c *Cell) dataWithCompletion() []byte {
	rem := c.bits % 8
	if rem == 0 {
		return c.data
	}
	out := append([]byte(nil), c.data...)
	out[len(out)-1] |= 1 << (7 - rem)
	return out
}

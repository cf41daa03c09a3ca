// Package boc implements the Bag of Cells codec: a flat, deduplicating byte
// serialization of a cell DAG.
//
// Layout (all integers big-endian):
//
//	magic      u32   0xB0C0CE11
//	cellCount  u32
//	rootIndex  u32
//	refWidth   u8    minimal bytes addressing cellCount cells
//	cells      cellCount entries, children before parents:
//	             refCount  u8
//	             bitLength u16
//	             data      ceil(bitLength/8) bytes
//	             refs      refCount indices of refWidth bytes each,
//	                       all pointing at earlier entries
//	checksum   u32   CRC-32C (Castagnoli) over every preceding byte
//
// Structurally identical sub-cells (equal content hash) are stored exactly
// once and shared by index, which is the core space-saving property of the
// format. Decode validates magic and checksum before trusting any content.
package boc

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/mazekine/nekoton-go/cell"
)

// Magic identifies a serialized bag of cells.
const Magic uint32 = 0xB0C0CE11

// maxCells bounds decode-side allocation for hostile inputs.
const maxCells = 1 << 20

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Encode serializes the DAG rooted at root.
func Encode(root *cell.Cell) ([]byte, error) {
	if root == nil {
		return nil, newError(KindInvalidArgument, "nil root cell")
	}

	// Topological order with children first, one entry per distinct hash.
	index := make(map[[cell.HashSize]byte]int)
	var order []*cell.Cell
	var visit func(c *cell.Cell)
	visit = func(c *cell.Cell) {
		h := c.Hash()
		if _, ok := index[h]; ok {
			return
		}
		for _, r := range c.Refs() {
			visit(r)
		}
		index[h] = len(order)
		order = append(order, c)
	}
	visit(root)

	refWidth := indexWidth(len(order))

	var out []byte
	out = binary.BigEndian.AppendUint32(out, Magic)
	out = binary.BigEndian.AppendUint32(out, uint32(len(order)))
	out = binary.BigEndian.AppendUint32(out, uint32(index[root.Hash()]))
	out = append(out, byte(refWidth))

	for _, c := range order {
		out = append(out, byte(c.RefCount()))
		out = binary.BigEndian.AppendUint16(out, uint16(c.Bits()))
		out = append(out, c.Data()...)
		for _, r := range c.Refs() {
			out = appendIndex(out, index[r.Hash()], refWidth)
		}
	}

	return binary.BigEndian.AppendUint32(out, crc32.Checksum(out, castagnoli)), nil
}

// Decode parses a serialized bag of cells and returns its root.
//
// The magic marker and trailing checksum are verified before any content is
// trusted; malformed indices and truncated streams fail with CorruptData.
func Decode(data []byte) (*cell.Cell, error) {
	const headerLen = 4 + 4 + 4 + 1
	if len(data) < headerLen+4 {
		return nil, newError(KindCorruptData, fmt.Sprintf("stream of %d bytes is shorter than any valid bag", len(data)))
	}
	if got := binary.BigEndian.Uint32(data); got != Magic {
		return nil, newError(KindCorruptData, fmt.Sprintf("bad magic %08x, want %08x", got, Magic))
	}
	body, tail := data[:len(data)-4], data[len(data)-4:]
	if got, want := binary.BigEndian.Uint32(tail), crc32.Checksum(body, castagnoli); got != want {
		return nil, newError(KindCorruptData, fmt.Sprintf("checksum mismatch: stream %08x, computed %08x", got, want))
	}

	cellCount := int(binary.BigEndian.Uint32(data[4:]))
	rootIndex := int(binary.BigEndian.Uint32(data[8:]))
	refWidth := int(data[12])
	if cellCount == 0 || cellCount > maxCells {
		return nil, newError(KindCorruptData, fmt.Sprintf("cell count %d outside 1..%d", cellCount, maxCells))
	}
	if rootIndex >= cellCount {
		return nil, newError(KindCorruptData, fmt.Sprintf("root index %d outside declared cell count %d", rootIndex, cellCount))
	}
	if refWidth < 1 || refWidth > 4 || refWidth < indexWidth(cellCount) {
		return nil, newError(KindCorruptData, fmt.Sprintf("reference index width %d cannot address %d cells", refWidth, cellCount))
	}

	r := reader{data: body[headerLen:]}
	cells := make([]*cell.Cell, 0, cellCount)
	for i := 0; i < cellCount; i++ {
		refCount, err := r.byte()
		if err != nil {
			return nil, err
		}
		if int(refCount) > cell.MaxRefs {
			return nil, newError(KindCorruptData, fmt.Sprintf("cell %d declares %d references, limit is %d", i, refCount, cell.MaxRefs))
		}
		bits, err := r.uint16()
		if err != nil {
			return nil, err
		}
		if int(bits) > cell.MaxBits {
			return nil, newError(KindCorruptData, fmt.Sprintf("cell %d declares %d bits, limit is %d", i, bits, cell.MaxBits))
		}
		payload, err := r.bytes((int(bits) + 7) / 8)
		if err != nil {
			return nil, err
		}
		// Canonical form: bits past the declared length must be zero, so
		// that decode followed by encode reproduces the input bytes.
		if rem := int(bits) % 8; rem != 0 && payload[len(payload)-1]&(0xFF>>rem) != 0 {
			return nil, newError(KindCorruptData, fmt.Sprintf("cell %d has nonzero padding past bit %d", i, bits))
		}
		refs := make([]*cell.Cell, 0, refCount)
		for j := 0; j < int(refCount); j++ {
			idx, err := r.index(refWidth)
			if err != nil {
				return nil, err
			}
			// Dependency order: a cell may only reference earlier entries.
			if idx >= i {
				return nil, newError(KindCorruptData, fmt.Sprintf("cell %d references entry %d which is not yet defined", i, idx))
			}
			refs = append(refs, cells[idx])
		}
		c, err := cell.New(payload, int(bits), refs...)
		if err != nil {
			return nil, newError(KindCorruptData, fmt.Sprintf("cell %d rejected: %v", i, err))
		}
		cells = append(cells, c)
	}
	if r.remaining() != 0 {
		return nil, newError(KindCorruptData, fmt.Sprintf("%d trailing bytes after last cell", r.remaining()))
	}
	return cells[rootIndex], nil
}

// indexWidth returns the minimal byte width addressing count cells.
func indexWidth(count int) int {
	w := 1
	for max := 1 << 8; count > max; max <<= 8 {
		w++
	}
	return w
}

func appendIndex(out []byte, idx, width int) []byte {
	for i := width - 1; i >= 0; i-- {
		out = append(out, byte(idx>>(8*i)))
	}
	return out
}

type reader struct {
	data []byte
	pos  int
}

func (r *reader) remaining() int { return len(r.data) - r.pos }

func (r *reader) bytes(n int) ([]byte, error) {
	if r.remaining() < n {
		return nil, newError(KindCorruptData, fmt.Sprintf("truncated stream: %d bytes requested, %d remaining", n, r.remaining()))
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *reader) byte() (byte, error) {
	b, err := r.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) uint16() (uint16, error) {
	b, err := r.bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *reader) index(width int) (int, error) {
	b, err := r.bytes(width)
	if err != nil {
		return 0, err
	}
	v := 0
	for _, by := range b {
		v = v<<8 | int(by)
	}
	return v, nil
}

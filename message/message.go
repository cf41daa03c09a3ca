// Package message models blockchain messages: a sealed set of header
// variants plus an optional body cell.
//
// Headers are a tagged union, not a type hierarchy: Header carries a Kind
// tag and exactly one populated variant payload; consumers switch
// exhaustively on Kind. On the wire the variants are distinguished by their
// leading tag bits: internal 0, external-in 10, external-out 11.
package message

import (
	"fmt"
	"math/big"

	"github.com/mazekine/nekoton-go/address"
	"github.com/mazekine/nekoton-go/cell"
)

// HeaderKind tags the message header variant.
type HeaderKind uint8

const (
	KindInternal HeaderKind = iota
	KindExternalIn
	KindExternalOut
)

func (k HeaderKind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindExternalIn:
		return "external-in"
	case KindExternalOut:
		return "external-out"
	}
	return fmt.Sprintf("HeaderKind(%d)", uint8(k))
}

// Internal is a message between two on-chain accounts.
type Internal struct {
	IhrDisabled bool
	Bounce      bool
	Bounced     bool
	Src         address.Address
	Dst         address.Address
	Value       *big.Int // token amount
	CreatedLt   uint64
	CreatedAt   uint32
}

// ExternalIn is a message entering the chain from outside.
type ExternalIn struct {
	Dst       address.Address
	ImportFee *big.Int
}

// ExternalOut is a message emitted by a contract to the outside.
type ExternalOut struct {
	Src       address.Address
	CreatedLt uint64
	CreatedAt uint32
}

// Header is the tagged union of the three variants. Exactly one payload
// field matching Kind is non-nil.
type Header struct {
	Kind        HeaderKind
	Internal    *Internal
	ExternalIn  *ExternalIn
	ExternalOut *ExternalOut
}

// NewInternal wraps an internal header payload.
func NewInternal(h Internal) Header { return Header{Kind: KindInternal, Internal: &h} }

// NewExternalIn wraps an external-in header payload.
func NewExternalIn(h ExternalIn) Header { return Header{Kind: KindExternalIn, ExternalIn: &h} }

// NewExternalOut wraps an external-out header payload.
func NewExternalOut(h ExternalOut) Header { return Header{Kind: KindExternalOut, ExternalOut: &h} }

// Message is a header plus an optional body cell, stored as a reference.
type Message struct {
	Header Header
	Body   *cell.Cell
}

// ToCell encodes the message: header bits, then a 1-bit body presence flag
// and the body as a reference when present.
func (m Message) ToCell() (*cell.Cell, error) {
	b := cell.NewBuilder()
	if err := m.Header.writeTo(b); err != nil {
		return nil, err
	}
	if m.Body == nil {
		if err := b.WriteBit(false); err != nil {
			return nil, err
		}
	} else {
		if err := b.WriteBit(true); err != nil {
			return nil, err
		}
		if err := b.WriteRef(m.Body); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

func (h Header) writeTo(b *cell.Builder) error {
	switch h.Kind {
	case KindInternal:
		v := h.Internal
		if v == nil {
			return fmt.Errorf("message: internal header without payload")
		}
		for _, bit := range []bool{false, v.IhrDisabled, v.Bounce, v.Bounced} {
			if err := b.WriteBit(bit); err != nil {
				return err
			}
		}
		if err := b.WriteAddress(&v.Src); err != nil {
			return err
		}
		if err := b.WriteAddress(&v.Dst); err != nil {
			return err
		}
		if err := b.WriteTokens(amountOrZero(v.Value)); err != nil {
			return err
		}
		if err := b.WriteUint(v.CreatedLt, 64); err != nil {
			return err
		}
		return b.WriteUint(uint64(v.CreatedAt), 32)

	case KindExternalIn:
		v := h.ExternalIn
		if v == nil {
			return fmt.Errorf("message: external-in header without payload")
		}
		for _, bit := range []bool{true, false} {
			if err := b.WriteBit(bit); err != nil {
				return err
			}
		}
		if err := b.WriteAddress(&v.Dst); err != nil {
			return err
		}
		return b.WriteTokens(amountOrZero(v.ImportFee))

	case KindExternalOut:
		v := h.ExternalOut
		if v == nil {
			return fmt.Errorf("message: external-out header without payload")
		}
		for _, bit := range []bool{true, true} {
			if err := b.WriteBit(bit); err != nil {
				return err
			}
		}
		if err := b.WriteAddress(&v.Src); err != nil {
			return err
		}
		if err := b.WriteUint(v.CreatedLt, 64); err != nil {
			return err
		}
		return b.WriteUint(uint64(v.CreatedAt), 32)
	}
	return fmt.Errorf("message: unhandled header kind %s", h.Kind)
}

// FromCell decodes a message produced by ToCell.
func FromCell(c *cell.Cell) (Message, error) {
	s := c.BeginParse()
	h, err := readHeader(s)
	if err != nil {
		return Message{}, err
	}
	m := Message{Header: h}
	hasBody, err := s.ReadBit()
	if err != nil {
		return Message{}, err
	}
	if hasBody {
		body, err := s.ReadRef()
		if err != nil {
			return Message{}, err
		}
		m.Body = body
	}
	return m, nil
}

func readHeader(s *cell.Slice) (Header, error) {
	first, err := s.ReadBit()
	if err != nil {
		return Header{}, err
	}
	if !first {
		var v Internal
		if v.IhrDisabled, err = s.ReadBit(); err != nil {
			return Header{}, err
		}
		if v.Bounce, err = s.ReadBit(); err != nil {
			return Header{}, err
		}
		if v.Bounced, err = s.ReadBit(); err != nil {
			return Header{}, err
		}
		src, err := s.ReadAddress()
		if err != nil {
			return Header{}, err
		}
		dst, err := s.ReadAddress()
		if err != nil {
			return Header{}, err
		}
		if src == nil || dst == nil {
			return Header{}, fmt.Errorf("message: internal header requires concrete src and dst")
		}
		v.Src, v.Dst = *src, *dst
		if v.Value, err = s.ReadTokens(); err != nil {
			return Header{}, err
		}
		if v.CreatedLt, err = s.ReadUint(64); err != nil {
			return Header{}, err
		}
		at, err := s.ReadUint(32)
		if err != nil {
			return Header{}, err
		}
		v.CreatedAt = uint32(at)
		return NewInternal(v), nil
	}

	second, err := s.ReadBit()
	if err != nil {
		return Header{}, err
	}
	if !second {
		var v ExternalIn
		dst, err := s.ReadAddress()
		if err != nil {
			return Header{}, err
		}
		if dst == nil {
			return Header{}, fmt.Errorf("message: external-in header requires a concrete dst")
		}
		v.Dst = *dst
		if v.ImportFee, err = s.ReadTokens(); err != nil {
			return Header{}, err
		}
		return NewExternalIn(v), nil
	}

	var v ExternalOut
	src, err := s.ReadAddress()
	if err != nil {
		return Header{}, err
	}
	if src == nil {
		return Header{}, fmt.Errorf("message: external-out header requires a concrete src")
	}
	v.Src = *src
	if v.CreatedLt, err = s.ReadUint(64); err != nil {
		return Header{}, err
	}
	at, err := s.ReadUint(32)
	if err != nil {
		return Header{}, err
	}
	v.CreatedAt = uint32(at)
	return NewExternalOut(v), nil
}

func amountOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

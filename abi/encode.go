package abi

import (
	"fmt"
	"math"

	"github.com/mazekine/nekoton-go/cell"
)

// chainWriter appends values to a chain of builders. When the running
// builder cannot hold the next write, the writer continues in a fresh
// builder and, on finish, links each builder to its successor through the
// final reference slot. Each value reference is preceded by a one-bit
// marker (1 = the reference lives in the continuation segment), so the
// reader never confuses a value reference with the continuation link.
type chainWriter struct {
	cur  *cell.Builder
	segs []*cell.Builder
}

func newChainWriter(b *cell.Builder) *chainWriter {
	return &chainWriter{cur: b, segs: []*cell.Builder{b}}
}

func (w *chainWriter) spill() {
	nb := cell.NewBuilder()
	w.segs = append(w.segs, nb)
	w.cur = nb
}

// write applies fn to the running builder, spilling into a continuation on
// a capacity failure. fn must be a single atomic builder write.
func (w *chainWriter) write(fn func(*cell.Builder) error) error {
	err := fn(w.cur)
	if err == nil || !cell.IsCapacityExceeded(err) {
		return err
	}
	w.spill()
	return fn(w.cur)
}

// writeRef stores a value reference behind its marker bit, keeping the
// last reference slot of every segment free for the continuation link.
func (w *chainWriter) writeRef(c *cell.Cell) error {
	if w.cur.BitsRemaining() == 0 {
		w.spill()
	}
	if w.cur.RefsRemaining() < 2 {
		if err := w.cur.WriteBit(true); err != nil {
			return err
		}
		w.spill()
	} else if err := w.cur.WriteBit(false); err != nil {
		return err
	}
	return w.cur.WriteRef(c)
}

// writeBytes stores p in whole-byte runs, splitting across continuations
// when the running builder fills up.
func (w *chainWriter) writeBytes(p []byte) error {
	for len(p) > 0 {
		n := w.cur.BitsRemaining() / 8
		if n == 0 {
			w.spill()
			continue
		}
		if n > len(p) {
			n = len(p)
		}
		if err := w.cur.WriteBytes(p[:n]); err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

// finish seals the continuation chain, linking each builder to its
// successor. The caller's builder is left unsealed for further writes.
func (w *chainWriter) finish() error {
	for i := len(w.segs) - 1; i > 0; i-- {
		c, err := w.segs[i].Build()
		if err != nil {
			return err
		}
		if err := w.segs[i-1].WriteRef(c); err != nil {
			return err
		}
	}
	w.segs = w.segs[:1]
	w.cur = w.segs[0]
	return nil
}

// EncodeParam writes value into b according to the parameter's declared
// type. Type strings are resolved up front; traversal failures surface the
// underlying cell-layer error unchanged.
//
// Values that exceed the builder's remaining budget continue in a chain of
// reference cells; DecodeParam follows the same chain.
func EncodeParam(b *cell.Builder, p Param, value any) error {
	t, err := p.Resolve()
	if err != nil {
		return err
	}
	w := newChainWriter(b)
	if err := encodeValue(w, p.Name, t, value); err != nil {
		return err
	}
	return w.finish()
}

// EncodeParams writes one value per parameter, in declared order, into the
// same bit stream. All parameters share one continuation chain.
func EncodeParams(b *cell.Builder, params []Param, values []any) error {
	if len(params) != len(values) {
		return newError(KindInvalidArgument, "",
			fmt.Sprintf("%d values for %d parameters", len(values), len(params)))
	}
	w := newChainWriter(b)
	for i, p := range params {
		t, err := p.Resolve()
		if err != nil {
			return err
		}
		if err := encodeValue(w, p.Name, t, values[i]); err != nil {
			return err
		}
	}
	return w.finish()
}

func encodeValue(w *chainWriter, name string, t *Type, value any) error {
	switch t.Tag {
	case TagUint:
		v, ok := asBigInt(value)
		if !ok {
			return typeMismatch(name, t, value)
		}
		return w.write(func(b *cell.Builder) error { return b.WriteBigUint(v, t.Bits) })

	case TagInt:
		v, ok := asBigInt(value)
		if !ok {
			return typeMismatch(name, t, value)
		}
		return w.write(func(b *cell.Builder) error { return b.WriteBigInt(v, t.Bits) })

	case TagBool:
		v, ok := value.(bool)
		if !ok {
			return typeMismatch(name, t, value)
		}
		return w.write(func(b *cell.Builder) error { return b.WriteBit(v) })

	case TagBytes:
		v, ok := value.([]byte)
		if !ok {
			return typeMismatch(name, t, value)
		}
		return writeCounted(w, name, v)

	case TagBytesFixed:
		v, ok := value.([]byte)
		if !ok {
			return typeMismatch(name, t, value)
		}
		if len(v) != t.Bits {
			return newError(KindInvalidArgument, name,
				fmt.Sprintf("fixed bytes length %d, got %d", t.Bits, len(v)))
		}
		return w.writeBytes(v)

	case TagString:
		v, ok := value.(string)
		if !ok {
			return typeMismatch(name, t, value)
		}
		return writeCounted(w, name, []byte(v))

	case TagAddress:
		v, ok := asAddress(value)
		if !ok {
			return typeMismatch(name, t, value)
		}
		return w.write(func(b *cell.Builder) error { return b.WriteAddress(&v) })

	case TagCell:
		v, ok := asCell(value)
		if !ok {
			return typeMismatch(name, t, value)
		}
		return w.writeRef(v)

	case TagGrams:
		v, ok := asBigInt(value)
		if !ok {
			return typeMismatch(name, t, value)
		}
		return w.write(func(b *cell.Builder) error { return b.WriteTokens(v) })

	case TagTuple:
		fields, ok := value.([]any)
		if !ok || len(fields) != len(t.Components) {
			return typeMismatch(name, t, value)
		}
		for i, c := range t.Components {
			ct, err := c.Resolve()
			if err != nil {
				return err
			}
			if err := encodeValue(w, name+"."+c.Name, ct, fields[i]); err != nil {
				return err
			}
		}
		return nil

	case TagArray:
		elems, ok := value.([]any)
		if !ok {
			return typeMismatch(name, t, value)
		}
		if err := writeCount(w, name, len(elems)); err != nil {
			return err
		}
		for i, e := range elems {
			if err := encodeValue(w, fmt.Sprintf("%s[%d]", name, i), t.Elem, e); err != nil {
				return err
			}
		}
		return nil

	case TagOptional:
		if value == nil {
			return w.write(func(b *cell.Builder) error { return b.WriteBit(false) })
		}
		if err := w.write(func(b *cell.Builder) error { return b.WriteBit(true) }); err != nil {
			return err
		}
		return encodeValue(w, name, t.Elem, value)

	case TagMap:
		entries, ok := value.([]MapEntry)
		if !ok {
			return typeMismatch(name, t, value)
		}
		if err := writeCount(w, name, len(entries)); err != nil {
			return err
		}
		for i, e := range entries {
			at := fmt.Sprintf("%s{%d}", name, i)
			if err := encodeValue(w, at+".key", t.Key, e.Key); err != nil {
				return err
			}
			if err := encodeValue(w, at+".value", t.Value, e.Value); err != nil {
				return err
			}
		}
		return nil
	}
	return newError(KindUnknownType, name, fmt.Sprintf("unhandled type tag %s", t.Tag))
}

// writeCounted writes a 32-bit byte count followed by the raw bytes.
func writeCounted(w *chainWriter, name string, p []byte) error {
	if err := writeCount(w, name, len(p)); err != nil {
		return err
	}
	return w.writeBytes(p)
}

func writeCount(w *chainWriter, name string, n int) error {
	if n > math.MaxUint32 {
		return newError(KindInvalidArgument, name, fmt.Sprintf("count %d exceeds 32 bits", n))
	}
	return w.write(func(b *cell.Builder) error { return b.WriteUint(uint64(n), 32) })
}

func typeMismatch(name string, t *Type, value any) error {
	return newError(KindInvalidArgument, name,
		fmt.Sprintf("value of type %T does not match parameter type %s", value, t.Tag))
}

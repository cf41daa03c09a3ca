package abi

import (
	"fmt"

	"github.com/mazekine/nekoton-go/address"
	"github.com/mazekine/nekoton-go/cell"
)

// DecodeParam reads one value from s according to the parameter's declared
// type. The inverse of EncodeParam: when the slice runs out of data and a
// single unread reference remains, the reader follows it as a continuation
// and resumes there.
func DecodeParam(s *cell.Slice, p Param) (any, error) {
	t, err := p.Resolve()
	if err != nil {
		return nil, err
	}
	return decodeValue(s, p.Name, t)
}

// DecodeParams reads one value per parameter, in declared order, from the
// same bit stream.
func DecodeParams(s *cell.Slice, params []Param) ([]any, error) {
	out := make([]any, 0, len(params))
	for _, p := range params {
		v, err := DecodeParam(s, p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// canHop reports whether s sits at the end of a continuation segment: all
// bits consumed and exactly the continuation link left unread.
func canHop(s *cell.Slice) bool {
	return s.BitsRemaining() == 0 && s.RefsRemaining() == 1
}

// hop replaces s with a cursor over its continuation reference.
func hop(s *cell.Slice) error {
	next, err := s.ReadRef()
	if err != nil {
		return err
	}
	*s = *next.BeginParse()
	return nil
}

// chainRead applies fn to s, following one continuation hop when the
// segment is exhausted. fn must be a single atomic slice read.
func chainRead(s *cell.Slice, fn func(*cell.Slice) error) error {
	err := fn(s)
	if err == nil {
		return nil
	}
	if !cell.IsInsufficientData(err) || !canHop(s) {
		return err
	}
	if herr := hop(s); herr != nil {
		return err
	}
	return fn(s)
}

// chainReadRef reads a value reference behind its marker bit: a set marker
// means the reference lives in the continuation segment.
func chainReadRef(s *cell.Slice) (*cell.Cell, error) {
	marker, err := readBitChained(s)
	if err != nil {
		return nil, err
	}
	if marker {
		if err := hop(s); err != nil {
			return nil, err
		}
	}
	return s.ReadRef()
}

// chainReadBytes reads n raw bytes, following continuations between
// whole-byte runs.
func chainReadBytes(s *cell.Slice, n int) ([]byte, error) {
	out := make([]byte, 0, capHint(uint64(n)))
	for n > 0 {
		avail := s.BitsRemaining() / 8
		if avail == 0 {
			if !canHop(s) {
				_, err := s.ReadBytes(n)
				return nil, err
			}
			if err := hop(s); err != nil {
				return nil, err
			}
			continue
		}
		if avail > n {
			avail = n
		}
		run, err := s.ReadBytes(avail)
		if err != nil {
			return nil, err
		}
		out = append(out, run...)
		n -= avail
	}
	return out, nil
}

func decodeValue(s *cell.Slice, name string, t *Type) (any, error) {
	switch t.Tag {
	case TagUint:
		var v any
		err := chainRead(s, func(s *cell.Slice) (err error) {
			v, err = s.ReadBigUint(t.Bits)
			return err
		})
		if err != nil {
			return nil, err
		}
		return v, nil

	case TagInt:
		var v any
		err := chainRead(s, func(s *cell.Slice) (err error) {
			v, err = s.ReadBigInt(t.Bits)
			return err
		})
		if err != nil {
			return nil, err
		}
		return v, nil

	case TagBool:
		return readBitChained(s)

	case TagBytes:
		n, err := readCount(s)
		if err != nil {
			return nil, err
		}
		return chainReadBytes(s, int(n))

	case TagBytesFixed:
		return chainReadBytes(s, t.Bits)

	case TagString:
		n, err := readCount(s)
		if err != nil {
			return nil, err
		}
		raw, err := chainReadBytes(s, int(n))
		if err != nil {
			return nil, err
		}
		return string(raw), nil

	case TagAddress:
		var a *address.Address
		err := chainRead(s, func(s *cell.Slice) (err error) {
			a, err = s.ReadAddress()
			return err
		})
		if err != nil {
			return nil, err
		}
		if a == nil {
			return nil, newError(KindInvalidArgument, name, "parameter requires a concrete address, found none")
		}
		return *a, nil

	case TagCell:
		return chainReadRef(s)

	case TagGrams:
		var v any
		err := chainRead(s, func(s *cell.Slice) (err error) {
			v, err = s.ReadTokens()
			return err
		})
		if err != nil {
			return nil, err
		}
		return v, nil

	case TagTuple:
		fields := make([]any, 0, len(t.Components))
		for _, c := range t.Components {
			ct, err := c.Resolve()
			if err != nil {
				return nil, err
			}
			v, err := decodeValue(s, name+"."+c.Name, ct)
			if err != nil {
				return nil, err
			}
			fields = append(fields, v)
		}
		return fields, nil

	case TagArray:
		n, err := readCount(s)
		if err != nil {
			return nil, err
		}
		elems := make([]any, 0, capHint(n))
		for i := uint64(0); i < n; i++ {
			v, err := decodeValue(s, fmt.Sprintf("%s[%d]", name, i), t.Elem)
			if err != nil {
				return nil, err
			}
			elems = append(elems, v)
		}
		return elems, nil

	case TagOptional:
		present, err := readBitChained(s)
		if err != nil {
			return nil, err
		}
		if !present {
			return nil, nil
		}
		return decodeValue(s, name, t.Elem)

	case TagMap:
		n, err := readCount(s)
		if err != nil {
			return nil, err
		}
		entries := make([]MapEntry, 0, capHint(n))
		for i := uint64(0); i < n; i++ {
			at := fmt.Sprintf("%s{%d}", name, i)
			k, err := decodeValue(s, at+".key", t.Key)
			if err != nil {
				return nil, err
			}
			v, err := decodeValue(s, at+".value", t.Value)
			if err != nil {
				return nil, err
			}
			entries = append(entries, MapEntry{Key: k, Value: v})
		}
		return entries, nil
	}
	return nil, newError(KindUnknownType, name, fmt.Sprintf("unhandled type tag %s", t.Tag))
}

func readBitChained(s *cell.Slice) (bool, error) {
	var v bool
	err := chainRead(s, func(s *cell.Slice) (err error) {
		v, err = s.ReadBit()
		return err
	})
	return v, err
}

func readCount(s *cell.Slice) (uint64, error) {
	var n uint64
	err := chainRead(s, func(s *cell.Slice) (err error) {
		n, err = s.ReadUint(32)
		return err
	})
	return n, err
}

// capHint bounds the pre-allocation for declared counts: the count itself is
// untrusted until the reads behind it succeed.
func capHint(n uint64) int {
	const max = 1 << 12
	if n > max {
		return max
	}
	return int(n)
}

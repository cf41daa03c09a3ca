package abi

import (
	"encoding/base64"
	"fmt"
	"math/big"

	"github.com/mazekine/nekoton-go/address"
	"github.com/mazekine/nekoton-go/boc"
)

// JSON projection of codec values, used at CLI/API boundaries:
//
//	uint<N>, int<N>, grams  decimal string ("1000000000"); small JSON
//	                        numbers are accepted on input
//	bool                    bool
//	bytes, bytes<N>         base64 string
//	string                  string
//	address                 canonical "<wc>:<hex>" string
//	cell                    base64 of the cell's BOC serialization
//	tuple, T[]              JSON array
//	optional(T)             null or the projection of T
//	map(K,V)                JSON array of {"key":..., "value":...}

// ValueToJSON projects a codec value for the parameter into its JSON form.
func ValueToJSON(p Param, value any) (any, error) {
	t, err := p.Resolve()
	if err != nil {
		return nil, err
	}
	return valueToJSON(p.Name, t, value)
}

// ValueFromJSON converts the JSON form back into a codec value.
func ValueFromJSON(p Param, j any) (any, error) {
	t, err := p.Resolve()
	if err != nil {
		return nil, err
	}
	return valueFromJSON(p.Name, t, j)
}

func valueToJSON(name string, t *Type, value any) (any, error) {
	switch t.Tag {
	case TagUint, TagInt, TagGrams:
		v, ok := asBigInt(value)
		if !ok {
			return nil, typeMismatch(name, t, value)
		}
		return v.String(), nil

	case TagBool:
		v, ok := value.(bool)
		if !ok {
			return nil, typeMismatch(name, t, value)
		}
		return v, nil

	case TagBytes, TagBytesFixed:
		v, ok := value.([]byte)
		if !ok {
			return nil, typeMismatch(name, t, value)
		}
		return base64.StdEncoding.EncodeToString(v), nil

	case TagString:
		v, ok := value.(string)
		if !ok {
			return nil, typeMismatch(name, t, value)
		}
		return v, nil

	case TagAddress:
		v, ok := asAddress(value)
		if !ok {
			return nil, typeMismatch(name, t, value)
		}
		return v.String(), nil

	case TagCell:
		v, ok := asCell(value)
		if !ok {
			return nil, typeMismatch(name, t, value)
		}
		raw, err := boc.Encode(v)
		if err != nil {
			return nil, err
		}
		return base64.StdEncoding.EncodeToString(raw), nil

	case TagTuple:
		fields, ok := value.([]any)
		if !ok || len(fields) != len(t.Components) {
			return nil, typeMismatch(name, t, value)
		}
		out := make([]any, 0, len(fields))
		for i, c := range t.Components {
			ct, err := c.Resolve()
			if err != nil {
				return nil, err
			}
			j, err := valueToJSON(name+"."+c.Name, ct, fields[i])
			if err != nil {
				return nil, err
			}
			out = append(out, j)
		}
		return out, nil

	case TagArray:
		elems, ok := value.([]any)
		if !ok {
			return nil, typeMismatch(name, t, value)
		}
		out := make([]any, 0, len(elems))
		for i, e := range elems {
			j, err := valueToJSON(fmt.Sprintf("%s[%d]", name, i), t.Elem, e)
			if err != nil {
				return nil, err
			}
			out = append(out, j)
		}
		return out, nil

	case TagOptional:
		if value == nil {
			return nil, nil
		}
		return valueToJSON(name, t.Elem, value)

	case TagMap:
		entries, ok := value.([]MapEntry)
		if !ok {
			return nil, typeMismatch(name, t, value)
		}
		out := make([]any, 0, len(entries))
		for i, e := range entries {
			at := fmt.Sprintf("%s{%d}", name, i)
			k, err := valueToJSON(at+".key", t.Key, e.Key)
			if err != nil {
				return nil, err
			}
			v, err := valueToJSON(at+".value", t.Value, e.Value)
			if err != nil {
				return nil, err
			}
			out = append(out, map[string]any{"key": k, "value": v})
		}
		return out, nil
	}
	return nil, newError(KindUnknownType, name, fmt.Sprintf("unhandled type tag %s", t.Tag))
}

func valueFromJSON(name string, t *Type, j any) (any, error) {
	switch t.Tag {
	case TagUint, TagInt, TagGrams:
		switch x := j.(type) {
		case string:
			v, ok := new(big.Int).SetString(x, 10)
			if !ok {
				return nil, newError(KindInvalidArgument, name, fmt.Sprintf("malformed decimal integer %q", x))
			}
			return v, nil
		case float64:
			if x != float64(int64(x)) {
				return nil, newError(KindInvalidArgument, name, "non-integral JSON number")
			}
			return big.NewInt(int64(x)), nil
		}
		return nil, newError(KindInvalidArgument, name, fmt.Sprintf("JSON %T is not an integer projection", j))

	case TagBool:
		v, ok := j.(bool)
		if !ok {
			return nil, newError(KindInvalidArgument, name, fmt.Sprintf("JSON %T is not a bool", j))
		}
		return v, nil

	case TagBytes, TagBytesFixed:
		s, ok := j.(string)
		if !ok {
			return nil, newError(KindInvalidArgument, name, fmt.Sprintf("JSON %T is not a base64 string", j))
		}
		raw, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, newError(KindInvalidArgument, name, fmt.Sprintf("malformed base64: %v", err))
		}
		return raw, nil

	case TagString:
		s, ok := j.(string)
		if !ok {
			return nil, newError(KindInvalidArgument, name, fmt.Sprintf("JSON %T is not a string", j))
		}
		return s, nil

	case TagAddress:
		s, ok := j.(string)
		if !ok {
			return nil, newError(KindInvalidArgument, name, fmt.Sprintf("JSON %T is not an address string", j))
		}
		a, err := address.Parse(s)
		if err != nil {
			return nil, newError(KindInvalidArgument, name, err.Error())
		}
		return a, nil

	case TagCell:
		s, ok := j.(string)
		if !ok {
			return nil, newError(KindInvalidArgument, name, fmt.Sprintf("JSON %T is not a base64 BOC string", j))
		}
		raw, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, newError(KindInvalidArgument, name, fmt.Sprintf("malformed base64: %v", err))
		}
		return boc.Decode(raw)

	case TagTuple:
		fields, ok := j.([]any)
		if !ok || len(fields) != len(t.Components) {
			return nil, newError(KindInvalidArgument, name, fmt.Sprintf("tuple needs a JSON array of %d fields", len(t.Components)))
		}
		out := make([]any, 0, len(fields))
		for i, c := range t.Components {
			ct, err := c.Resolve()
			if err != nil {
				return nil, err
			}
			v, err := valueFromJSON(name+"."+c.Name, ct, fields[i])
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case TagArray:
		elems, ok := j.([]any)
		if !ok {
			return nil, newError(KindInvalidArgument, name, fmt.Sprintf("JSON %T is not an array", j))
		}
		out := make([]any, 0, len(elems))
		for i, e := range elems {
			v, err := valueFromJSON(fmt.Sprintf("%s[%d]", name, i), t.Elem, e)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case TagOptional:
		if j == nil {
			return nil, nil
		}
		return valueFromJSON(name, t.Elem, j)

	case TagMap:
		elems, ok := j.([]any)
		if !ok {
			return nil, newError(KindInvalidArgument, name, fmt.Sprintf("JSON %T is not an array of map entries", j))
		}
		entries := make([]MapEntry, 0, len(elems))
		for i, e := range elems {
			at := fmt.Sprintf("%s{%d}", name, i)
			obj, ok := e.(map[string]any)
			if !ok {
				return nil, newError(KindInvalidArgument, at, "map entry must be a {key,value} object")
			}
			k, err := valueFromJSON(at+".key", t.Key, obj["key"])
			if err != nil {
				return nil, err
			}
			v, err := valueFromJSON(at+".value", t.Value, obj["value"])
			if err != nil {
				return nil, err
			}
			entries = append(entries, MapEntry{Key: k, Value: v})
		}
		return entries, nil
	}
	return nil, newError(KindUnknownType, name, fmt.Sprintf("unhandled type tag %s", t.Tag))
}

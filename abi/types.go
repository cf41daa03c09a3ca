package abi

import (
	"fmt"
	"strconv"
	"strings"
)

// Tag is the closed set of parameter type tags.
type Tag uint8

const (
	TagUint Tag = iota
	TagInt
	TagBool
	TagBytes
	TagBytesFixed
	TagString
	TagAddress
	TagCell
	TagGrams
	TagTuple
	TagArray
	TagOptional
	TagMap
)

func (t Tag) String() string {
	switch t {
	case TagUint:
		return "uint"
	case TagInt:
		return "int"
	case TagBool:
		return "bool"
	case TagBytes:
		return "bytes"
	case TagBytesFixed:
		return "bytesN"
	case TagString:
		return "string"
	case TagAddress:
		return "address"
	case TagCell:
		return "cell"
	case TagGrams:
		return "grams"
	case TagTuple:
		return "tuple"
	case TagArray:
		return "array"
	case TagOptional:
		return "optional"
	case TagMap:
		return "map"
	}
	return fmt.Sprintf("Tag(%d)", uint8(t))
}

// Type is a fully resolved parameter type.
type Type struct {
	Tag Tag

	// Bits is the width for uint/int, or the byte count for bytesN.
	Bits int
	// Elem is the element type for array and optional.
	Elem *Type
	// Key and Value are the map entry types.
	Key   *Type
	Value *Type
	// Components carries the named field shapes of a tuple.
	Components []Param
}

// Param is a named, string-typed parameter as it appears in contract ABI
// JSON. Composite types (tuple and arrays of tuples) carry their field
// shapes in Components.
type Param struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Components []Param `json:"components,omitempty"`
}

// Resolve parses the parameter's type string into a Type. Unknown or
// malformed type strings fail here with UnknownAbiType, never lazily during
// traversal.
func (p Param) Resolve() (*Type, error) {
	return ParseType(p.Type, p.Components)
}

const (
	maxIntBits  = 256
	maxBytesLen = 1 << 16
)

// ParseType resolves a type string (e.g. "uint128", "address",
// "map(uint256,address)", "tuple", "uint32[]", "optional(string)") to
// exactly one Type.
func ParseType(s string, components []Param) (*Type, error) {
	if s == "" {
		return nil, newError(KindUnknownType, s, "empty type string")
	}

	if inner, ok := strings.CutSuffix(s, "[]"); ok {
		elem, err := ParseType(inner, components)
		if err != nil {
			return nil, err
		}
		return &Type{Tag: TagArray, Elem: elem}, nil
	}
	if inner, ok := cutWrapper(s, "optional"); ok {
		elem, err := ParseType(inner, components)
		if err != nil {
			return nil, err
		}
		return &Type{Tag: TagOptional, Elem: elem}, nil
	}
	if inner, ok := cutWrapper(s, "map"); ok {
		keyStr, valStr, err := splitTopLevel(inner)
		if err != nil {
			return nil, newError(KindUnknownType, s, err.Error())
		}
		key, err := ParseType(keyStr, nil)
		if err != nil {
			return nil, err
		}
		switch key.Tag {
		case TagUint, TagInt, TagAddress:
		default:
			return nil, newError(KindUnknownType, s, fmt.Sprintf("map key type %q must be an integer or address", keyStr))
		}
		val, err := ParseType(valStr, components)
		if err != nil {
			return nil, err
		}
		return &Type{Tag: TagMap, Key: key, Value: val}, nil
	}

	switch s {
	case "bool":
		return &Type{Tag: TagBool}, nil
	case "bytes":
		return &Type{Tag: TagBytes}, nil
	case "string":
		return &Type{Tag: TagString}, nil
	case "address":
		return &Type{Tag: TagAddress}, nil
	case "cell":
		return &Type{Tag: TagCell}, nil
	case "grams", "token":
		return &Type{Tag: TagGrams}, nil
	case "tuple":
		if len(components) == 0 {
			return nil, newError(KindUnknownType, s, "tuple requires components")
		}
		for _, c := range components {
			if _, err := c.Resolve(); err != nil {
				return nil, err
			}
		}
		return &Type{Tag: TagTuple, Components: components}, nil
	}

	if digits, ok := strings.CutPrefix(s, "uint"); ok {
		bits, err := parseWidth(s, digits, maxIntBits)
		if err != nil {
			return nil, err
		}
		return &Type{Tag: TagUint, Bits: bits}, nil
	}
	if digits, ok := strings.CutPrefix(s, "int"); ok {
		bits, err := parseWidth(s, digits, maxIntBits)
		if err != nil {
			return nil, err
		}
		return &Type{Tag: TagInt, Bits: bits}, nil
	}
	if digits, ok := strings.CutPrefix(s, "bytes"); ok {
		n, err := parseWidth(s, digits, maxBytesLen)
		if err != nil {
			return nil, err
		}
		return &Type{Tag: TagBytesFixed, Bits: n}, nil
	}

	return nil, newError(KindUnknownType, s, "unrecognized type string")
}

func parseWidth(typ, digits string, max int) (int, error) {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, newError(KindUnknownType, typ, "malformed width suffix")
	}
	if n < 1 || n > max {
		return 0, newError(KindUnknownType, typ, fmt.Sprintf("width %d outside 1..%d", n, max))
	}
	return n, nil
}

// cutWrapper matches "name(inner)" and returns inner.
func cutWrapper(s, name string) (string, bool) {
	rest, ok := strings.CutPrefix(s, name+"(")
	if !ok {
		return "", false
	}
	inner, ok := strings.CutSuffix(rest, ")")
	if !ok {
		return "", false
	}
	return inner, true
}

// splitTopLevel splits "K,V" on the first comma outside parentheses.
func splitTopLevel(s string) (string, string, error) {
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				return s[:i], s[i+1:], nil
			}
		}
	}
	return "", "", fmt.Errorf("map type needs a top-level key,value pair")
}

package model

// BlobRef refers to BOC bytes directly or by CID.
// Exactly one of CID or Bytes MUST be set.
//
// JSON note: Bytes are encoded as base64 by encoding/json.
type BlobRef struct {
	CID   string `json:"cid,omitempty"`
	Bytes []byte `json:"bytes,omitempty"`
}

// CellInfo is a compact view of a decoded cell tree root.
type CellInfo struct {
	Bits  int    `json:"bits"`
	Refs  int    `json:"refs"`
	Depth int    `json:"depth"`
	Hash  string `json:"hash"` // lowercase hex
	CID   string `json:"cid,omitempty"`
}

// NamedValue is one decoded or to-be-encoded parameter in boundary JSON.
//
// Value uses the JSON-friendly projection of codec values: integers and
// token amounts as decimal strings, byte strings as base64, addresses in
// their canonical string form, tuples/arrays as JSON arrays, maps as arrays
// of {key,value} objects, absent optionals as null.
type NamedValue struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// FunctionCall is a boundary request to encode a call body.
type FunctionCall struct {
	Function string       `json:"function"`
	Inputs   []NamedValue `json:"inputs"`
}

// DecodedBody is the boundary projection of a decoded function input,
// function output or event body.
type DecodedBody struct {
	Name   string       `json:"name"`
	Kind   string       `json:"kind"` // "input", "output" or "event"
	Values []NamedValue `json:"values"`
}

package model

import (
	"encoding/json"
	"testing"
)

func TestSnapshot_FunctionCall_JSONShape(t *testing.T) {
	req := FunctionCall{
		Function: "transfer",
		Inputs: []NamedValue{
			{Name: "dest", Type: "address", Value: "0:00000000000000000000000000000000000000000000000000000000000000aa"},
			{Name: "value", Type: "uint128", Value: "1000000000"},
		},
	}

	b, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		t.Fatalf("MarshalIndent failed: %v", err)
	}

	const want = "{\n" +
		"  \"function\": \"transfer\",\n" +
		"  \"inputs\": [\n" +
		"    {\n" +
		"      \"name\": \"dest\",\n" +
		"      \"type\": \"address\",\n" +
		"      \"value\": \"0:00000000000000000000000000000000000000000000000000000000000000aa\"\n" +
		"    },\n" +
		"    {\n" +
		"      \"name\": \"value\",\n" +
		"      \"type\": \"uint128\",\n" +
		"      \"value\": \"1000000000\"\n" +
		"    }\n" +
		"  ]\n" +
		"}"

	if string(b) != want {
		t.Fatalf("snapshot mismatch:\n%s", string(b))
	}
}

func TestSnapshot_CellInfo_JSONShape(t *testing.T) {
	info := CellInfo{
		Bits:  32,
		Refs:  1,
		Depth: 1,
		Hash:  "ab",
	}

	b, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		t.Fatalf("MarshalIndent failed: %v", err)
	}

	const want = "{\n" +
		"  \"bits\": 32,\n" +
		"  \"refs\": 1,\n" +
		"  \"depth\": 1,\n" +
		"  \"hash\": \"ab\"\n" +
		"}"

	if string(b) != want {
		t.Fatalf("snapshot mismatch:\n%s", string(b))
	}
}

func TestSnapshot_CodedError_JSONShape(t *testing.T) {
	e := NewError(ErrInvalidBoc, "bad magic")

	b, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	const want = `{"code":"INVALID_BOC","message":"bad magic"}`
	if string(b) != want {
		t.Fatalf("snapshot mismatch:\n%s", string(b))
	}
	if e.Error() != "INVALID_BOC: bad magic" {
		t.Fatalf("Error(): got %q", e.Error())
	}
}

package address

import (
	"strings"
	"testing"
)

func TestParse_RoundTrip(t *testing.T) {
	cases := []string{
		"0:" + strings.Repeat("00", ValueSize),
		"-1:" + strings.Repeat("ab", ValueSize),
		"127:" + strings.Repeat("ff", ValueSize),
		"-128:" + strings.Repeat("0f", ValueSize),
	}
	for _, in := range cases {
		a, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", in, err)
		}
		if a.String() != in {
			t.Fatalf("round trip %q: got %q", in, a.String())
		}
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := []string{
		"",
		"no-separator",
		"0:" + strings.Repeat("ab", ValueSize-1), // short
		"0:" + strings.Repeat("ab", ValueSize+1), // long
		"0:" + strings.Repeat("AB", ValueSize),   // uppercase
		"0:" + strings.Repeat("zz", ValueSize),   // non-hex
		"128:" + strings.Repeat("ab", ValueSize), // workchain outside int8
		"x:" + strings.Repeat("ab", ValueSize),
	}
	for _, in := range cases {
		if _, err := Parse(in); err == nil {
			t.Fatalf("Parse(%q) succeeded", in)
		}
	}
}

func TestEqual(t *testing.T) {
	a := MustParse("0:" + strings.Repeat("ab", ValueSize))
	b := MustParse("0:" + strings.Repeat("ab", ValueSize))
	c := MustParse("-1:" + strings.Repeat("ab", ValueSize))
	if !a.Equal(b) {
		t.Fatal("identical addresses unequal")
	}
	if a.Equal(c) {
		t.Fatal("different workchains equal")
	}
}

func TestMustParse_PanicsOnBadInput(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustParse did not panic")
		}
	}()
	MustParse("bogus")
}

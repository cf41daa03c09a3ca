// Package abi implements the contract ABI type system and its type-directed
// parameter codec over the cell layer.
//
// A ContractAbi is constructed from the JSON schema
//
//	{"ABI version": 2, "functions": [...], "events": [...], "data": [...]}
//
// where each function or event entry carries a name, inputs, optional
// outputs and an optional explicit hex id. All type strings are resolved
// eagerly at construction: a schema with an unresolvable type is rejected
// as a whole.
package abi

import (
	"encoding/json"
	"fmt"
	"hash/crc32"
	"strconv"
	"strings"

	"github.com/mazekine/nekoton-go/cell"
)

// ContractAbi describes the callable surface of a contract.
type ContractAbi struct {
	Version   int
	Functions map[string]*Function
	Events    map[string]*Event
	Data      []Param
}

// Function is one callable contract function.
type Function struct {
	Name    string
	Inputs  []Param
	Outputs []Param

	// id is the base 32-bit identifier; see InputID and OutputID.
	id uint32
}

// Event is one contract event.
type Event struct {
	Name   string
	Inputs []Param
	id     uint32
}

// NameID computes the fallback 32-bit identifier for a function or event
// with no explicit id: the CRC32 (IEEE) of its name. This is a convention of
// this codec, not a network-verified guarantee; schemas that need exact ids
// must pin them explicitly.
func NameID(name string) uint32 {
	return crc32.ChecksumIEEE([]byte(name))
}

// InputID identifies a call body for the function.
func (f *Function) InputID() uint32 { return f.id & 0x7FFFFFFF }

// OutputID identifies an output body for the function.
func (f *Function) OutputID() uint32 { return f.id | 0x80000000 }

// ID identifies the event's data body.
func (e *Event) ID() uint32 { return e.id & 0x7FFFFFFF }

type abiJSON struct {
	Version   int         `json:"ABI version"`
	Functions []entryJSON `json:"functions"`
	Events    []entryJSON `json:"events"`
	Data      []Param     `json:"data"`
}

type entryJSON struct {
	Name    string  `json:"name"`
	Inputs  []Param `json:"inputs"`
	Outputs []Param `json:"outputs"`
	ID      string  `json:"id"`
}

// ParseContractAbi constructs a ContractAbi from its JSON form, resolving
// every parameter type up front.
func ParseContractAbi(data []byte) (*ContractAbi, error) {
	var raw abiJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("abi: malformed JSON: %w", err)
	}
	out := &ContractAbi{
		Version:   raw.Version,
		Functions: make(map[string]*Function, len(raw.Functions)),
		Events:    make(map[string]*Event, len(raw.Events)),
		Data:      raw.Data,
	}
	for _, e := range raw.Functions {
		id, err := entryID(e)
		if err != nil {
			return nil, err
		}
		if err := resolveAll(e.Name, e.Inputs, e.Outputs); err != nil {
			return nil, err
		}
		if _, dup := out.Functions[e.Name]; dup {
			return nil, fmt.Errorf("abi: duplicate function %q", e.Name)
		}
		out.Functions[e.Name] = &Function{Name: e.Name, Inputs: e.Inputs, Outputs: e.Outputs, id: id}
	}
	for _, e := range raw.Events {
		id, err := entryID(e)
		if err != nil {
			return nil, err
		}
		if err := resolveAll(e.Name, e.Inputs, nil); err != nil {
			return nil, err
		}
		if _, dup := out.Events[e.Name]; dup {
			return nil, fmt.Errorf("abi: duplicate event %q", e.Name)
		}
		out.Events[e.Name] = &Event{Name: e.Name, Inputs: e.Inputs, id: id}
	}
	if err := resolveAll("data", out.Data, nil); err != nil {
		return nil, err
	}
	return out, nil
}

func entryID(e entryJSON) (uint32, error) {
	if e.Name == "" {
		return 0, fmt.Errorf("abi: entry with empty name")
	}
	if e.ID == "" {
		return NameID(e.Name), nil
	}
	hexID := strings.TrimPrefix(e.ID, "0x")
	id, err := strconv.ParseUint(hexID, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("abi: %s: malformed id %q: %w", e.Name, e.ID, err)
	}
	return uint32(id), nil
}

func resolveAll(name string, lists ...[]Param) error {
	for _, params := range lists {
		for _, p := range params {
			if _, err := p.Resolve(); err != nil {
				return fmt.Errorf("abi: %s: %w", name, err)
			}
		}
	}
	return nil
}

// Function lookup helpers; callers that hold only a name go through these so
// that "no such function" is distinguishable from codec failures.

func (a *ContractAbi) Function(name string) (*Function, error) {
	f, ok := a.Functions[name]
	if !ok {
		return nil, fmt.Errorf("abi: no function %q", name)
	}
	return f, nil
}

func (a *ContractAbi) Event(name string) (*Event, error) {
	e, ok := a.Events[name]
	if !ok {
		return nil, fmt.Errorf("abi: no event %q", name)
	}
	return e, nil
}

// EncodeCall builds a call body: the 32-bit input id followed by the input
// parameters in declared order.
func (f *Function) EncodeCall(values ...any) (*cell.Cell, error) {
	b := cell.NewBuilder()
	if err := b.WriteUint(uint64(f.InputID()), 32); err != nil {
		return nil, err
	}
	if err := EncodeParams(b, f.Inputs, values); err != nil {
		return nil, err
	}
	return b.Build()
}

// DecodeInput reads a call body, verifying the 32-bit input id first.
func (f *Function) DecodeInput(body *cell.Slice) ([]any, error) {
	if err := verifyID(body, f.Name, f.InputID()); err != nil {
		return nil, err
	}
	return DecodeParams(body, f.Inputs)
}

// EncodeOutput builds an output body: the 32-bit output id followed by the
// output parameters.
func (f *Function) EncodeOutput(values ...any) (*cell.Cell, error) {
	b := cell.NewBuilder()
	if err := b.WriteUint(uint64(f.OutputID()), 32); err != nil {
		return nil, err
	}
	if err := EncodeParams(b, f.Outputs, values); err != nil {
		return nil, err
	}
	return b.Build()
}

// DecodeOutput reads an output body, verifying the 32-bit output id first.
func (f *Function) DecodeOutput(body *cell.Slice) ([]any, error) {
	if err := verifyID(body, f.Name, f.OutputID()); err != nil {
		return nil, err
	}
	return DecodeParams(body, f.Outputs)
}

// EncodeData builds an event data body: the event id followed by its inputs.
func (e *Event) EncodeData(values ...any) (*cell.Cell, error) {
	b := cell.NewBuilder()
	if err := b.WriteUint(uint64(e.ID()), 32); err != nil {
		return nil, err
	}
	if err := EncodeParams(b, e.Inputs, values); err != nil {
		return nil, err
	}
	return b.Build()
}

// DecodeData reads an event data body, verifying the event id first.
func (e *Event) DecodeData(body *cell.Slice) ([]any, error) {
	if err := verifyID(body, e.Name, e.ID()); err != nil {
		return nil, err
	}
	return DecodeParams(body, e.Inputs)
}

func verifyID(s *cell.Slice, name string, want uint32) error {
	got, err := s.ReadUint(32)
	if err != nil {
		return err
	}
	if uint32(got) != want {
		return newError(KindIdMismatch, name,
			fmt.Sprintf("body id %08x, expected %08x", got, want))
	}
	return nil
}

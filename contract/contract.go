// Package contract binds a parsed ABI to an account address and drives the
// function-call and event codecs on its behalf.
package contract

import (
	"fmt"

	"github.com/mazekine/nekoton-go/abi"
	"github.com/mazekine/nekoton-go/address"
	"github.com/mazekine/nekoton-go/cell"
)

// Contract is a deployed contract: its ABI plus its account address.
type Contract struct {
	Abi     *abi.ContractAbi
	Address address.Address
}

// New binds an ABI to an address.
func New(a *abi.ContractAbi, addr address.Address) (*Contract, error) {
	if a == nil {
		return nil, fmt.Errorf("contract: nil ABI")
	}
	return &Contract{Abi: a, Address: addr}, nil
}

// EncodeCall builds the call body for the named function.
func (c *Contract) EncodeCall(function string, values ...any) (*cell.Cell, error) {
	f, err := c.Abi.Function(function)
	if err != nil {
		return nil, err
	}
	return f.EncodeCall(values...)
}

// DecodeOutput decodes the output body of the named function, verifying its
// 32-bit output id.
func (c *Contract) DecodeOutput(function string, body *cell.Cell) ([]any, error) {
	f, err := c.Abi.Function(function)
	if err != nil {
		return nil, err
	}
	return f.DecodeOutput(body.BeginParse())
}

// DecodeEvent matches an event body against the contract's events by its
// leading 32-bit id and decodes it. The returned name identifies the
// matched event.
func (c *Contract) DecodeEvent(body *cell.Cell) (string, []any, error) {
	s := body.BeginParse()
	peek := s.Copy()
	id, err := peek.ReadUint(32)
	if err != nil {
		return "", nil, err
	}
	for name, e := range c.Abi.Events {
		if e.ID() == uint32(id) {
			values, err := e.DecodeData(s)
			if err != nil {
				return "", nil, err
			}
			return name, values, nil
		}
	}
	return "", nil, fmt.Errorf("contract: no event with id %08x", id)
}

// DecodeData decodes the contract's persistent data fields, declared in the
// ABI "data" section, from a state data cell.
func (c *Contract) DecodeData(data *cell.Cell) ([]any, error) {
	return abi.DecodeParams(data.BeginParse(), c.Abi.Data)
}

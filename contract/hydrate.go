package contract

import (
	"fmt"

	"github.com/ipfs/go-cid"

	"github.com/mazekine/nekoton-go/boc"
	"github.com/mazekine/nekoton-go/cell"
	"github.com/mazekine/nekoton-go/storage"
)

// StoreCell serializes a cell DAG and writes the BOC bytes to the CAS,
// returning their content address.
func StoreCell(cas storage.CAS, c *cell.Cell) (cid.Cid, error) {
	if cas == nil {
		return cid.Undef, fmt.Errorf("contract: nil CAS")
	}
	raw, err := boc.Encode(c)
	if err != nil {
		return cid.Undef, err
	}
	return cas.Put(raw)
}

// LoadCell fetches BOC bytes by content address and decodes them back into
// a cell DAG. The CAS layer verifies the bytes against the CID; the BOC
// decoder verifies magic and checksum before trusting the content.
func LoadCell(cas storage.CAS, id cid.Cid) (*cell.Cell, error) {
	if cas == nil {
		return nil, fmt.Errorf("contract: nil CAS")
	}
	raw, err := cas.Get(id)
	if err != nil {
		return nil, err
	}
	return boc.Decode(raw)
}

// HydrateData loads a state data cell by content address and decodes the
// contract's persistent fields from it.
func (c *Contract) HydrateData(cas storage.CAS, id cid.Cid) ([]any, error) {
	data, err := LoadCell(cas, id)
	if err != nil {
		return nil, err
	}
	return c.DecodeData(data)
}

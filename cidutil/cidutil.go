// Package cidutil derives IPFS-compatible CIDv1 identifiers for the byte
// artifacts of this module: serialized bags of cells and raw cell content
// hashes.
package cidutil

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// CIDv1RawSHA256 returns a CIDv1 string using the "raw" multicodec and a
// sha2-256 multihash of data. This is the storage key of BOC bytes in the
// CAS layer.
func CIDv1RawSHA256(data []byte) string {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		// multihash.Sum only errors for invalid inputs; with SHA2_256 and -1 length,
		// this should be unreachable.
		return ""
	}
	return cid.NewCidV1(cid.Raw, sum).String()
}

// CIDv1RawSHA256CID returns a CIDv1 (raw + sha2-256) derived from data.
func CIDv1RawSHA256CID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// ForCellHash wraps an already-computed 32-byte cell content hash as a
// CIDv1 (raw + sha2-256) without rehashing. The cell content hash is itself
// sha2-256, so the result is a well-formed content address of the hashed
// preimage.
func ForCellHash(hash [32]byte) (cid.Cid, error) {
	sum, err := multihash.Encode(hash[:], multihash.SHA2_256)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

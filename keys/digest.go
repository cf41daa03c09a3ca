package keys

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Digest hashes message with the named algorithm. hashAlg must be one of:
// sha256, sha512, sha3-256.
//
// Signing flows that sign a digest rather than the raw message (e.g. a cell
// content hash recomputed out of band) name the algorithm explicitly so the
// verifier can reproduce it.
func Digest(hashAlg string, message []byte) ([]byte, error) {
	switch hashAlg {
	case "sha256":
		s := sha256.Sum256(message)
		return s[:], nil
	case "sha512":
		s := sha512.Sum512(message)
		return s[:], nil
	case "sha3-256":
		s := sha3.Sum256(message)
		return s[:], nil
	default:
		return nil, fmt.Errorf("keys: unsupported hash algorithm: %q", hashAlg)
	}
}

// SignDigest signs hash(message) with the given signer.
func SignDigest(s Signer, hashAlg string, message []byte) ([]byte, error) {
	digest, err := Digest(hashAlg, message)
	if err != nil {
		return nil, err
	}
	return s.Sign(digest)
}

// VerifyDigest verifies a signature produced by SignDigest.
func VerifyDigest(publicKey []byte, hashAlg string, message, sig []byte) (bool, error) {
	digest, err := Digest(hashAlg, message)
	if err != nil {
		return false, err
	}
	return Verify(publicKey, digest, sig), nil
}

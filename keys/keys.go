// Package keys defines the signer capability consumed by message and
// contract flows.
//
// The cell/BOC/ABI core performs no signing itself; callers that need a
// signature (external message bodies, out-of-band state proofs) accept a Signer
// and never branch on any global "crypto available" flag. Exactly one
// conforming implementation exists, selected at construction time.
package keys

import (
	"encoding/base64"
	"fmt"

	"github.com/cloudflare/circl/sign/ed25519"
)

// Signer signs raw messages and exposes its public key.
type Signer interface {
	// PublicKey returns the 32-byte ed25519 public key.
	PublicKey() []byte
	// Sign returns the 64-byte signature over message.
	Sign(message []byte) ([]byte, error)
}

// SeedSize is the byte length of an ed25519 seed.
const SeedSize = ed25519.SeedSize

type ed25519Signer struct {
	priv ed25519.PrivateKey
}

// NewEd25519Signer constructs the ed25519 Signer from a 32-byte seed.
func NewEd25519Signer(seed []byte) (Signer, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("keys: seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	return &ed25519Signer{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

func (s *ed25519Signer) PublicKey() []byte {
	return append([]byte(nil), s.priv.Public().(ed25519.PublicKey)...)
}

func (s *ed25519Signer) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(s.priv, message), nil
}

// Verify reports whether sig is a valid ed25519 signature of message under
// publicKey.
func Verify(publicKey, message, sig []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), message, sig)
}

// PublicKeyString renders a public key in the "ed25519:" + base64 form used
// by CLI output and logs.
func PublicKeyString(publicKey []byte) string {
	return "ed25519:" + base64.StdEncoding.EncodeToString(publicKey)
}

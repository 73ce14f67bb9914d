package interactions

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
)

// VerifySignature reports whether signatureHex is a valid detached
// Ed25519 signature over timestamp||rawBody.
//
// The body must be the raw bytes exactly as received; re-serializing
// parsed JSON can change the byte layout and break valid signatures.
// Malformed hex, a wrong-sized signature and any other input problem all
// count as verification failure.
func VerifySignature(rawBody []byte, signatureHex, timestamp string, publicKey ed25519.PublicKey) bool {
	if len(publicKey) != ed25519.PublicKeySize {
		return false
	}

	sig, err := hex.DecodeString(signatureHex)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}

	message := make([]byte, 0, len(timestamp)+len(rawBody))
	message = append(message, timestamp...)
	message = append(message, rawBody...)

	return ed25519.Verify(publicKey, message, sig)
}

// ParsePublicKey decodes the hex-encoded Ed25519 public key supplied by
// the Discord developer portal.
func ParsePublicKey(hexKey string) (ed25519.PublicKey, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decode public key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	return ed25519.PublicKey(raw), nil
}

package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// SideTokenBytes is the entropy of reset and verification tokens.
const SideTokenBytes = 32

// NewSideToken returns a hex-encoded random token for out-of-band flows.
// Collisions with existing tokens are not checked; 256 bits make them negligible.
func NewSideToken() (string, error) {
	buf := make([]byte, SideTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate side token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

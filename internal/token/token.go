// Package token generates and fingerprints the opaque bearer tokens the
// identity service hands out. The plaintext value leaves the server exactly
// once, in the login/register response; only its sha256 is persisted.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

const secretBytes = 24

// New returns a fresh plaintext token. The uuid half keys the row, the random
// half carries the entropy.
func New() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("token: read entropy: %w", err)
	}
	return uuid.NewString() + "." + hex.EncodeToString(buf), nil
}

func Sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

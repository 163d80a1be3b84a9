// Package fingerprint computes display-only content digests for uploaded
// media. A fingerprint is a reference value, never a lookup key.
package fingerprint

import (
	"crypto/sha256"
	"fmt"
	"io"
)

const algorithm = "sha256"

// Sum reads r to EOF and returns its fingerprint as "sha256:<hex>".
// Read errors propagate unchanged.
func Sum(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("hashing content: %w", err)
	}
	return fmt.Sprintf("%s:%x", algorithm, h.Sum(nil)), nil
}

// SumBytes returns the fingerprint of an in-memory buffer.
func SumBytes(b []byte) string {
	return fmt.Sprintf("%s:%x", algorithm, sha256.Sum256(b))
}

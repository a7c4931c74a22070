package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewRunID returns an opaque hex token that correlates one run's log
// lines and spans.
func NewRunID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

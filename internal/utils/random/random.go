package random

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// Charsets for different random string types.
const (
	CharsetAlphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	CharsetHex          = "0123456789abcdef"
)

// Hex generates a cryptographically secure random hex string.
// The output length is twice the input length (each byte = 2 hex chars).
func Hex(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// String generates a random string from the given charset.
func String(length int, charset string) (string, error) {
	if length <= 0 {
		return "", nil
	}
	if charset == "" {
		charset = CharsetAlphanumeric
	}

	result := make([]byte, length)
	charsetLen := big.NewInt(int64(len(charset)))

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", fmt.Errorf("generate random index: %w", err)
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}

// OrderKey generates a payer-facing order access key.
func OrderKey() (string, error) {
	s, err := String(13, CharsetAlphanumeric)
	if err != nil {
		return "", err
	}
	return "wc_order_" + s, nil
}

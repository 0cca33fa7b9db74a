// Package signature signs and verifies provider notification bodies with HMAC-SHA256.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/furatpay/gateway/internal/port/outbound"
)

// Prefix is the optional scheme prefix on a signature header value.
const Prefix = "sha256="

// Sign returns the lowercase hex HMAC-SHA256 of payload under secret.
func Sign(secret, payload []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether sig is the HMAC-SHA256 of payload under secret.
// An empty secret never verifies.
func Verify(secret, payload []byte, sig string) bool {
	if len(secret) == 0 {
		return false
	}
	sig = strings.TrimSpace(sig)
	sig = strings.TrimPrefix(sig, Prefix)
	if sig == "" {
		return false
	}

	got, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return hmac.Equal(got, mac.Sum(nil))
}

// HMACVerifier verifies notifications against a shared secret.
type HMACVerifier struct {
	secret []byte
}

// NewHMACVerifier creates a verifier for secret.
func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

// Verify implements outbound.SignatureVerifierPort.
func (v *HMACVerifier) Verify(payload []byte, sig string) bool {
	return Verify(v.secret, payload, sig)
}

// Compile-time check
var _ outbound.SignatureVerifierPort = (*HMACVerifier)(nil)

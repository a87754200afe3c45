package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignBody computes the hex HMAC-SHA256 of a callback body.
func SignBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyBody checks a hex HMAC-SHA256 signature in constant time.
func VerifyBody(secret string, body []byte, signature string) bool {
	expected := SignBody(secret, body)
	return hmac.Equal([]byte(signature), []byte(expected))
}

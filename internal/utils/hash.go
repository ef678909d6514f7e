package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HashHeader carries the HMAC-SHA256 of a request body.
const HashHeader = "HashSHA256"

// HashString computes an HMAC-SHA256 signature over data with hashKey and
// returns it hex-encoded.
//
// Example usage:
//
//	signature := utils.HashString(string(body), "my-secret-key")
func HashString(data string, hashKey string) string {
	return HashBytes([]byte(data), hashKey)
}

// HashBytes is HashString for a byte slice.
func HashBytes(data []byte, hashKey string) string {
	hasher := hmac.New(sha256.New, []byte(hashKey))
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}

// VerifyHash reports whether signature is the HMAC of data under hashKey.
// The comparison is constant time.
func VerifyHash(data []byte, signature, hashKey string) bool {
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	hasher := hmac.New(sha256.New, []byte(hashKey))
	hasher.Write(data)
	return hmac.Equal(hasher.Sum(nil), expected)
}

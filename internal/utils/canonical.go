package utils

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
	"golang.org/x/crypto/blake2b"
)

// CanonicalJSON marshals v and rewrites the result into RFC 8785 canonical
// form, so that equal values always produce identical bytes regardless of
// key order or number formatting.
func CanonicalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("error marshaling value: %w", err)
	}

	return CanonicalizeJSON(raw)
}

// CanonicalizeJSON canonicalizes an already encoded JSON document.
func CanonicalizeJSON(raw []byte) ([]byte, error) {
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("error canonicalizing json: %w", err)
	}

	return canonical, nil
}

// Digest returns the hex-encoded BLAKE2b-256 digest of data.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

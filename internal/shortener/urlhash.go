package shortener

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashURL computes the SHA-256 of rawURL exactly as submitted.
// URLs are not normalized: "https://a.com" and "https://a.com/" are different mappings.
func HashURL(rawURL string) URLHash {
	h := sha256.Sum256([]byte(rawURL))

	return URLHash(hex.EncodeToString(h[:]))
}

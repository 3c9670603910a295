package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// GetCacheKey returns the cache key for one extraction.
// Format: {contentHash}-{mode} where mode is "all" or "pub".
func GetCacheKey(source string, includePrivate bool) string {
	mode := "pub"
	if includePrivate {
		mode = "all"
	}
	return hashString(source) + "-" + mode
}

// hashString returns SHA-256 hash of the input string as hex.
func hashString(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

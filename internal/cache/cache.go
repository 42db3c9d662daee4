// Package cache memoizes provider verdicts. Classification and sentiment
// calls are deterministic for a given announcement text, so entries only
// ever expire on TTL, never on content change.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache holds serialized verdicts keyed by Key.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
}

// Key builds a namespaced cache key from the given parts. Parts are hashed
// so arbitrary announcement text can act as a key.
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "credlens:v1:" + hex.EncodeToString(hash[:])
}

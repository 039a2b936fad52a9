package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores translation outputs so repeated requests skip the translator.
type Cache interface {
	// GetTranslation returns the cached translation for key.
	// ok is false on a miss.
	GetTranslation(ctx context.Context, key string) (translation string, ok bool, err error)

	// SetTranslation stores a translation with TTL
	SetTranslation(ctx context.Context, key, translation string, ttl time.Duration) error

	// Close closes the cache connection
	Close() error
}

// GenerateCacheKey derives a stable key from the language pair and input text.
func GenerateCacheKey(source, target, text string) string {
	h := sha256.New()
	h.Write([]byte(source))
	h.Write([]byte{0})
	h.Write([]byte(target))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

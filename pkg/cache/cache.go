// Package cache stores rendered graph artifacts between CLI runs.
//
// Keys are content-addressed: [Keyer.ArtifactKey] hashes the serialized
// graph together with every render option, so a changed input or option
// is a different key and no explicit invalidation is needed.
//
// Two backends exist. [FileCache] keeps entries as JSON files under a
// directory; [NullCache] never stores anything and is used when caching is
// disabled. Wrap either with [WithHooks] to report hits and misses through
// the observability cache hooks.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/querygraph/pkg/observability"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. A miss is
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Removing a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

type hooked struct {
	Cache
}

// WithHooks reports Get and Set outcomes to [observability.Cache]. The key
// type passed to the hooks is the key prefix before the first colon.
func WithHooks(c Cache) Cache {
	if c == nil {
		c = NewNullCache()
	}
	return hooked{c}
}

func (h hooked) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := h.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, ok, err
}

func (h hooked) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := h.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	return nil
}

func keyType(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}

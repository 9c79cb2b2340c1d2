// Package cache provides the key/value caches used by the render pipeline.
//
// Two kinds of entries are cached:
//
//   - datasets: the normalized element list parsed from an input file, keyed
//     by the input's hash and the color seed
//   - artifacts: rendered bytes, keyed by the scene's hash, the format and
//     the raster resolution
//
// The CLI uses [FileCache] under $XDG_CACHE_HOME, the HTTP server can share
// a [RedisCache] between instances, and [NullCache] disables caching.
package cache

import (
	"context"
	"time"
)

// TTLs for cached entries.
const (
	TTLDataset  = 7 * 24 * time.Hour
	TTLArtifact = 30 * 24 * time.Hour
)

// Cache stores opaque byte values with an optional time to live.
//
// Get reports a miss with hit == false and a nil error. Implementations must
// be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

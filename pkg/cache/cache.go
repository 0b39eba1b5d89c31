// Package cache stores generated mask artifacts by content hash.
//
// A design is hashed from its canonical TOML encoding (see config.Design),
// so two runs of the same design share GDS files and previews. Backends:
//
//   - [FileCache]: one JSON file per entry under the user cache directory
//   - [RedisCache]: a Redis server shared by several build hosts
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer]; wrap one in [NewScopedKeyer] to give a
// project or user its own namespace on a shared backend.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored data and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DefaultTTL bounds how long artifacts are kept. Outputs are a pure function
// of the design, so this only limits disk use.
const DefaultTTL = 30 * 24 * time.Hour

// DefaultDir returns the per-user artifact cache directory,
// $XDG_CACHE_HOME/maskgen or the platform equivalent.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "maskgen"), nil
}

// Package cache provides the simulator result cache: computed summaries
// and comparisons keyed by a hash of their input. Two implementations
// share one interface, an in-process TTL'd LRU and a Redis client.
package cache

import "context"

// ResultCache stores serialized computation results. Implementations
// must be safe for concurrent use; a failed Get is just a miss, the
// caller recomputes.
type ResultCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

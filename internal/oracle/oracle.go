// internal/oracle/oracle.go

// Package oracle answers point-in-time liveness questions about the
// pipeline under test.
package oracle

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultPattern matches the per-device freshness keys the ingest
// pipeline maintains in its cache.
const DefaultPattern = "latest:*"

// Oracle reports how many devices the pipeline currently considers
// live. Implementations do not retry; errors go straight back to the
// caller.
type Oracle interface {
	LiveCount(ctx context.Context) (int, error)
}

// Redis counts keys matching a namespace pattern in the pipeline's
// freshness cache.
type Redis struct {
	client  *redis.Client
	pattern string
}

// NewRedis builds an oracle over the cache at addr. Password and db
// may be zero values; an empty pattern falls back to DefaultPattern.
// No connection is attempted here; the first LiveCount surfaces
// connectivity problems.
func NewRedis(addr, password string, db int, pattern string) *Redis {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		pattern: pattern,
	}
}

// LiveCount walks the keyspace with a cursor scan and returns the
// number of matching keys. Counts taken while the keyspace is being
// rehashed can repeat a key and run slightly high.
func (r *Redis) LiveCount(ctx context.Context) (int, error) {
	count := 0
	iter := r.client.Scan(ctx, 0, r.pattern, 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("scan %q: %w", r.pattern, err)
	}
	return count, nil
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

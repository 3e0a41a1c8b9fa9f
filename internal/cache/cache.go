// Package cache holds the short-lived result cache for parsed catalog data.
//
// Both backends share JSON (de)serialization so cached payloads are isolated
// from the slices handed to callers: post-fetch filtering can never mutate
// what is stored. There is intentionally no single-flight: two concurrent
// misses for the same key may both fetch, last write wins.
package cache

import (
	"context"
	"time"
)

// Store maps normalized query keys to cached payloads with a time-to-live.
// Get treats an entry older than its TTL as a miss. dest must be a pointer;
// it is only written on a hit.
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Clear(ctx context.Context) (int, error)
	Len(ctx context.Context) int
}

// Stats is an informational snapshot for the health payload.
type Stats struct {
	Backend    string        `json:"backend"`
	Entries    int           `json:"entries"`
	DefaultTTL time.Duration `json:"-"`
	TTLSeconds int           `json:"ttlSeconds"`
}

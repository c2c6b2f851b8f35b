package kvcache

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("cache store is closed")

// Store is a string key-value cache whose entries expire.
//
// Get reports a miss for absent and expired entries alike. Each call is
// atomic for its key; there are no cross-key transactions. Concurrent
// writers of the same key overwrite each other.
type Store interface {
	// Get returns the value stored under key, if present and not expired.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key for ttl. A non-positive ttl stores
	// nothing.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries and returns how many were removed.
	Cleanup(ctx context.Context) (int, error)

	// Clear removes every entry owned by this store.
	Clear(ctx context.Context) (int, error)

	// Stats reports the store's current contents.
	Stats(ctx context.Context) (Stats, error)

	// Close releases resources. It is safe to call more than once.
	Close() error
}

// Stats describes a store's contents.
type Stats struct {
	Backend string `json:"backend"`
	Entries int    `json:"entries"`
	Expired int    `json:"expired"`
	Bytes   int64  `json:"bytes"`
}

// entry is one cached value with its absolute expiry.
type entry struct {
	value     string
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}

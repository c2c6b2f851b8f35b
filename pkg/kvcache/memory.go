package kvcache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps entries in process memory. Nothing survives a restart;
// it is meant for tests and for one-shot CLI runs.
type MemoryStore struct {
	prefix  string
	entries map[string]entry
	mu      sync.RWMutex
	now     func() time.Time
	closed  bool
}

// NewMemoryStore creates an empty in-memory store. Keys are stored with
// prefix prepended.
func NewMemoryStore(prefix string) *MemoryStore {
	return &MemoryStore{
		prefix:  prefix,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get implements Store.
func (m *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", false, ErrClosed
	}
	e, ok := m.entries[m.prefix+key]
	if !ok || e.expired(m.now()) {
		return "", false, nil
	}
	return e.value, true, nil
}

// Set implements Store.
func (m *MemoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.entries[m.prefix+key] = entry{value: value, expiresAt: m.now().Add(ttl)}
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	delete(m.entries, m.prefix+key)
	return nil
}

// Cleanup implements Store.
func (m *MemoryStore) Cleanup(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrClosed
	}
	now := m.now()
	removed := 0
	for k, e := range m.entries {
		if m.owns(k) && e.expired(now) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed, nil
}

// Clear implements Store.
func (m *MemoryStore) Clear(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrClosed
	}
	removed := 0
	for k := range m.entries {
		if m.owns(k) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed, nil
}

// Stats implements Store.
func (m *MemoryStore) Stats(ctx context.Context) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Stats{}, ErrClosed
	}
	now := m.now()
	stats := Stats{Backend: BackendMemory}
	for k, e := range m.entries {
		if !m.owns(k) {
			continue
		}
		stats.Entries++
		if e.expired(now) {
			stats.Expired++
		}
		stats.Bytes += int64(len(k) + len(e.value))
	}
	return stats, nil
}

// owns reports whether k was written under this store's prefix.
func (m *MemoryStore) owns(k string) bool {
	return strings.HasPrefix(k, m.prefix)
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.entries = nil
	return nil
}

package cache

import (
	"context"
	"sync"
	"time"
)

type item[V any] struct {
	expiresAt time.Time // zero: never
	value     V
}

func (it item[V]) expired(now time.Time) bool {
	return !it.expiresAt.IsZero() && now.After(it.expiresAt)
}

// MemoryOption configures Memory.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	defaultTTL      time.Duration
	cleanupInterval time.Duration
	maxEntries      int
}

// WithDefaultTTL sets the TTL used when Set gets zero. Default: 1 hour
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.defaultTTL = d
	}
}

// WithCleanupInterval sets how often expired entries are purged.
// Zero disables the background janitor. Default: 1 minute
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.cleanupInterval = d
	}
}

// WithMaxEntries caps the number of entries. When full, Set drops the entry
// closest to expiry. Zero means unlimited. Default: 0
func WithMaxEntries(n int) MemoryOption {
	return func(o *memoryOptions) {
		o.maxEntries = n
	}
}

// Memory is an in-process Cache with per-entry expiry.
type Memory[V any] struct {
	mu     sync.Mutex
	items  map[string]item[V]
	opts   memoryOptions
	done   chan struct{}
	closed bool
}

var _ Cache[any] = (*Memory[any])(nil)

// NewMemory returns a Memory cache. Call Close to stop its janitor.
//
// Example:
//
//	c := cache.NewMemory[[]store.Hashtag](
//	    cache.WithDefaultTTL(time.Hour),
//	    cache.WithMaxEntries(100),
//	)
//	defer c.Close()
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	o := memoryOptions{defaultTTL: time.Hour, cleanupInterval: time.Minute}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Memory[V]{
		items: make(map[string]item[V]),
		opts:  o,
		done:  make(chan struct{}),
	}
	if o.cleanupInterval > 0 {
		go m.janitor()
	}
	return m
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.items[key]
	if !ok || it.expired(time.Now()) {
		delete(m.items, key)
		var zero V
		return zero, ErrNotFound
	}
	return it.value, nil
}

func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if ttl == 0 {
		ttl = m.opts.defaultTTL
	}
	it := item[V]{value: value}
	if ttl > 0 {
		it.expiresAt = time.Now().Add(ttl)
	}

	if _, exists := m.items[key]; !exists && m.opts.maxEntries > 0 && len(m.items) >= m.opts.maxEntries {
		m.evict()
	}
	m.items[key] = it
	return nil
}

func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	delete(m.items, key)
	return nil
}

func (m *Memory[V]) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	clear(m.items)
	return nil
}

// Len returns the number of stored entries, expired ones included until purged.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Close stops the janitor. Further writes fail with ErrClosed. Close is idempotent.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}

func (m *Memory[V]) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.purge()
		}
	}
}

func (m *Memory[V]) purge() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for k, it := range m.items {
		if it.expired(now) {
			delete(m.items, k)
		}
	}
}

// evict drops expired entries, or the one expiring first when none are.
// Caller holds the mutex.
func (m *Memory[V]) evict() {
	now := time.Now()
	var (
		victim string
		best   time.Time
		found  bool
	)
	for k, it := range m.items {
		switch {
		case it.expired(now):
			delete(m.items, k)
		case !found:
			victim, best, found = k, it.expiresAt, true
		case earlier(it.expiresAt, best):
			victim, best = k, it.expiresAt
		}
	}
	if found && len(m.items) >= m.opts.maxEntries {
		delete(m.items, victim)
	}
}

// earlier orders expiry times with the zero time (never) last.
func earlier(a, b time.Time) bool {
	if a.IsZero() {
		return false
	}
	return b.IsZero() || a.Before(b)
}

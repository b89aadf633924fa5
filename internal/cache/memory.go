package cache

import (
	"context"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"

	"github.com/goliatone/go-site-feeds/pkg/interfaces"
)

// Memory is a bounded in-process CacheProvider. Entries are evicted least
// recently used first and expire after their TTL.
type Memory struct {
	mu         sync.Mutex
	entries    *lru.Cache
	defaultTTL time.Duration
	now        func() time.Time
}

var _ interfaces.CacheProvider = (*Memory)(nil)

type entry struct {
	value     any
	expiresAt time.Time
}

// Option customises a Memory cache.
type Option func(*Memory)

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemory builds a cache holding at most maxEntries values (0 means
// unbounded). A zero ttl passed to Set falls back to defaultTTL; a zero
// defaultTTL keeps entries until evicted.
func NewMemory(maxEntries int, defaultTTL time.Duration, opts ...Option) *Memory {
	m := &Memory{
		entries:    lru.New(maxEntries),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Get(ctx context.Context, key string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, ok := m.entries.Get(key)
	if !ok {
		return nil, nil
	}
	e := raw.(entry)
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		m.entries.Remove(key)
		return nil, nil
	}
	return e.value, nil
}

func (m *Memory) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.entries.Add(key, e)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	m.entries.Remove(key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	m.entries.Clear()
	m.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries.Len()
}

package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCacheService is a process-local CacheService for development and
// tests. Locks are real mutexes, so the mutual-exclusion guarantee holds
// within a single process only.
type MemoryCacheService struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	locks   map[string]*sync.Mutex
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryCacheService creates an in-memory cache service
func NewMemoryCacheService() CacheService {
	return &MemoryCacheService{
		entries: make(map[string]memoryEntry),
		locks:   make(map[string]*sync.Mutex),
	}
}

func (m *MemoryCacheService) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := memoryEntry{value: value}
	if expiration > 0 {
		entry.expiresAt = time.Now().Add(expiration)
	}
	m.entries[key] = entry
	return nil
}

func (m *MemoryCacheService) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok {
		return "", ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(m.entries, key)
		return "", ErrCacheMiss
	}
	return entry.value, nil
}

func (m *MemoryCacheService) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *MemoryCacheService) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.Get(ctx, key)
	if err == ErrCacheMiss {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (m *MemoryCacheService) WithLock(ctx context.Context, name string, fn func() error) error {
	m.mu.Lock()
	lock, ok := m.locks[name]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[name] = lock
	}
	m.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	return fn()
}

func (m *MemoryCacheService) Close() error {
	return nil
}

func (m *MemoryCacheService) HealthCheck(ctx context.Context) error {
	return nil
}

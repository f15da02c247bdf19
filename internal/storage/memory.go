package storage

import (
	"context"
	"sync"
	"time"
)

// Memory 进程内存储，用于测试与单实例部署
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemory 创建内存存储
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Name 驱动名称
func (m *Memory) Name() string { return DriverMemory }

// For 返回命名空间存储
func (m *Memory) For(namespace string) Backend {
	return &memoryBackend{store: m, namespace: normalizeNamespace(namespace)}
}

// PurgeExpired 清理过期条目
func (m *Memory) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for k, e := range m.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed, nil
}

type memoryBackend struct {
	store     *Memory
	namespace string
}

func (b *memoryBackend) key(key string) string {
	return b.namespace + "\x00" + key
}

func (b *memoryBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.store.mu.RLock()
	e, ok := b.store.entries[b.key(key)]
	b.store.mu.RUnlock()
	if !ok || (!e.expiresAt.IsZero() && b.store.now().After(e.expiresAt)) {
		return nil, ErrNotFound
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (b *memoryBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	var expiresAt time.Time
	if b.store.ttl > 0 {
		expiresAt = b.store.now().Add(b.store.ttl)
	}
	b.store.mu.Lock()
	b.store.entries[b.key(key)] = memoryEntry{value: stored, expiresAt: expiresAt}
	b.store.mu.Unlock()
	return nil
}

func (b *memoryBackend) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.store.mu.Lock()
	delete(b.store.entries, b.key(key))
	b.store.mu.Unlock()
	return nil
}

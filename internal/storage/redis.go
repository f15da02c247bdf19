package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spongik/storefront/internal/cache"
)

// ErrRedisDisabled Redis 未启用
var ErrRedisDisabled = errors.New("storage: redis is not enabled")

// Redis 基于 Redis 的存储，键格式 <prefix>:ls:<namespace>:<key>
type Redis struct {
	ttl time.Duration
}

// NewRedis 创建 Redis 存储，需先调用 cache.InitRedis
func NewRedis(ttl time.Duration) (*Redis, error) {
	if !cache.Enabled() {
		return nil, ErrRedisDisabled
	}
	return &Redis{ttl: ttl}, nil
}

// Name 驱动名称
func (r *Redis) Name() string { return DriverRedis }

// For 返回命名空间存储
func (r *Redis) For(namespace string) Backend {
	return &redisBackend{ttl: r.ttl, namespace: normalizeNamespace(namespace)}
}

type redisBackend struct {
	ttl       time.Duration
	namespace string
}

func (b *redisBackend) key(key string) string {
	return fmt.Sprintf("ls:%s:%s", b.namespace, key)
}

func (b *redisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if !cache.Enabled() {
		return nil, ErrRedisDisabled
	}
	raw, hit, err := cache.GetBytes(ctx, b.key(key))
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, ErrNotFound
	}
	return raw, nil
}

func (b *redisBackend) Set(ctx context.Context, key string, value []byte) error {
	if !cache.Enabled() {
		return ErrRedisDisabled
	}
	return cache.SetBytes(ctx, b.key(key), value, b.ttl)
}

func (b *redisBackend) Delete(ctx context.Context, key string) error {
	if !cache.Enabled() {
		return ErrRedisDisabled
	}
	return cache.Del(ctx, b.key(key))
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound 键不存在
var ErrNotFound = errors.New("storage: key not found")

// 驱动名称
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverDatabase = "database"
)

// Backend 单个访客命名空间下的键值存储
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Provider 按访客命名空间分配存储
type Provider interface {
	Name() string
	For(namespace string) Backend
}

// Purger 支持清理过期数据的存储
type Purger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// Options 存储选项
type Options struct {
	Driver string
	TTL    time.Duration
	DB     *gorm.DB
}

// Open 按驱动创建存储
func Open(opts Options) (Provider, error) {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", DriverMemory:
		return NewMemory(ttl), nil
	case DriverRedis:
		return NewRedis(ttl)
	case DriverDatabase:
		return NewDatabase(opts.DB, ttl)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", opts.Driver)
	}
}

func normalizeNamespace(namespace string) string {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		return "anonymous"
	}
	return namespace
}

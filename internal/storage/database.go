package storage

import (
	"context"
	"errors"
	"time"

	"github.com/spongik/storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNilDB 数据库未初始化
var ErrNilDB = errors.New("storage: database is nil")

// Database 基于 gorm 的存储（sqlite / postgres）
type Database struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewDatabase 创建数据库存储并迁移表结构
func NewDatabase(db *gorm.DB, ttl time.Duration) (*Database, error) {
	if db == nil {
		return nil, ErrNilDB
	}
	if err := models.AutoMigrate(db); err != nil {
		return nil, err
	}
	return &Database{db: db, ttl: ttl, now: time.Now}, nil
}

// Name 驱动名称
func (d *Database) Name() string { return DriverDatabase }

// For 返回命名空间存储
func (d *Database) For(namespace string) Backend {
	return &databaseBackend{store: d, namespace: normalizeNamespace(namespace)}
}

// PurgeExpired 删除过期记录
func (d *Database) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result := d.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&models.LocalStorageEntry{})
	return result.RowsAffected, result.Error
}

type databaseBackend struct {
	store     *Database
	namespace string
}

func (b *databaseBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var entry models.LocalStorageEntry
	err := b.store.db.WithContext(ctx).
		Where("namespace = ? AND key = ?", b.namespace, key).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !entry.ExpiresAt.IsZero() && b.store.now().After(entry.ExpiresAt) {
		return nil, ErrNotFound
	}
	return entry.Value, nil
}

func (b *databaseBackend) Set(ctx context.Context, key string, value []byte) error {
	now := b.store.now()
	entry := models.LocalStorageEntry{
		Namespace: b.namespace,
		Key:       key,
		Value:     value,
		ExpiresAt: now.Add(b.store.ttl),
		UpdatedAt: now,
	}
	return b.store.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&entry).Error
}

func (b *databaseBackend) Delete(ctx context.Context, key string) error {
	return b.store.db.WithContext(ctx).
		Where("namespace = ? AND key = ?", b.namespace, key).
		Delete(&models.LocalStorageEntry{}).Error
}

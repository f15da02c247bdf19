package models

import "time"

// LocalStorageEntry 访客本地存储键值表
type LocalStorageEntry struct {
	Namespace string    `gorm:"primaryKey;type:varchar(64)" json:"namespace"` // 访客会话ID
	Key       string    `gorm:"primaryKey;type:varchar(64)" json:"key"`       // 存储键
	Value     []byte    `gorm:"not null" json:"value"`                        // JSON 内容
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`                      // 过期时间
	UpdatedAt time.Time `json:"updated_at"`                                   // 更新时间
}

// TableName 指定表名
func (LocalStorageEntry) TableName() string {
	return "local_storage_entries"
}

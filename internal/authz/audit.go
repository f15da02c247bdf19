package authz

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// AuditLog 权限变更审计日志
type AuditLog struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	OperatorUserID uint      `gorm:"index" json:"operator_user_id"`
	OperatorEmail  string    `gorm:"type:varchar(255)" json:"operator_email"`
	TargetUserID   *uint     `gorm:"index" json:"target_user_id,omitempty"`
	Action         string    `gorm:"type:varchar(64);index" json:"action"`
	Role           string    `gorm:"type:varchar(128)" json:"role,omitempty"`
	Object         string    `gorm:"type:varchar(255)" json:"object,omitempty"`
	Method         string    `gorm:"type:varchar(16)" json:"method,omitempty"`
	RequestID      string    `gorm:"type:varchar(64)" json:"request_id,omitempty"`
	Detail         string    `gorm:"type:text" json:"detail,omitempty"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (AuditLog) TableName() string {
	return "authz_audit_logs"
}

// AuditRecord 审计记录输入
type AuditRecord struct {
	OperatorUserID uint
	OperatorEmail  string
	TargetUserID   *uint
	Action         string
	Role           string
	Object         string
	Method         string
	RequestID      string
	Detail         map[string]interface{}
}

// AuditFilter 审计日志查询条件
type AuditFilter struct {
	Page           int
	PageSize       int
	OperatorUserID uint
	TargetUserID   uint
	Action         string
	Role           string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
}

// AuditStore 审计日志存储
type AuditStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewAuditStore 创建审计存储并迁移表结构
func NewAuditStore(db *gorm.DB) (*AuditStore, error) {
	if db == nil {
		return nil, fmt.Errorf("authz audit db is nil")
	}
	if err := db.AutoMigrate(&AuditLog{}); err != nil {
		return nil, fmt.Errorf("migrate authz audit log failed: %w", err)
	}
	return &AuditStore{db: db, now: time.Now}, nil
}

// Record 写入一条审计日志；缺少操作人或动作时忽略
func (s *AuditStore) Record(input AuditRecord) error {
	if s == nil || s.db == nil {
		return nil
	}
	if input.OperatorUserID == 0 || strings.TrimSpace(input.Action) == "" {
		return nil
	}
	item := &AuditLog{
		OperatorUserID: input.OperatorUserID,
		OperatorEmail:  strings.TrimSpace(input.OperatorEmail),
		TargetUserID:   input.TargetUserID,
		Action:         strings.TrimSpace(input.Action),
		Role:           strings.TrimSpace(input.Role),
		Object:         strings.TrimSpace(input.Object),
		Method:         strings.ToUpper(strings.TrimSpace(input.Method)),
		RequestID:      strings.TrimSpace(input.RequestID),
		CreatedAt:      s.now(),
	}
	if len(input.Detail) > 0 {
		raw, err := json.Marshal(input.Detail)
		if err != nil {
			return fmt.Errorf("encode audit detail failed: %w", err)
		}
		item.Detail = string(raw)
	}
	return s.db.Create(item).Error
}

// List 分页查询审计日志（按 ID 倒序）
func (s *AuditStore) List(filter AuditFilter) ([]AuditLog, int64, error) {
	if s == nil || s.db == nil {
		return []AuditLog{}, 0, nil
	}
	query := s.db.Model(&AuditLog{})
	if filter.OperatorUserID != 0 {
		query = query.Where("operator_user_id = ?", filter.OperatorUserID)
	}
	if filter.TargetUserID != 0 {
		query = query.Where("target_user_id = ?", filter.TargetUserID)
	}
	if action := strings.TrimSpace(filter.Action); action != "" {
		query = query.Where("action = ?", action)
	}
	if role := strings.TrimSpace(filter.Role); role != "" {
		query = query.Where("role = ?", role)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Limit(filter.PageSize).Offset((page - 1) * filter.PageSize)
	}
	logs := make([]AuditLog, 0)
	if err := query.Order("id DESC").Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

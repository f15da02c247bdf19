package models

import (
	"encoding/json"
	"strings"
	"time"
)

// 促销类型与作用范围
const (
	PromotionTypePercent = "percent"
	PromotionTypeFixed   = "fixed"

	PromotionScopeAll      = "all"
	PromotionScopeCategory = "category"
	PromotionScopeProduct  = "product"
)

// Promotion 促销活动
type Promotion struct {
	ID          uint       `json:"id"`                    // 主键
	Code        string     `json:"code,omitempty"`        // 促销码
	Name        string     `json:"name"`                  // 名称
	Description string     `json:"description,omitempty"` // 描述
	Type        string     `json:"type"`                  // percent / fixed
	Scope       string     `json:"scope"`                 // all / category / product
	Priority    int        `json:"priority"`              // 优先级
	Value       Money      `json:"value"`                 // 数值
	TargetIDs   string     `json:"target_ids,omitempty"`  // JSON 数组字符串，如 "[1,2,3]"
	StartsAt    *time.Time `json:"starts_at,omitempty"`   // 开始时间
	EndsAt      *time.Time `json:"ends_at,omitempty"`     // 结束时间
	IsActive    bool       `json:"is_active"`             // 是否启用
}

// Targets 解析 target_ids
func (p Promotion) Targets() []uint {
	raw := strings.TrimSpace(p.TargetIDs)
	if raw == "" {
		return nil
	}
	var ids []uint
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil
	}
	return ids
}

// ActiveAt 判断活动在指定时间是否生效
func (p Promotion) ActiveAt(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.StartsAt != nil && now.Before(*p.StartsAt) {
		return false
	}
	if p.EndsAt != nil && now.After(*p.EndsAt) {
		return false
	}
	return true
}

// PromotionInput 后台创建/更新促销
type PromotionInput struct {
	Code        *string    `json:"code,omitempty"`
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Type        *string    `json:"type,omitempty"`
	Scope       *string    `json:"scope,omitempty"`
	Priority    *int       `json:"priority,omitempty"`
	Value       *Money     `json:"value,omitempty"`
	TargetIDs   *string    `json:"target_ids,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
}

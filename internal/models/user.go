package models

import (
	"strings"
	"time"
)

const (
	RoleCustomer = "customer"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

// SessionUser 当前会话用户（nil 表示游客）
type SessionUser struct {
	ID        uint   `json:"id"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      string `json:"role"`
}

// IsAdmin 是否管理员
func (u *SessionUser) IsAdmin() bool {
	return u != nil && strings.EqualFold(u.Role, RoleAdmin)
}

// DisplayName 展示名称
func (u *SessionUser) DisplayName() string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	if u.Email != "" {
		return u.Email
	}
	return u.Phone
}

// LoginInput 登录请求
type LoginInput struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterInput 注册请求
type RegisterInput struct {
	Email     string `json:"email,omitempty" binding:"omitempty,mailbox"`
	Phone     string `json:"phone,omitempty" binding:"omitempty,phone"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// ProfileInput 个人资料更新
type ProfileInput struct {
	Email     *string `json:"email,omitempty" binding:"omitempty,mailbox"`
	Phone     *string `json:"phone,omitempty" binding:"omitempty,phone"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// AdminUser 后台用户列表条目
type AdminUser struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// AdminUserInput 后台用户更新
type AdminUserInput struct {
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

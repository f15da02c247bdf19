package state

import (
	"sync"

	"github.com/spongik/storefront/internal/models"
)

// User 会话用户（仅内存）
type User struct {
	store *Store
	mu    sync.RWMutex
	data  *models.SessionUser
}

// Set 设置当前用户，nil 等同于 Clear
func (u *User) Set(user *models.SessionUser) {
	var copied *models.SessionUser
	if user != nil {
		c := *user
		copied = &c
	}
	u.mu.Lock()
	u.data = copied
	u.mu.Unlock()

	u.store.Events.UserUpdated.Publish(u.Current())
}

// Clear 清除当前用户
func (u *User) Clear() {
	u.Set(nil)
}

// Current 返回当前用户副本，游客为 nil
func (u *User) Current() *models.SessionUser {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.data == nil {
		return nil
	}
	c := *u.data
	return &c
}

// IsAuthenticated 是否已登录
func (u *User) IsAuthenticated() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.data != nil
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.data.IsAdmin()
}

package cache

import (
	"context"
	"strings"
	"time"

	"github.com/spongik/storefront/internal/models"
)

const sessionStateCacheTTL = 24 * time.Hour

// SessionCookie 后端会话 Cookie 快照
type SessionCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Domain  string    `json:"domain,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
}

// SessionState 访客会话快照
// 用于多实例或重启后恢复登录用户与后端 Cookie
type SessionState struct {
	SessionID string              `json:"session_id"`
	User      *models.SessionUser `json:"user,omitempty"`
	Cookies   []SessionCookie     `json:"cookies,omitempty"`
	UpdatedAt int64               `json:"updated_at"`
}

func sessionStateKey(sessionID string) string {
	return "session:" + strings.TrimSpace(sessionID)
}

// GetSessionState 获取会话快照
func GetSessionState(ctx context.Context, sessionID string) (*SessionState, bool, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, false, nil
	}
	var state SessionState
	hit, err := GetJSON(ctx, sessionStateKey(sessionID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetSessionState 写入会话快照
func SetSessionState(ctx context.Context, state *SessionState) error {
	if state == nil || strings.TrimSpace(state.SessionID) == "" {
		return nil
	}
	if state.UpdatedAt == 0 {
		state.UpdatedAt = time.Now().Unix()
	}
	return SetJSON(ctx, sessionStateKey(state.SessionID), state, sessionStateCacheTTL)
}

// DelSessionState 删除会话快照
func DelSessionState(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	return Del(ctx, sessionStateKey(sessionID))
}

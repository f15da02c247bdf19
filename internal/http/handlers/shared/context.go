package shared

import (
	"github.com/spongik/storefront/internal/http/response"
	"github.com/spongik/storefront/internal/session"

	"github.com/gin-gonic/gin"
)

// SessionContextKey 访客会话在 gin 上下文中的 key
const SessionContextKey = "visitor_session"

// SetSession 写入访客会话
func SetSession(c *gin.Context, sess *session.Session) {
	c.Set(SessionContextKey, sess)
}

// SessionFrom 读取访客会话（不写响应）
func SessionFrom(c *gin.Context) (*session.Session, bool) {
	value, exists := c.Get(SessionContextKey)
	if !exists {
		return nil, false
	}
	sess, ok := value.(*session.Session)
	return sess, ok && sess != nil
}

// GetSession 读取访客会话，缺失时统一返回错误响应。
func GetSession(c *gin.Context) (*session.Session, bool) {
	sess, ok := SessionFrom(c)
	if !ok {
		RespondError(c, response.CodeInternal, "error.session_unavailable", nil)
		return nil, false
	}
	return sess, true
}

// RequireUser 读取会话并要求已登录。
func RequireUser(c *gin.Context) (*session.Session, bool) {
	sess, ok := GetSession(c)
	if !ok {
		return nil, false
	}
	if sess.User() == nil {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return nil, false
	}
	return sess, true
}

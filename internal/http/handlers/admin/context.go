package admin

import (
	"context"
	"strings"
	"time"

	handlershared "github.com/spongik/storefront/internal/http/handlers/shared"
	"github.com/spongik/storefront/internal/http/response"
	"github.com/spongik/storefront/internal/i18n"
	"github.com/spongik/storefront/internal/session"

	"github.com/gin-gonic/gin"
)

// currentSession 后台请求的会话，要求已登录
func currentSession(c *gin.Context) (*session.Session, bool) {
	return handlershared.RequireUser(c)
}

func currentUserID(c *gin.Context) uint {
	sess, ok := handlershared.SessionFrom(c)
	if !ok || sess.User() == nil {
		return 0
	}
	return sess.User().ID
}

func currentUserEmail(c *gin.Context) string {
	sess, ok := handlershared.SessionFrom(c)
	if !ok || sess.User() == nil {
		return ""
	}
	return sess.User().Email
}

func currentRequestID(c *gin.Context) string {
	value, exists := c.Get("request_id")
	if !exists {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return strings.TrimSpace(requestID)
	}
	return ""
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, ok := handlershared.ParseUintParam(c, name)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return id, true
}

func parseTimeNullable(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func locale(c *gin.Context) string {
	return i18n.ResolveLocale(c)
}

func toast(c *gin.Context, key string) string {
	return i18n.T(locale(c), key)
}

func ctxOf(c *gin.Context) context.Context {
	return c.Request.Context()
}

package admin

import (
	"github.com/spongik/storefront/internal/apiclient"
	handlershared "github.com/spongik/storefront/internal/http/handlers/shared"
	"github.com/spongik/storefront/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

// respondBackendError 透传后端错误；后端会话失效时同时清除本地登录态
func (h *Handler) respondBackendError(c *gin.Context, sess *session.Session, err error, fallbackKey string) {
	if apiclient.IsUnauthorized(err) && sess != nil && sess.User() != nil {
		requestLog(c).Infow("admin_session_backend_expired", "session_id", sess.ID, "user_id", sess.User().ID)
		h.Sessions.Logout(c.Request.Context(), sess)
	}
	handlershared.RespondBackendError(c, err, fallbackKey)
}

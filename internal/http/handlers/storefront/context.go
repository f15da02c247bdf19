package storefront

import (
	"context"

	handlershared "github.com/spongik/storefront/internal/http/handlers/shared"
	"github.com/spongik/storefront/internal/i18n"
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

func respondBackendError(c *gin.Context, err error, fallbackKey string) {
	handlershared.RespondBackendError(c, err, fallbackKey)
}

func getSession(c *gin.Context) (*session.Session, bool) {
	return handlershared.GetSession(c)
}

func requireUser(c *gin.Context) (*session.Session, bool) {
	return handlershared.RequireUser(c)
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

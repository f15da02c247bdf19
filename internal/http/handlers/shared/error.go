package shared

import (
	"errors"
	"net/http"

	"github.com/spongik/storefront/internal/apiclient"
	"github.com/spongik/storefront/internal/http/response"
	"github.com/spongik/storefront/internal/i18n"
	"github.com/spongik/storefront/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	RespondErrorWithMsg(c, code, i18n.T(i18n.ResolveLocale(c), key), err)
}

// RespondErrorWithMsg 返回自定义消息错误响应，并在有原始错误时记录日志。
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", code,
			"message", msg,
			"error", err,
		)
	}
	response.Error(c, code, msg)
}

// RespondBackendError 透传后端错误：4xx 保留状态码与后端消息，连接失败与 5xx 使用本地化文案。
func RespondBackendError(c *gin.Context, err error, fallbackKey string) {
	if errors.Is(err, apiclient.ErrNoConnection) {
		RespondError(c, response.CodeUnavailable, "error.no_connection", err)
		return
	}
	apiErr, ok := apiclient.AsAPIError(err)
	if !ok || apiErr.Status >= http.StatusInternalServerError || apiErr.Status == 0 {
		RespondError(c, response.CodeInternal, fallbackKey, err)
		return
	}
	msg := apiErr.Message
	if msg == "" {
		msg = i18n.T(i18n.ResolveLocale(c), fallbackKey)
	}
	RequestLog(c).Warnw("backend_request_rejected",
		"status", apiErr.Status,
		"message", msg,
	)
	response.Error(c, apiErr.Status, msg)
}

// RespondFieldErrors 表单校验失败，逐字段返回错误文案。
func RespondFieldErrors(c *gin.Context, key string, fields map[string]string) {
	response.FieldErrors(c, i18n.T(i18n.ResolveLocale(c), key), fields)
}

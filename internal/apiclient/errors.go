package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spongik/storefront/internal/i18n"
)

var (
	// ErrNoConnection 后端不可达（网络错误、超时、熔断）
	ErrNoConnection = errors.New("apiclient: no connection")
	// ErrCircuitOpen 熔断器打开，请求未发出
	ErrCircuitOpen = errors.New("apiclient: circuit breaker is open")
)

// APIError 后端返回的错误
// Status 为 0 表示请求未得到响应
type APIError struct {
	Status  int
	Message string
	Data    json.RawMessage
	cause   error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("apiclient: %s", e.Message)
	}
	return fmt.Sprintf("apiclient: status %d: %s", e.Status, e.Message)
}

// Unwrap 连接失败时可通过 errors.Is(err, ErrNoConnection) 判断
func (e *APIError) Unwrap() error {
	return e.cause
}

// AsAPIError 提取 APIError
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsStatus 判断是否为指定状态码的后端错误
func IsStatus(err error, status int) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Status == status
}

// IsUnauthorized 未登录或会话失效
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}

// IsNotFound 资源不存在
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

func newConnectionError(cause error) *APIError {
	return &APIError{
		Status:  0,
		Message: i18n.T(i18n.DefaultLocale, "error.no_connection"),
		cause:   errors.Join(ErrNoConnection, cause),
	}
}

func newStatusError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Message: detailMessage(body)}
	if len(body) > 0 && json.Valid(body) {
		apiErr.Data = json.RawMessage(body)
	}
	if apiErr.Message == "" {
		apiErr.Message = i18n.T(i18n.DefaultLocale, "error.generic")
	}
	return apiErr
}

// detailMessage 解析 {"detail": "..."} 或校验错误列表 {"detail": [{"msg": "..."}]}
func detailMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if msg := strings.TrimSpace(item.Msg); msg != "" {
				msgs = append(msgs, msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

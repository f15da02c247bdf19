// Package response 前端统一信封：HTTP 状态恒为 200，业务结果看 status_code
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 业务状态码，与 HTTP 语义保持一致，便于前端直接透传后端状态
const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeConflict        = 409
	CodeValidation      = 422
	CodeTooManyRequests = 429
	CodeInternal        = 500
	CodeUnavailable     = 503
)

const okMsg = "success"

// Envelope 响应信封，pagination 仅列表接口返回
type Envelope struct {
	StatusCode int         `json:"status_code"`
	Msg        string      `json:"msg"`
	Data       interface{} `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination 分页信息
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
}

// NewPagination 按总数计算总页数
func NewPagination(page, pageSize int, total int64) Pagination {
	p := Pagination{Page: page, PageSize: pageSize, Total: total}
	if pageSize > 0 {
		p.TotalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return p
}

func write(c *gin.Context, env Envelope) {
	c.JSON(http.StatusOK, env)
}

// Success 成功
func Success(c *gin.Context, data interface{}) {
	write(c, Envelope{StatusCode: CodeOK, Msg: okMsg, Data: data})
}

// SuccessWithMsg 成功并带提示（购物车、收藏等操作的 toast）
func SuccessWithMsg(c *gin.Context, msg string, data interface{}) {
	write(c, Envelope{StatusCode: CodeOK, Msg: msg, Data: data})
}

// SuccessWithPage 分页列表
func SuccessWithPage(c *gin.Context, data interface{}, pagination Pagination) {
	write(c, Envelope{StatusCode: CodeOK, Msg: okMsg, Data: data, Pagination: &pagination})
}

// Error 失败，data 中带 request_id 便于排查
func Error(c *gin.Context, code int, msg string) {
	write(c, Envelope{StatusCode: code, Msg: msg, Data: withRequestID(c, nil)})
}

// ErrorWithData 失败并附带数据（如表单字段错误）
func ErrorWithData(c *gin.Context, code int, msg string, data interface{}) {
	write(c, Envelope{StatusCode: code, Msg: msg, Data: withRequestID(c, data)})
}

// FieldErrors 表单校验失败，fields 为 字段 -> 文案
func FieldErrors(c *gin.Context, msg string, fields map[string]string) {
	ErrorWithData(c, CodeValidation, msg, gin.H{"fields": fields})
}

// NotFound 404
func NotFound(c *gin.Context, msg string) { Error(c, CodeNotFound, msg) }

// Unauthorized 401
func Unauthorized(c *gin.Context, msg string) { Error(c, CodeUnauthorized, msg) }

// Forbidden 403
func Forbidden(c *gin.Context, msg string) { Error(c, CodeForbidden, msg) }

// BadRequest 400
func BadRequest(c *gin.Context, msg string) { Error(c, CodeBadRequest, msg) }

func withRequestID(c *gin.Context, data interface{}) interface{} {
	if c == nil {
		return data
	}
	id := c.GetString("request_id")
	if id == "" {
		return data
	}
	switch v := data.(type) {
	case nil:
		return gin.H{"request_id": id}
	case gin.H:
		if _, ok := v["request_id"]; !ok {
			v["request_id"] = id
		}
		return v
	default:
		return gin.H{"request_id": id, "data": data}
	}
}

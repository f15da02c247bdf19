package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/spongik/storefront/internal/logger"
	"github.com/spongik/storefront/internal/metrics"
)

const (
	defaultTimeout  = 15 * time.Second
	maxResponseSize = 10 << 20
	requestIDHeader = "X-Request-ID"
)

type ctxKey int

const requestIDKey ctxKey = iota

// ContextWithRequestID 将请求 ID 透传给后端
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	if strings.TrimSpace(requestID) == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

func requestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// Client 后端 REST API 客户端
// 每个访客会话持有独立实例与 cookie jar，后端写入的会话 cookie 在后续请求中自动携带
type Client struct {
	baseURL    *url.URL
	http       *http.Client
	jar        http.CookieJar
	breaker    *Breaker
	retries    int
	retryDelay time.Duration
}

// Option 客户端选项
type Option func(*Client)

// WithTimeout 单次请求超时
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithTransport 自定义底层传输（多个会话共享连接池）
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.http.Transport = rt
		}
	}
}

// WithBreaker 共享熔断器
func WithBreaker(b *Breaker) Option {
	return func(c *Client) {
		c.breaker = b
	}
}

// WithRetry GET 请求在连接失败或 5xx 时的重试策略
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.retries = attempts
		}
		if delay >= 0 {
			c.retryDelay = delay
		}
	}
}

// New 创建客户端，baseURL 形如 http://host/api
func New(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("apiclient: invalid base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("apiclient: invalid base url %q", baseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("apiclient: cookie jar: %w", err)
	}
	c := &Client{
		baseURL:    parsed,
		jar:        jar,
		http:       &http.Client{Timeout: defaultTimeout, Jar: jar},
		retries:    1,
		retryDelay: 300 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL 后端地址
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Cookies 当前持有的后端 cookie（用于会话快照）
func (c *Client) Cookies() []*http.Cookie {
	return c.jar.Cookies(c.baseURL)
}

// SetCookies 恢复后端 cookie
func (c *Client) SetCookies(cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}
	c.jar.SetCookies(c.baseURL, cookies)
}

// ClearCookies 清空后端 cookie（退出登录）
func (c *Client) ClearCookies() {
	current := c.jar.Cookies(c.baseURL)
	expired := make([]*http.Cookie, 0, len(current))
	for _, ck := range current {
		expired = append(expired, &http.Cookie{Name: ck.Name, Value: "", Path: "/", MaxAge: -1})
	}
	if len(expired) > 0 {
		c.jar.SetCookies(c.baseURL, expired)
	}
}

// Do 发送 JSON 请求，body 为 nil 时不带请求体；204 时 out 保持不变
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: encode body: %w", err)
		}
		payload = raw
	}
	return c.send(ctx, method, endpoint, func() (io.Reader, string) {
		if payload == nil {
			return nil, "application/json"
		}
		return bytes.NewReader(payload), "application/json"
	}, out)
}

// FilePart multipart 文件字段
type FilePart struct {
	Field    string
	Filename string
	Content  []byte
}

// DoMultipart 发送 multipart/form-data 请求，Content-Type 由 boundary 决定
func (c *Client) DoMultipart(ctx context.Context, method, endpoint string, fields map[string]string, files []FilePart, out interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("apiclient: write field: %w", err)
		}
	}
	for _, file := range files {
		part, err := writer.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return fmt.Errorf("apiclient: create file part: %w", err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return fmt.Errorf("apiclient: write file part: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("apiclient: close multipart: %w", err)
	}
	payload := buf.Bytes()
	contentType := writer.FormDataContentType()
	return c.send(ctx, method, endpoint, func() (io.Reader, string) {
		return bytes.NewReader(payload), contentType
	}, out)
}

func (c *Client) send(ctx context.Context, method, endpoint string, body func() (io.Reader, string), out interface{}) error {
	target := c.resolve(endpoint)
	attempts := 1
	if method == http.MethodGet {
		attempts = c.retries
	}
	return retry(ctx, attempts, c.retryDelay, func() (bool, error) {
		if !c.breaker.allow() {
			return false, newConnectionError(ErrCircuitOpen)
		}
		err := c.roundTrip(ctx, method, target, body, out)
		failed := isServerFailure(err)
		c.breaker.record(failed)
		return failed, err
	})
}

func (c *Client) roundTrip(ctx context.Context, method, target string, body func() (io.Reader, string), out interface{}) error {
	reader, contentType := body()
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("apiclient: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if rid := requestIDFrom(ctx); rid != "" {
		req.Header.Set(requestIDHeader, rid)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveBackend(method, 0, time.Since(start))
		logger.Warnw("backend_request_failed",
			"method", method,
			"url", target,
			"request_id", requestIDFrom(ctx),
			"error", err,
		)
		return newConnectionError(err)
	}
	defer resp.Body.Close()
	metrics.ObserveBackend(method, resp.StatusCode, time.Since(start))

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return newConnectionError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newStatusError(resp.StatusCode, raw)
		logger.Debugw("backend_request_rejected",
			"method", method,
			"url", target,
			"status", resp.StatusCode,
			"detail", apiErr.Message,
			"request_id", requestIDFrom(ctx),
		)
		return apiErr
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("apiclient: decode %s %s: %w", method, target, err)
	}
	return nil
}

func (c *Client) resolve(endpoint string) string {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return c.baseURL.String() + endpoint
}

func isServerFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrCircuitOpen) {
		return false
	}
	apiErr, ok := AsAPIError(err)
	if !ok {
		return false
	}
	return apiErr.Status == 0 || apiErr.Status >= http.StatusInternalServerError
}

func withQuery(endpoint string, query url.Values) string {
	if len(query) == 0 {
		return endpoint
	}
	return endpoint + "?" + query.Encode()
}

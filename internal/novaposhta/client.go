package novaposhta

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/spongik/storefront/internal/logger"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	DefaultAPIURL      = "https://api.novaposhta.ua/v2.0/json/"
	defaultMinInterval = 200 * time.Millisecond
	defaultCacheTTL    = 5 * time.Minute
	defaultTimeout     = 10 * time.Second
	modelAddress       = "Address"
)

// 网点类型
const (
	TypePostomat = "Postomat"
	TypeBranch   = "9a68df70-0267-11e3-8595-0050568002cf"
)

var (
	// ErrTooManyRequests 承运商限流，调用方不得回退到缓存
	ErrTooManyRequests = errors.New("novaposhta: too many requests")
	// ErrAPI 承运商返回业务错误
	ErrAPI = errors.New("novaposhta: api error")
)

// Config 客户端配置
type Config struct {
	APIURL      string
	APIKey      string
	MinInterval time.Duration
	CacheTTL    time.Duration
	Timeout     time.Duration
}

// Client 新邮政地址查询客户端，进程内共享
type Client struct {
	apiURL   string
	apiKey   string
	cacheTTL time.Duration
	http     *http.Client
	limiter  *rate.Limiter
	group    singleflight.Group

	mu    sync.RWMutex
	cache map[string]cacheEntry
	now   func() time.Time
}

// New 创建客户端；未配置 API key 时所有查询返回空结果
func New(cfg Config) *Client {
	if strings.TrimSpace(cfg.APIURL) == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = defaultMinInterval
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		apiURL:   cfg.APIURL,
		apiKey:   strings.TrimSpace(cfg.APIKey),
		cacheTTL: cfg.CacheTTL,
		http:     &http.Client{Timeout: cfg.Timeout},
		limiter:  rate.NewLimiter(rate.Every(cfg.MinInterval), 1),
		cache:    make(map[string]cacheEntry),
		now:      time.Now,
	}
}

// Enabled 是否配置了 API key
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

type request struct {
	APIKey           string      `json:"apiKey"`
	ModelName        string      `json:"modelName"`
	CalledMethod     string      `json:"calledMethod"`
	MethodProperties interface{} `json:"methodProperties"`
}

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

// call 发起一次调用，调用前按最小间隔排队
func (c *Client) call(ctx context.Context, method string, props interface{}, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("novaposhta: wait rate limiter: %w", err)
	}
	payload, err := json.Marshal(request{
		APIKey:           c.apiKey,
		ModelName:        modelAddress,
		CalledMethod:     method,
		MethodProperties: props,
	})
	if err != nil {
		return fmt.Errorf("novaposhta: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("novaposhta: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("novaposhta: %s: %w", method, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return fmt.Errorf("novaposhta: read %s: %w", method, err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrTooManyRequests
	}

	var decoded response
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("novaposhta: decode %s (status %d): %w", method, resp.StatusCode, err)
	}
	if decoded.Success && len(decoded.Data) > 0 {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(decoded.Data, out); err != nil {
			return fmt.Errorf("novaposhta: decode %s data: %w", method, err)
		}
		return nil
	}
	for _, msg := range decoded.Errors {
		if strings.Contains(strings.ToLower(msg), "many requests") {
			logger.Warnw("novaposhta_rate_limited", "method", method)
			return ErrTooManyRequests
		}
	}
	return fmt.Errorf("%w: %s: %s", ErrAPI, method, strings.Join(decoded.Errors, "; "))
}

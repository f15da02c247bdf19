package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	backendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Calls made to the backend REST API",
		},
		[]string{"method", "status"},
	)

	backendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Backend REST API call duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	carrierLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "carrier_lookups_total",
			Help:      "Address lookups against the shipping carrier by outcome",
		},
		[]string{"method", "outcome"},
	)

	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Visitor sessions currently held in memory",
		},
	)
)

// 物流查询结果
const (
	OutcomeHit      = "hit"
	OutcomeFetched  = "fetched"
	OutcomeStale    = "stale"
	OutcomeFailed   = "failed"
	OutcomeLimited  = "rate_limited"
	OutcomeDisabled = "disabled"
)

// Middleware 记录请求数与耗时，路径使用路由模板避免高基数
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler /metrics 输出
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// ObserveBackend 记录一次后端调用，status 为 0 表示连接失败
func ObserveBackend(method string, status int, elapsed time.Duration) {
	backendRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	backendRequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObserveCarrier 记录一次物流地址查询
func ObserveCarrier(method, outcome string) {
	carrierLookupsTotal.WithLabelValues(method, outcome).Inc()
}

// SetActiveSessions 更新内存会话数
func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

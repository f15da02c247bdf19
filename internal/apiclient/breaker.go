package apiclient

import (
	"context"
	"sync"
	"time"

	"github.com/spongik/storefront/internal/logger"
)

type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

// Breaker 后端调用熔断器，所有访客会话共享同一个实例
// 连续失败达到阈值后打开，超时后放行一个探测请求
type Breaker struct {
	mu            sync.Mutex
	state         breakerState
	failureCount  int
	lastErrorTime time.Time
	threshold     int
	timeout       time.Duration
	now           func() time.Time
}

// NewBreaker 创建熔断器，threshold <= 0 时不启用
func NewBreaker(threshold int, timeout time.Duration) *Breaker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Breaker{
		state:     stateClosed,
		threshold: threshold,
		timeout:   timeout,
		now:       time.Now,
	}
}

// allow 是否放行请求
func (b *Breaker) allow() bool {
	if b == nil || b.threshold <= 0 {
		return true
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case stateOpen:
		if b.now().Sub(b.lastErrorTime) > b.timeout {
			b.state = stateHalfOpen
			return true
		}
		return false
	case stateHalfOpen:
		// 已有探测请求在途
		return false
	}
	return true
}

// record 记录结果，只有连接失败和 5xx 计为失败
func (b *Breaker) record(failed bool) {
	if b == nil || b.threshold <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if failed {
		b.failureCount++
		b.lastErrorTime = b.now()
		if b.failureCount >= b.threshold || b.state == stateHalfOpen {
			if b.state != stateOpen {
				logger.Warnw("backend_circuit_opened", "failures", b.failureCount)
			}
			b.state = stateOpen
		}
		return
	}
	if b.state == stateHalfOpen {
		logger.Infow("backend_circuit_recovered")
	}
	b.failureCount = 0
	b.state = stateClosed
}

// Open 熔断器是否处于打开状态
func (b *Breaker) Open() bool {
	if b == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state == stateOpen
}

// retry 按固定间隔重试 fn，ctx 取消时立即返回
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() (bool, error)) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			logger.Debugw("backend_request_retry", "attempt", i+1)
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return err
			case <-timer.C:
			}
		}
		var retryable bool
		retryable, err = fn()
		if err == nil || !retryable {
			return err
		}
	}
	return err
}

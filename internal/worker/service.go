package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/spongik/storefront/internal/logger"
	"github.com/spongik/storefront/internal/storage"
)

const defaultInterval = time.Minute

// SessionEvictor 可淘汰空闲会话的对象
type SessionEvictor interface {
	EvictIdle(now time.Time) int
}

// Service 后台清理服务：定期淘汰空闲会话并清理过期的购物车/收藏存储
type Service struct {
	name     string
	interval time.Duration
	sessions SessionEvictor
	purger   storage.Purger
	now      func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewService 创建清理服务；两个目标都为空时返回错误
func NewService(interval time.Duration, sessions SessionEvictor, store storage.Provider) (*Service, error) {
	var purger storage.Purger
	if p, ok := store.(storage.Purger); ok {
		purger = p
	}
	if sessions == nil && purger == nil {
		return nil, errors.New("janitor has nothing to clean")
	}
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Service{
		name:     "janitor",
		interval: interval,
		sessions: sessions,
		purger:   purger,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "janitor"
	}
	return s.name
}

// Start 启动清理循环，阻塞直到 ctx 结束或 Stop 被调用
func (s *Service) Start(ctx context.Context) error {
	if s == nil {
		return errors.New("janitor not initialized")
	}
	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil {
		return nil
	}
	_ = ctx
	s.stopOnce.Do(func() { close(s.stopCh) })
	return nil
}

// RunOnce 执行一轮清理
func (s *Service) RunOnce(ctx context.Context) {
	now := s.now()
	if s.sessions != nil {
		if evicted := s.sessions.EvictIdle(now); evicted > 0 {
			logger.Infow("worker_sessions_evicted", "count", evicted)
		}
	}
	if s.purger != nil {
		removed, err := s.purger.PurgeExpired(ctx, now)
		if err != nil {
			logger.Warnw("worker_storage_purge_failed", "error", err)
			return
		}
		if removed > 0 {
			logger.Infow("worker_storage_purged", "count", removed)
		}
	}
}

package app

import (
	"errors"
	"time"

	"github.com/spongik/storefront/internal/cache"
	"github.com/spongik/storefront/internal/config"
	"github.com/spongik/storefront/internal/logger"
	"github.com/spongik/storefront/internal/provider"
	"github.com/spongik/storefront/internal/router"
	"github.com/spongik/storefront/internal/storage"
	"github.com/spongik/storefront/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	mode, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}

	container, err := provider.NewContainer(cfg)
	if err != nil {
		return nil, err
	}

	var services []Service

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		httpService := NewHTTPService(addr, engine)
		services = append(services, httpService)
	}

	// 清理服务：api 进程只淘汰内存会话，worker 进程只清理过期存储
	var sessions worker.SessionEvictor
	if mode == ModeAll || mode == ModeAPI {
		sessions = container.Sessions
	}
	var store storage.Provider
	if mode == ModeAll || mode == ModeWorker {
		store = container.Storage
	}
	if sessions != nil || store != nil {
		interval := time.Duration(cfg.Session.JanitorIntervalSeconds) * time.Second
		janitor, err := worker.NewService(interval, sessions, store)
		if err != nil {
			if mode == ModeWorker {
				return nil, err
			}
			logger.Warnw("app_janitor_disabled", "mode", mode, "error", err)
		} else {
			services = append(services, janitor)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	defer func() {
		if err := cache.Close(); err != nil {
			opts.Logger.Warnw("app_redis_close_failed", "error", err)
		}
	}()

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}

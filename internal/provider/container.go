package provider

import (
	"errors"
	"fmt"
	"time"

	"github.com/spongik/storefront/internal/apiclient"
	"github.com/spongik/storefront/internal/authz"
	"github.com/spongik/storefront/internal/cache"
	"github.com/spongik/storefront/internal/checkout"
	"github.com/spongik/storefront/internal/config"
	"github.com/spongik/storefront/internal/logger"
	"github.com/spongik/storefront/internal/models"
	"github.com/spongik/storefront/internal/novaposhta"
	"github.com/spongik/storefront/internal/session"
	"github.com/spongik/storefront/internal/storage"

	"gorm.io/gorm"
)

const (
	breakerThreshold = 5
	breakerTimeout   = 30 * time.Second
	retryAttempts    = 2
	retryDelay       = 300 * time.Millisecond
)

// Container 依赖注入容器
type Container struct {
	Config *config.Config
	DB     *gorm.DB

	Storage      storage.Provider
	Breaker      *apiclient.Breaker
	Sessions     *session.Manager
	NovaPoshta   *novaposhta.Client
	AuthzService *authz.Service
	AuthzAudit   *authz.AuditStore
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}
	return NewContainerWithDB(cfg, models.DB)
}

// NewContainerWithDB 使用指定数据库初始化容器（测试中传入内存 sqlite）
func NewContainerWithDB(cfg *config.Config, db *gorm.DB) (*Container, error) {
	c := &Container{
		Config:  cfg,
		DB:      db,
		Breaker: apiclient.NewBreaker(breakerThreshold, breakerTimeout),
	}

	// 1. 存储与权限
	if err := c.initStorage(); err != nil {
		return nil, err
	}
	if err := c.initAuthz(); err != nil {
		return nil, err
	}

	// 2. 外部服务客户端与会话
	c.NovaPoshta = novaposhta.New(novaposhta.Config{
		APIURL:      cfg.NovaPoshta.APIURL,
		APIKey:      cfg.NovaPoshta.APIKey,
		MinInterval: time.Duration(cfg.NovaPoshta.MinIntervalMS) * time.Millisecond,
		CacheTTL:    time.Duration(cfg.NovaPoshta.CacheTTLSeconds) * time.Second,
		Timeout:     time.Duration(cfg.NovaPoshta.TimeoutSeconds) * time.Second,
	})
	if !c.NovaPoshta.Enabled() {
		logger.Warnw("provider_novaposhta_disabled", "reason", "api_key_missing")
	}

	sessions, err := session.NewManager(session.Options{
		BackendURL: cfg.Backend.BaseURL,
		ClientOptions: []apiclient.Option{
			apiclient.WithTimeout(cfg.Backend.Timeout()),
			apiclient.WithBreaker(c.Breaker),
			apiclient.WithRetry(retryAttempts, retryDelay),
		},
		Storage:     c.Storage,
		IdleTimeout: time.Duration(cfg.Session.IdleMinutes) * time.Minute,
		MaxGuests:   cfg.Session.MaxGuests,
		PageSize:    cfg.Catalog.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("init session manager failed: %w", err)
	}
	c.Sessions = sessions
	return c, nil
}

func (c *Container) initStorage() error {
	provider, err := storage.Open(storage.Options{
		Driver: c.Config.Storage.Driver,
		TTL:    c.Config.Storage.TTL(),
		DB:     c.DB,
	})
	if err != nil {
		logger.Errorw("provider_init_storage_failed", "driver", c.Config.Storage.Driver, "error", err)
		return fmt.Errorf("init storage failed: %w", err)
	}
	c.Storage = provider
	logger.Infow("provider_storage_ready", "driver", provider.Name())
	return nil
}

func (c *Container) initAuthz() error {
	if c.DB == nil {
		logger.Warnw("provider_authz_disabled", "reason", "database_missing")
		return nil
	}
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		return err
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		return err
	}
	audit, err := authz.NewAuditStore(c.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_audit_failed", "error", err)
		return err
	}
	c.AuthzService = authzService
	c.AuthzAudit = audit
	return nil
}

// FreeDeliveryThreshold 免运费门槛
func (c *Container) FreeDeliveryThreshold() models.Money {
	return checkout.ThresholdFromConfig(c.Config.Checkout.FreeDeliveryThreshold)
}

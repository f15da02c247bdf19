package main

import (
	"flag"
	"os"
	"strings"
	"syscall"

	"github.com/spongik/storefront/internal/app"
	"github.com/spongik/storefront/internal/config"
	"github.com/spongik/storefront/internal/logger"
	"github.com/spongik/storefront/internal/models"

	"github.com/gin-gonic/gin"
)

func main() {
	// 解析命令行参数
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	if _, err := app.ParseMode(mode); err != nil {
		stdLog.Fatalf("启动模式错误: %v", err)
	}
	if cfg.Backend.BaseURL == "" {
		stdLog.Fatalf("未配置 backend.base_url")
	}
	if strings.TrimSpace(cfg.NovaPoshta.APIKey) == "" {
		stdLog.Printf("警告: 未配置 novaposhta.api_key，城市与网点查询不可用")
	}
	if cfg.Server.Mode == "release" && !cfg.Session.Secure {
		stdLog.Printf("警告: 生产环境建议开启 session.secure")
	}

	// 初始化数据库（存储、权限策略与审计日志）
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, cfg.Server.Mode == "debug"); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	if err := models.AutoMigrate(nil); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

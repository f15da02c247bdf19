package router

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/spongik/storefront/internal/authz"
	"github.com/spongik/storefront/internal/cache"
	"github.com/spongik/storefront/internal/config"
	adminhandlers "github.com/spongik/storefront/internal/http/handlers/admin"
	storefronthandlers "github.com/spongik/storefront/internal/http/handlers/storefront"
	"github.com/spongik/storefront/internal/http/response"
	"github.com/spongik/storefront/internal/logger"
	"github.com/spongik/storefront/internal/metrics"
	"github.com/spongik/storefront/internal/provider"

	"github.com/gin-gonic/gin"
)

const (
	adminPrefix       = "/api/v1/admin/"
	healthPingTimeout = 2 * time.Second
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	storefrontHandler := storefronthandlers.New(c)
	adminHandler := adminhandlers.New(c)
	loginRule := LoginRateLimitRule(cfg.Security.LoginRateLimit)
	loginLimiter := RateLimitMiddleware(cache.Client(), loginRule, KeyByIPAndJSONField("login"))
	registerLimiter := RateLimitMiddleware(cache.Client(), loginRule, KeyByIP)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	if cfg.Metrics.Enabled {
		r.Use(metrics.Middleware())
	}
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 前台接口（访客会话）
		store := apiV1.Group("/storefront", SessionMiddleware(c.Sessions, cfg.Session))
		{
			store.GET("/config", storefrontHandler.GetConfig)

			// 目录与筛选
			store.GET("/catalog", storefrontHandler.GetCatalog)
			store.POST("/catalog/more", storefrontHandler.LoadMore)
			store.POST("/catalog/filter/category", storefrontHandler.ToggleCategory)
			store.POST("/catalog/filter/chip", storefrontHandler.RemoveChip)
			store.POST("/catalog/filter/reset", storefrontHandler.ResetFilter)
			store.GET("/categories", storefrontHandler.GetCategories)
			store.GET("/products/:slug", storefrontHandler.GetProduct)

			// 购物车
			store.GET("/cart", storefrontHandler.GetCart)
			store.POST("/cart/items", storefrontHandler.AddCartItem)
			store.PATCH("/cart/items/:product_id", storefrontHandler.UpdateCartItem)
			store.DELETE("/cart/items/:product_id", storefrontHandler.DeleteCartItem)
			store.DELETE("/cart", storefrontHandler.ClearCart)

			// 收藏
			store.GET("/favorites", storefrontHandler.GetFavorites)
			store.POST("/favorites/toggle", storefrontHandler.ToggleFavorite)
			store.DELETE("/favorites/:product_id", storefrontHandler.DeleteFavorite)

			// 登录注册
			store.POST("/auth/login", loginLimiter, storefrontHandler.Login)
			store.POST("/auth/register", registerLimiter, storefrontHandler.Register)
			store.POST("/auth/logout", storefrontHandler.Logout)
			store.GET("/auth/me", storefrontHandler.Me)

			// 个人中心
			store.GET("/account", storefrontHandler.GetAccount)
			store.PUT("/account/profile", storefrontHandler.UpdateProfile)
			store.GET("/account/orders/:id", storefrontHandler.GetMyOrder)

			// 下单
			store.GET("/checkout", storefrontHandler.GetCheckout)
			store.POST("/checkout", storefrontHandler.SubmitCheckout)
			store.GET("/checkout/success", storefrontHandler.GetOrderSuccess)
			store.POST("/promo/validate", storefrontHandler.ValidatePromoCode)
			store.GET("/promotions", storefrontHandler.GetPromotions)

			// 新邮政
			store.GET("/shipping/cities", storefrontHandler.SearchCities)
			store.GET("/shipping/warehouses", storefrontHandler.GetWarehouses)
			store.GET("/shipping/warehouses/find", storefrontHandler.FindWarehouse)
		}

		// 管理端接口（会话用户 + RBAC）
		admin := apiV1.Group("/admin", SessionMiddleware(c.Sessions, cfg.Session), AdminRBACMiddleware(c.AuthzService))
		{
			admin.GET("/dashboard", adminHandler.GetDashboard)

			// 订单
			admin.GET("/orders", adminHandler.ListOrders)
			admin.GET("/orders/:id", adminHandler.GetOrder)
			admin.PATCH("/orders/:id/status", adminHandler.UpdateOrderStatus)

			// 商品
			admin.GET("/products", adminHandler.ListProducts)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.GET("/products/:id", adminHandler.GetProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)
			admin.POST("/products/bulk/active", adminHandler.BulkSetActive)
			admin.POST("/products/bulk/price", adminHandler.BulkUpdatePrice)
			admin.POST("/products/bulk/promotion", adminHandler.BulkCreatePromotion)
			admin.POST("/products/:id/images", adminHandler.UploadProductImage)
			admin.DELETE("/products/:id/images/:image_id", adminHandler.DeleteProductImage)

			// 分类
			admin.GET("/categories", adminHandler.ListCategories)
			admin.POST("/categories", adminHandler.CreateCategory)
			admin.PUT("/categories/:id", adminHandler.UpdateCategory)
			admin.DELETE("/categories/:id", adminHandler.DeleteCategory)

			// 活动
			admin.GET("/promotions", adminHandler.ListPromotions)
			admin.POST("/promotions", adminHandler.CreatePromotion)
			admin.GET("/promotions/:id", adminHandler.GetPromotion)
			admin.PUT("/promotions/:id", adminHandler.UpdatePromotion)
			admin.DELETE("/promotions/:id", adminHandler.DeletePromotion)

			// 用户
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/users/:id", adminHandler.GetUser)
			admin.PATCH("/users/:id", adminHandler.UpdateUser)

			// 权限管理
			admin.GET("/authz/me", adminHandler.GetAuthzMe)
			admin.GET("/authz/roles", adminHandler.ListAuthzRoles)
			admin.POST("/authz/roles", adminHandler.CreateAuthzRole)
			admin.DELETE("/authz/roles/:role", adminHandler.DeleteAuthzRole)
			admin.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
			admin.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
			admin.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
			admin.GET("/authz/users/:id/roles", adminHandler.GetAuthzUserRoles)
			admin.PUT("/authz/users/:id/roles", adminHandler.SetAuthzUserRoles)
			admin.GET("/authz/audit-logs", adminHandler.ListAuthzAuditLogs)
			admin.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
				response.Success(ctx, buildAdminPermissionCatalog(r))
			})
		}
	}

	if cfg.Metrics.Enabled {
		path := strings.TrimSpace(cfg.Metrics.Path)
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, metrics.Handler())
	}

	// 健康检查
	r.GET("/health", func(ctx *gin.Context) {
		redisStatus := "disabled"
		if cache.Enabled() {
			pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthPingTimeout)
			defer cancel()
			redisStatus = "ok"
			if err := cache.Ping(pingCtx); err != nil {
				logger.Warnw("health_redis_ping_failed", "error", err)
				redisStatus = "down"
			}
		}
		ctx.JSON(http.StatusOK, gin.H{
			"status":          "ok",
			"redis":           redisStatus,
			"carrier_enabled": c.NovaPoshta.Enabled(),
		})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildAdminPermissionCatalog 由已注册的管理端路由生成可授权的权限列表
func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))
	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == http.MethodOptions || method == http.MethodHead {
			continue
		}
		if !strings.HasPrefix(item.Path, adminPrefix) {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module != items[j].Module {
			return items[i].Module < items[j].Module
		}
		if items[i].Object != items[j].Object {
			return items[i].Object < items[j].Object
		}
		return items[i].Method < items[j].Method
	})
	return items
}

// deriveAdminPermissionModule /admin/products/:id -> products
func deriveAdminPermissionModule(object string) string {
	segments := strings.Split(strings.Trim(strings.TrimSpace(object), "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return "system"
	}
	if segments[0] != "admin" || len(segments) == 1 {
		return segments[0]
	}
	return segments[1]
}

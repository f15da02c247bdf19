package storefront

import (
	"github.com/spongik/storefront/internal/http/handlers/shared"
	"github.com/spongik/storefront/internal/provider"
)

// Handler 前台接口处理器入口
// 说明：每个请求通过访客会话访问购物车、收藏与后端客户端。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	shared.RegisterBindingValidations()
	return &Handler{Container: c}
}

func (h *Handler) pageSize() int {
	if h.Config == nil || h.Config.Catalog.PageSize <= 0 {
		return 0
	}
	return h.Config.Catalog.PageSize
}

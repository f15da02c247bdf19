package admin

import (
	"net/url"
	"strconv"

	"github.com/spongik/storefront/internal/http/response"
	"github.com/spongik/storefront/internal/view"

	"github.com/gin-gonic/gin"
)

const dashboardOrdersFetch = 20

// GetDashboard 仪表盘：统计数据与最新订单
func (h *Handler) GetDashboard(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	stats, err := sess.API.AdminStats(ctxOf(c))
	if err != nil {
		h.respondBackendError(c, sess, err, "error.dashboard_fetch_failed")
		return
	}
	query := url.Values{}
	query.Set("page_size", strconv.Itoa(dashboardOrdersFetch))
	orders, err := sess.API.AdminOrders(ctxOf(c), query)
	if err != nil {
		// 订单加载失败时仍展示统计
		requestLog(c).Warnw("admin_dashboard_orders_failed", "error", err)
		response.Success(c, view.NewDashboardPage(*stats, nil, locale(c)))
		return
	}
	response.Success(c, view.NewDashboardPage(*stats, orders.Items, locale(c)))
}

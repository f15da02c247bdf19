package admin

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/spongik/storefront/internal/apiclient"
	"github.com/spongik/storefront/internal/http/handlers/shared"
	"github.com/spongik/storefront/internal/http/response"
	"github.com/spongik/storefront/internal/models"
	"github.com/spongik/storefront/internal/view"

	"github.com/gin-gonic/gin"
)

// ListOrders 订单列表，支持 status / q 筛选
func (h *Handler) ListOrders(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	page, pageSize := shared.ParsePagination(c)
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		query.Set("status", status)
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		query.Set("search", q)
	}
	orders, err := sess.API.AdminOrders(ctxOf(c), query)
	if err != nil {
		h.respondBackendError(c, sess, err, "error.orders_load_failed")
		return
	}
	response.Success(c, view.NewOrdersPage(*orders, locale(c)))
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := sess.API.AdminOrder(ctxOf(c), id)
	if err != nil {
		if apiclient.IsNotFound(err) {
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
			return
		}
		h.respondBackendError(c, sess, err, "error.orders_load_failed")
		return
	}
	response.Success(c, view.NewAdminOrderDetail(*order, locale(c)))
}

// UpdateOrderStatus 更新订单状态（可同时标记已支付）
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req models.OrderStatusInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	order, err := sess.API.AdminUpdateOrderStatus(ctxOf(c), id, req)
	if err != nil {
		h.respondBackendError(c, sess, err, "error.admin_action_failed")
		return
	}
	requestLog(c).Infow("admin_order_status_updated",
		"operator_user_id", currentUserID(c),
		"order_id", id,
		"status", req.Status,
	)
	response.SuccessWithMsg(c, toast(c, "toast.saved"), view.NewAdminOrderDetail(*order, locale(c)))
}

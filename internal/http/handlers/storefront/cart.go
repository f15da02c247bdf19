package storefront

import (
	"strings"

	"github.com/spongik/storefront/internal/http/handlers/shared"
	"github.com/spongik/storefront/internal/http/response"
	"github.com/spongik/storefront/internal/session"
	"github.com/spongik/storefront/internal/state"
	"github.com/spongik/storefront/internal/view"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 加入购物车请求
type CartItemRequest struct {
	Slug     string `json:"slug" binding:"required"`
	Quantity int    `json:"quantity"`
}

// CartQtyRequest 修改数量请求
type CartQtyRequest struct {
	Quantity int `json:"quantity"`
}

// refreshCart 购物车行缺少价格或展示字段时从商品接口补全，失败保持原样
func (h *Handler) refreshCart(c *gin.Context, sess *session.Session) {
	for _, line := range sess.Store.Cart.All() {
		if !state.NeedsRefresh(line) || line.Slug == "" {
			continue
		}
		product, err := sess.API.Product(ctxOf(c), line.Slug)
		if err != nil {
			requestLog(c).Debugw("cart_line_refresh_failed", "product_id", line.ID, "error", err)
			continue
		}
		sess.Store.Cart.Refresh(ctxOf(c), *product)
	}
}

// GetCart 购物车页
func (h *Handler) GetCart(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	h.refreshCart(c, sess)
	response.Success(c, view.NewCartPage(sess.Store.Cart.All(), locale(c)))
}

// AddCartItem 加入购物车：以后端最新商品数据作为价格快照
func (h *Handler) AddCartItem(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	product, err := sess.API.Product(ctxOf(c), strings.TrimSpace(req.Slug))
	if err != nil {
		respondBackendError(c, err, "error.product_not_found")
		return
	}
	if !product.InStock {
		respondError(c, response.CodeBadRequest, "error.product_out_of_stock", nil)
		return
	}
	sess.Store.Cart.Add(ctxOf(c), *product, req.Quantity)
	response.SuccessWithMsg(c, toast(c, "toast.cart_added"), view.NewCartPage(sess.Store.Cart.All(), locale(c)))
}

// UpdateCartItem 修改数量，数量 <= 0 等同删除
func (h *Handler) UpdateCartItem(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	id, ok := shared.ParseUintParam(c, "product_id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.product_id_invalid", nil)
		return
	}
	var req CartQtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if !sess.Store.Cart.UpdateQty(ctxOf(c), id, req.Quantity) {
		respondError(c, response.CodeNotFound, "error.cart_item_not_found", nil)
		return
	}
	response.SuccessWithMsg(c, toast(c, "toast.cart_updated"), view.NewCartPage(sess.Store.Cart.All(), locale(c)))
}

// DeleteCartItem 删除购物车行
func (h *Handler) DeleteCartItem(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	id, ok := shared.ParseUintParam(c, "product_id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.product_id_invalid", nil)
		return
	}
	if !sess.Store.Cart.Remove(ctxOf(c), id) {
		respondError(c, response.CodeNotFound, "error.cart_item_not_found", nil)
		return
	}
	response.SuccessWithMsg(c, toast(c, "toast.cart_removed"), view.NewCartPage(sess.Store.Cart.All(), locale(c)))
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	sess.Store.Cart.Clear(ctxOf(c))
	response.SuccessWithMsg(c, toast(c, "toast.cart_cleared"), view.NewCartPage(nil, locale(c)))
}

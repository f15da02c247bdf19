package storefront

import (
	"github.com/spongik/storefront/internal/apiclient"
	"github.com/spongik/storefront/internal/http/handlers/shared"
	"github.com/spongik/storefront/internal/http/response"
	"github.com/spongik/storefront/internal/models"
	"github.com/spongik/storefront/internal/view"

	"github.com/gin-gonic/gin"
)

// GetAccount 个人中心：资料与订单列表
func (h *Handler) GetAccount(c *gin.Context) {
	sess, ok := requireUser(c)
	if !ok {
		return
	}
	orders, err := sess.API.MyOrders(ctxOf(c))
	if err != nil {
		h.expireOnUnauthorized(c, sess, err)
		respondBackendError(c, err, "error.orders_load_failed")
		return
	}
	response.Success(c, view.NewAccountPage(sess.User(), orders, locale(c)))
}

// UpdateProfile 更新个人资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	sess, ok := requireUser(c)
	if !ok {
		return
	}
	var req models.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	user, err := sess.API.UpdateProfile(ctxOf(c), req)
	if err != nil {
		h.expireOnUnauthorized(c, sess, err)
		respondBackendError(c, err, "error.profile_update_failed")
		return
	}
	sess.Store.User.Set(user)
	h.Sessions.Persist(ctxOf(c), sess)
	response.SuccessWithMsg(c, toast(c, "toast.profile_updated"), gin.H{"user": user})
}

// GetMyOrder 订单详情
func (h *Handler) GetMyOrder(c *gin.Context) {
	sess, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := shared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	order, err := sess.API.MyOrder(ctxOf(c), id)
	if err != nil {
		if apiclient.IsNotFound(err) {
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
			return
		}
		h.expireOnUnauthorized(c, sess, err)
		respondBackendError(c, err, "error.orders_load_failed")
		return
	}
	response.Success(c, view.NewOrderView(*order, locale(c)))
}

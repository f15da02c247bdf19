package storefront

import (
	"errors"
	"strings"

	"github.com/spongik/storefront/internal/checkout"
	"github.com/spongik/storefront/internal/http/handlers/shared"
	"github.com/spongik/storefront/internal/http/response"
	"github.com/spongik/storefront/internal/models"
	"github.com/spongik/storefront/internal/view"

	"github.com/gin-gonic/gin"
)

// GetCheckout 结算页：购物车汇总、免运费提示，登录用户预填联系人
func (h *Handler) GetCheckout(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	h.refreshCart(c, sess)
	page := view.NewCheckoutPage(sess.Store.Cart.All(), h.FreeDeliveryThreshold(), locale(c))
	prefill := checkout.Form{DeliveryType: models.DeliveryNovaPoshta, PaymentType: models.PaymentCash}
	if user := sess.User(); user != nil {
		prefill.FirstName = user.FirstName
		prefill.LastName = user.LastName
		prefill.Phone = user.Phone
		prefill.Email = user.Email
	}
	response.Success(c, gin.H{
		"page":            page,
		"form":            prefill,
		"carrier_enabled": h.NovaPoshta.Enabled(),
	})
}

// SubmitCheckout 提交订单
func (h *Handler) SubmitCheckout(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	var form checkout.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	conf, err := checkout.Submit(ctxOf(c), sess.API, sess.Store.Cart, form, locale(c))
	if err != nil {
		var fields checkout.FieldErrors
		if errors.As(err, &fields) {
			shared.RespondFieldErrors(c, "error.checkout_invalid", fields)
			return
		}
		h.expireOnUnauthorized(c, sess, err)
		respondWithMappedError(c, err, checkoutErrorRules, "error.order_failed")
		return
	}
	sess.SetConfirmation(conf)
	response.SuccessWithMsg(c, toast(c, "toast.order_created"), view.NewOrderSuccessPage(conf, locale(c)))
}

// GetOrderSuccess 最近一次下单结果；没有下单记录时 404
func (h *Handler) GetOrderSuccess(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	conf := sess.Confirmation()
	if conf == nil {
		respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		return
	}
	if number := strings.TrimSpace(c.Query("order")); number != "" && number != conf.OrderNumber {
		respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		return
	}
	response.Success(c, view.NewOrderSuccessPage(conf, locale(c)))
}

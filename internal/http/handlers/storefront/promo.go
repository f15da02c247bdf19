package storefront

import (
	"strings"
	"time"

	"github.com/spongik/storefront/internal/checkout"
	"github.com/spongik/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// PromoCodeRequest 校验促销码
type PromoCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// ValidatePromoCode 校验促销码，仅做提示，最终折扣以后端下单结果为准
func (h *Handler) ValidatePromoCode(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	var req PromoCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	promo, err := sess.API.ValidatePromoCode(ctxOf(c), strings.TrimSpace(req.Code), time.Now())
	if err != nil {
		respondBackendError(c, err, "error.promo_code_invalid")
		return
	}
	if promo == nil {
		respondError(c, response.CodeNotFound, "error.promo_code_invalid", nil)
		return
	}
	summary := checkout.Summarize(sess.Store.Cart.All(), h.FreeDeliveryThreshold())
	response.SuccessWithMsg(c, toast(c, "toast.promo_applied"), gin.H{
		"promotion": promo,
		"summary":   summary,
	})
}

// GetPromotions 当前生效的促销活动
func (h *Handler) GetPromotions(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	promotions, err := sess.API.ActivePromotions(ctxOf(c))
	if err != nil {
		respondBackendError(c, err, "error.generic")
		return
	}
	now := time.Now()
	active := promotions[:0]
	for _, p := range promotions {
		if p.ActiveAt(now) {
			active = append(active, p)
		}
	}
	response.Success(c, active)
}

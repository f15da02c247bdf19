package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/spongik/storefront/internal/apiclient"
	"github.com/spongik/storefront/internal/http/response"
	"github.com/spongik/storefront/internal/models"
	"github.com/spongik/storefront/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

var (
	errInvalidValue = errors.New("promotion value is invalid")
	errInvalidRange = errors.New("promotion ends before it starts")
	hundred         = decimal.NewFromInt(100)
)

// PromotionRequest 创建/更新促销（时间为 RFC3339 字符串）
type PromotionRequest struct {
	Code        *string       `json:"code"`
	Name        *string       `json:"name"`
	Description *string       `json:"description"`
	Type        *string       `json:"type" binding:"omitempty,oneof=percent fixed"`
	Scope       *string       `json:"scope" binding:"omitempty,oneof=all category product"`
	Priority    *int          `json:"priority"`
	Value       *models.Money `json:"value"`
	TargetIDs   []uint        `json:"target_ids"`
	StartsAt    string        `json:"starts_at"`
	EndsAt      string        `json:"ends_at"`
	IsActive    *bool         `json:"is_active"`
}

func (r PromotionRequest) toInput() (models.PromotionInput, error) {
	input := models.PromotionInput{
		Code:        trimmedPtr(r.Code),
		Name:        trimmedPtr(r.Name),
		Description: r.Description,
		Type:        r.Type,
		Scope:       r.Scope,
		Priority:    r.Priority,
		Value:       r.Value,
		IsActive:    r.IsActive,
	}
	if r.Value != nil {
		if !r.Value.IsPositive() {
			return input, errInvalidValue
		}
		if r.Type != nil && *r.Type == models.PromotionTypePercent && r.Value.GreaterThan(hundred) {
			return input, errInvalidValue
		}
	}
	startsAt, err := parseTimeNullable(r.StartsAt)
	if err != nil {
		return input, err
	}
	endsAt, err := parseTimeNullable(r.EndsAt)
	if err != nil {
		return input, err
	}
	if startsAt != nil && endsAt != nil && endsAt.Before(*startsAt) {
		return input, errInvalidRange
	}
	input.StartsAt, input.EndsAt = startsAt, endsAt
	if r.TargetIDs != nil {
		ids := uniqueIDs(r.TargetIDs)
		raw := "[]"
		if len(ids) > 0 {
			parts := make([]string, 0, len(ids))
			for _, id := range ids {
				parts = append(parts, strconv.FormatUint(uint64(id), 10))
			}
			raw = "[" + strings.Join(parts, ",") + "]"
		}
		input.TargetIDs = &raw
	}
	return input, nil
}

func trimmedPtr(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	return &s
}

// ListPromotions 促销列表
func (h *Handler) ListPromotions(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	promotions, err := sess.API.AdminPromotions(ctxOf(c))
	if err != nil {
		h.respondBackendError(c, sess, err, "error.promotions_load_failed")
		return
	}
	response.Success(c, view.NewPromotionRows(promotions, time.Now(), locale(c)))
}

// GetPromotion 促销详情
func (h *Handler) GetPromotion(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	promotion, err := sess.API.AdminPromotion(ctxOf(c), id)
	if err != nil {
		if apiclient.IsNotFound(err) {
			respondError(c, response.CodeNotFound, "error.not_found", nil)
			return
		}
		h.respondBackendError(c, sess, err, "error.promotions_load_failed")
		return
	}
	response.Success(c, promotion)
}

// CreatePromotion 创建促销
func (h *Handler) CreatePromotion(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" || req.Type == nil || req.Value == nil {
		respondError(c, response.CodeBadRequest, "error.promotion_invalid", nil)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.promotion_invalid", nil)
		return
	}
	if input.Scope == nil {
		scope := models.PromotionScopeAll
		input.Scope = &scope
	}
	promotion, err := sess.API.AdminCreatePromotion(ctxOf(c), input)
	if err != nil {
		h.respondBackendError(c, sess, err, "error.admin_action_failed")
		return
	}
	requestLog(c).Infow("admin_promotion_created", "operator_user_id", currentUserID(c), "promotion_id", promotion.ID)
	response.SuccessWithMsg(c, toast(c, "toast.saved"), promotion)
}

// UpdatePromotion 更新促销
func (h *Handler) UpdatePromotion(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.promotion_invalid", nil)
		return
	}
	promotion, err := sess.API.AdminUpdatePromotion(ctxOf(c), id, input)
	if err != nil {
		h.respondBackendError(c, sess, err, "error.admin_action_failed")
		return
	}
	requestLog(c).Infow("admin_promotion_updated", "operator_user_id", currentUserID(c), "promotion_id", id)
	response.SuccessWithMsg(c, toast(c, "toast.saved"), promotion)
}

// DeletePromotion 删除促销
func (h *Handler) DeletePromotion(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := sess.API.AdminDeletePromotion(ctxOf(c), id); err != nil {
		h.respondBackendError(c, sess, err, "error.admin_action_failed")
		return
	}
	response.SuccessWithMsg(c, toast(c, "toast.deleted"), nil)
}

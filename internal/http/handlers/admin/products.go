package admin

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spongik/storefront/internal/apiclient"
	"github.com/spongik/storefront/internal/http/handlers/shared"
	"github.com/spongik/storefront/internal/http/response"
	"github.com/spongik/storefront/internal/models"
	"github.com/spongik/storefront/internal/view"

	"github.com/gin-gonic/gin"
)

const maxImageBytes = 5 << 20

var allowedImageExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

// BulkPromotionRequest 为选中商品批量创建促销
type BulkPromotionRequest struct {
	ProductIDs []uint       `json:"product_ids" binding:"required,min=1"`
	Name       string       `json:"name" binding:"required"`
	Type       string       `json:"type" binding:"required,oneof=percent fixed"`
	Value      models.Money `json:"value"`
	Priority   int          `json:"priority"`
	StartsAt   string       `json:"starts_at"`
	EndsAt     string       `json:"ends_at"`
}

// ListProducts 商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	page, pageSize := shared.ParsePagination(c)
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))
	for _, key := range []string{"search", "category_id", "is_active", "in_stock"} {
		if v := strings.TrimSpace(c.Query(key)); v != "" {
			query.Set(key, v)
		}
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		query.Set("search", q)
	}
	products, err := sess.API.AdminProducts(ctxOf(c), query)
	if err != nil {
		h.respondBackendError(c, sess, err, "error.products_load_failed")
		return
	}
	response.Success(c, view.NewProductsPage(*products, locale(c)))
}

// GetProduct 商品详情（含图片）
func (h *Handler) GetProduct(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := sess.API.AdminProduct(ctxOf(c), id)
	if err != nil {
		if apiclient.IsNotFound(err) {
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
			return
		}
		h.respondBackendError(c, sess, err, "error.products_load_failed")
		return
	}
	response.Success(c, gin.H{
		"product": product,
		"row":     view.NewAdminProductRow(*product, locale(c)),
		"gallery": view.Gallery(*product),
	})
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var req models.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" || req.Price == nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	product, err := sess.API.AdminCreateProduct(ctxOf(c), req)
	if err != nil {
		h.respondBackendError(c, sess, err, "error.admin_action_failed")
		return
	}
	requestLog(c).Infow("admin_product_created", "operator_user_id", currentUserID(c), "product_id", product.ID)
	response.SuccessWithMsg(c, toast(c, "toast.saved"), product)
}

// UpdateProduct 更新商品（仅提交的字段）
func (h *Handler) UpdateProduct(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req models.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := sess.API.AdminUpdateProduct(ctxOf(c), id, req)
	if err != nil {
		h.respondBackendError(c, sess, err, "error.admin_action_failed")
		return
	}
	requestLog(c).Infow("admin_product_updated", "operator_user_id", currentUserID(c), "product_id", id)
	response.SuccessWithMsg(c, toast(c, "toast.saved"), product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := sess.API.AdminDeleteProduct(ctxOf(c), id); err != nil {
		h.respondBackendError(c, sess, err, "error.admin_action_failed")
		return
	}
	requestLog(c).Infow("admin_product_deleted", "operator_user_id", currentUserID(c), "product_id", id)
	response.SuccessWithMsg(c, toast(c, "toast.deleted"), nil)
}

// BulkSetActive 批量上下架
func (h *Handler) BulkSetActive(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var req models.BulkActiveInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := sess.API.AdminBulkActive(ctxOf(c), req); err != nil {
		h.respondBackendError(c, sess, err, "error.admin_action_failed")
		return
	}
	requestLog(c).Infow("admin_products_bulk_active",
		"operator_user_id", currentUserID(c),
		"count", len(req.ProductIDs),
		"is_active", req.IsActive,
	)
	response.SuccessWithMsg(c, toast(c, "toast.saved"), gin.H{"updated": len(req.ProductIDs)})
}

// BulkUpdatePrice 批量调价
func (h *Handler) BulkUpdatePrice(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var req models.BulkPriceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	switch {
	case req.Scope == "category" && req.CategoryID == nil,
		req.Scope == "product_ids" && len(req.ProductIDs) == 0,
		!req.Value.IsPositive():
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := sess.API.AdminBulkPrice(ctxOf(c), req); err != nil {
		h.respondBackendError(c, sess, err, "error.admin_action_failed")
		return
	}
	requestLog(c).Infow("admin_products_bulk_price",
		"operator_user_id", currentUserID(c),
		"scope", req.Scope,
		"operation", req.Operation,
		"value_type", req.ValueType,
		"value", req.Value.String(),
	)
	response.SuccessWithMsg(c, toast(c, "toast.saved"), nil)
}

// BulkCreatePromotion 为选中商品创建一条商品范围的促销
func (h *Handler) BulkCreatePromotion(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var req BulkPromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := buildBulkPromotion(req)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	promotion, err := sess.API.AdminCreatePromotion(ctxOf(c), input)
	if err != nil {
		h.respondBackendError(c, sess, err, "error.admin_action_failed")
		return
	}
	requestLog(c).Infow("admin_products_bulk_promotion",
		"operator_user_id", currentUserID(c),
		"promotion_id", promotion.ID,
		"count", len(req.ProductIDs),
	)
	response.SuccessWithMsg(c, toast(c, "toast.saved"), promotion)
}

func buildBulkPromotion(req BulkPromotionRequest) (models.PromotionInput, error) {
	if !req.Value.IsPositive() {
		return models.PromotionInput{}, errInvalidValue
	}
	if req.Type == models.PromotionTypePercent && req.Value.GreaterThan(hundred) {
		return models.PromotionInput{}, errInvalidValue
	}
	startsAt, err := parseTimeNullable(req.StartsAt)
	if err != nil {
		return models.PromotionInput{}, err
	}
	endsAt, err := parseTimeNullable(req.EndsAt)
	if err != nil {
		return models.PromotionInput{}, err
	}
	if startsAt != nil && endsAt != nil && endsAt.Before(*startsAt) {
		return models.PromotionInput{}, errInvalidRange
	}
	ids := uniqueIDs(req.ProductIDs)
	raw, err := json.Marshal(ids)
	if err != nil {
		return models.PromotionInput{}, err
	}
	name := strings.TrimSpace(req.Name)
	scope := models.PromotionScopeProduct
	targets := string(raw)
	active := true
	value := req.Value
	priority := req.Priority
	return models.PromotionInput{
		Name:      &name,
		Type:      &req.Type,
		Scope:     &scope,
		Priority:  &priority,
		Value:     &value,
		TargetIDs: &targets,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
		IsActive:  &active,
	}, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// UploadProductImage 上传商品图片（multipart: file, alt, sort_order, is_primary）
func (h *Handler) UploadProductImage(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.upload_invalid", err)
		return
	}
	if fileHeader.Size > maxImageBytes || !allowedImageExt[strings.ToLower(filepath.Ext(fileHeader.Filename))] {
		respondError(c, response.CodeBadRequest, "error.upload_invalid", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.upload_invalid", err)
		return
	}
	defer file.Close()
	content, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil || len(content) == 0 || len(content) > maxImageBytes {
		respondError(c, response.CodeBadRequest, "error.upload_invalid", err)
		return
	}
	if !strings.HasPrefix(http.DetectContentType(content), "image/") {
		respondError(c, response.CodeBadRequest, "error.upload_invalid", nil)
		return
	}
	sortOrder, _ := strconv.Atoi(strings.TrimSpace(c.PostForm("sort_order")))
	isPrimary, _ := strconv.ParseBool(strings.TrimSpace(c.PostForm("is_primary")))

	image, err := sess.API.AdminUploadImage(ctxOf(c), id, apiclient.ImageUpload{
		Filename:  filepath.Base(fileHeader.Filename),
		Content:   content,
		Alt:       strings.TrimSpace(c.PostForm("alt")),
		SortOrder: sortOrder,
		IsPrimary: isPrimary,
	})
	if err != nil {
		h.respondBackendError(c, sess, err, "error.admin_action_failed")
		return
	}
	requestLog(c).Infow("admin_product_image_uploaded",
		"operator_user_id", currentUserID(c),
		"product_id", id,
		"image_id", image.ID,
		"bytes", len(content),
	)
	response.SuccessWithMsg(c, toast(c, "toast.saved"), image)
}

// DeleteProductImage 删除商品图片
func (h *Handler) DeleteProductImage(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseIDParam(c, "image_id")
	if !ok {
		return
	}
	if err := sess.API.AdminDeleteImage(ctxOf(c), id, imageID); err != nil {
		h.respondBackendError(c, sess, err, "error.admin_action_failed")
		return
	}
	response.SuccessWithMsg(c, toast(c, "toast.deleted"), nil)
}

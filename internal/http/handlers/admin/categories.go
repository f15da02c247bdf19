package admin

import (
	"strings"

	"github.com/spongik/storefront/internal/http/response"
	"github.com/spongik/storefront/internal/models"
	"github.com/spongik/storefront/internal/view"

	"github.com/gin-gonic/gin"
)

// ListCategories 分类树（含未启用分类）
func (h *Handler) ListCategories(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	categories, err := sess.API.AdminCategories(ctxOf(c))
	if err != nil {
		h.respondBackendError(c, sess, err, "error.categories_load_failed")
		return
	}
	response.Success(c, view.NewAdminCategoryTree(categories))
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var req models.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	category, err := sess.API.AdminCreateCategory(ctxOf(c), req)
	if err != nil {
		h.respondBackendError(c, sess, err, "error.admin_action_failed")
		return
	}
	requestLog(c).Infow("admin_category_created", "operator_user_id", currentUserID(c), "category_id", category.ID)
	response.SuccessWithMsg(c, toast(c, "toast.saved"), category)
}

// UpdateCategory 更新分类；不允许把分类挂到自身下
func (h *Handler) UpdateCategory(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req models.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if req.ParentID != nil && *req.ParentID == id {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	category, err := sess.API.AdminUpdateCategory(ctxOf(c), id, req)
	if err != nil {
		h.respondBackendError(c, sess, err, "error.admin_action_failed")
		return
	}
	response.SuccessWithMsg(c, toast(c, "toast.saved"), category)
}

// DeleteCategory 删除分类
func (h *Handler) DeleteCategory(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := sess.API.AdminDeleteCategory(ctxOf(c), id); err != nil {
		h.respondBackendError(c, sess, err, "error.admin_action_failed")
		return
	}
	requestLog(c).Infow("admin_category_deleted", "operator_user_id", currentUserID(c), "category_id", id)
	response.SuccessWithMsg(c, toast(c, "toast.deleted"), nil)
}

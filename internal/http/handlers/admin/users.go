package admin

import (
	"github.com/spongik/storefront/internal/apiclient"
	"github.com/spongik/storefront/internal/http/handlers/shared"
	"github.com/spongik/storefront/internal/http/response"
	"github.com/spongik/storefront/internal/models"
	"github.com/spongik/storefront/internal/view"

	"github.com/gin-gonic/gin"
)

// UpdateUserRequest 更新用户角色或启用状态
type UpdateUserRequest struct {
	Role     *string `json:"role" binding:"omitempty,oneof=customer manager admin"`
	IsActive *bool   `json:"is_active"`
}

// ListUsers 用户列表（后端按 skip/limit 分页）
func (h *Handler) ListUsers(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	page, pageSize := shared.ParsePagination(c)
	users, err := sess.API.AdminUsers(ctxOf(c), (page-1)*pageSize, pageSize)
	if err != nil {
		h.respondBackendError(c, sess, err, "error.users_load_failed")
		return
	}
	response.Success(c, gin.H{
		"users":     view.NewUserRows(users, locale(c)),
		"page":      page,
		"page_size": pageSize,
		"has_more":  len(users) == pageSize,
	})
}

// GetUser 用户详情，附带本地 RBAC 附加角色
func (h *Handler) GetUser(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, err := sess.API.AdminUser(ctxOf(c), id)
	if err != nil {
		if apiclient.IsNotFound(err) {
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
			return
		}
		h.respondBackendError(c, sess, err, "error.users_load_failed")
		return
	}
	roles := []string{}
	if h.AuthzService != nil {
		if extra, err := h.AuthzService.GetUserRoles(user.ID); err == nil {
			roles = extra
		} else {
			requestLog(c).Warnw("admin_user_roles_load_failed", "target_user_id", user.ID, "error", err)
		}
	}
	response.Success(c, gin.H{
		"user":  view.NewUserRows([]models.AdminUser{*user}, locale(c))[0],
		"roles": roles,
	})
}

// UpdateUser 修改用户角色或启用状态；不能停用或降级自己
func (h *Handler) UpdateUser(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if req.Role == nil && req.IsActive == nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if id == sess.User().ID {
		if (req.IsActive != nil && !*req.IsActive) || (req.Role != nil && *req.Role != sess.User().Role) {
			respondError(c, response.CodeForbidden, "error.self_update_forbidden", nil)
			return
		}
	}
	user, err := sess.API.AdminUpdateUser(ctxOf(c), id, models.AdminUserInput{Role: req.Role, IsActive: req.IsActive})
	if err != nil {
		h.respondBackendError(c, sess, err, "error.admin_action_failed")
		return
	}
	requestLog(c).Infow("admin_user_updated",
		"operator_user_id", currentUserID(c),
		"target_user_id", id,
		"role", user.Role,
		"is_active", user.IsActive,
	)
	response.SuccessWithMsg(c, toast(c, "toast.saved"), view.NewUserRows([]models.AdminUser{*user}, locale(c))[0])
}
